package config

import "time"

// DefaultConfig returns the default configuration: six behavioral groups,
// the geographic and organizational tables, and disabled external sinks.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			NumEmployees:   1666,
			Days:           180,
			MaliciousRatio: 0.05,
			Seed:           0, // 0 = derive from wall clock
			Workers:        4,
			MinTripDays:    1,
			MaxTripDays:    14,
			AbsenceRate:    0.05,
		},
		Patterns: map[string]GroupPattern{
			"A": {
				Name:             "Executive Management",
				WorkHours:        WorkHoursPattern{StartMean: 7.5, StartStd: 1.0, EndMean: 18.5, EndStd: 1.5},
				PrintLikelihood:  0.4,
				PrintVolume:      PrintVolumePattern{CommandsMean: 4, PagesMean: 12, ColorRatio: 0.4},
				BurnLikelihood:   0.08,
				Burn:             BurnPattern{RequestsMean: 2, VolumeMeanLog: 7.5, FilesMean: 15, HighClassification: true},
				TravelLikelihood: 0.015,
				OffHoursTendency: 0.3,
			},
			"B": {
				Name:             "Developers & Engineers",
				WorkHours:        WorkHoursPattern{StartMean: 8.5, StartStd: 0.8, EndMean: 18.0, EndStd: 2.0},
				PrintLikelihood:  0.2,
				PrintVolume:      PrintVolumePattern{CommandsMean: 2, PagesMean: 6, ColorRatio: 0.1},
				BurnLikelihood:   0.12,
				Burn:             BurnPattern{RequestsMean: 3, VolumeMeanLog: 6.8, FilesMean: 35},
				TravelLikelihood: 0.003,
				OffHoursTendency: 0.4,
			},
			"C": {
				Name:             "Office Workers & Secretaries",
				WorkHours:        WorkHoursPattern{StartMean: 8.0, StartStd: 0.3, EndMean: 16.5, EndStd: 0.5},
				PrintLikelihood:  0.6,
				PrintVolume:      PrintVolumePattern{CommandsMean: 5, PagesMean: 18, ColorRatio: 0.25},
				BurnLikelihood:   0.03,
				Burn:             BurnPattern{RequestsMean: 1, VolumeMeanLog: 5.5, FilesMean: 8},
				TravelLikelihood: 0.001,
				OffHoursTendency: 0.05,
			},
			"D": {
				Name:             "Marketing & Business Development",
				WorkHours:        WorkHoursPattern{StartMean: 8.2, StartStd: 1.0, EndMean: 17.8, EndStd: 1.8},
				PrintLikelihood:  0.7,
				PrintVolume:      PrintVolumePattern{CommandsMean: 6, PagesMean: 22, ColorRatio: 0.6},
				BurnLikelihood:   0.06,
				Burn:             BurnPattern{RequestsMean: 2, VolumeMeanLog: 6.5, FilesMean: 20},
				TravelLikelihood: 0.012,
				OffHoursTendency: 0.2,
			},
			"E": {
				Name:             "Security Personnel",
				WorkHours:        WorkHoursPattern{StartMean: 8.0, StartStd: 4.0, EndMean: 17.0, EndStd: 4.0},
				PrintLikelihood:  0.15,
				PrintVolume:      PrintVolumePattern{CommandsMean: 2, PagesMean: 4, ColorRatio: 0.05},
				BurnLikelihood:   0.04,
				Burn:             BurnPattern{RequestsMean: 1, VolumeMeanLog: 6.0, FilesMean: 5, HighClassification: true},
				TravelLikelihood: 0.001,
				OffHoursTendency: 0.3,
				WeekendWork:      0.6,
			},
			"F": {
				Name:             "IT Staff",
				WorkHours:        WorkHoursPattern{StartMean: 8.5, StartStd: 1.2, EndMean: 17.5, EndStd: 2.5},
				PrintLikelihood:  0.25,
				PrintVolume:      PrintVolumePattern{CommandsMean: 3, PagesMean: 9, ColorRatio: 0.15},
				BurnLikelihood:   0.15,
				Burn:             BurnPattern{RequestsMean: 4, VolumeMeanLog: 7.2, FilesMean: 45},
				TravelLikelihood: 0.002,
				OffHoursTendency: 0.35,
			},
		},
		Malicious: MaliciousBias{
			TravelMultiplier:       1.5,
			BurnLikelihoodMult:     3.0,
			PrintPageMultiplier:    5.0,
			OffHoursTendencyMult:   1.8,
			OffHoursTendencyCap:    0.4,
			NightHoursProb:         0.01,
			BenignNightHoursProb:   0.008,
			WeekendWorkProb:        0.3,
			BenignWeekendWorkProb:  0.05,
			CrossCampusProb:        0.15,
			BenignCrossCampusProb:  0.02,
			AbroadAccessProb:       0.05,
			BenignAbroadAccessProb: 0.001,
			OverClearanceWeights:   []float64{0.3, 0.4, 0.3},
			HostileDestProbs:       []float64{0.15, 0.10, 0.10},
			BenignHostileDestProbs: []float64{0.005, 0.01, 0.02},
		},
		Geography: GeographyConfig{
			Campuses: []string{"Campus A", "Campus B", "Campus C"},
			OriginCountries: []string{
				"Israel", "Russia", "Ukraine", "USA", "France", "Ethiopia", "Morocco",
				"Argentina", "Germany", "UK", "India", "China", "South Africa",
				"Brazil", "Canada", "Romania", "Hungary", "Poland", "Turkey", "Georgia",
				"Iran", "Syria", "Lebanon", "Iraq", "Yemen",
				"Libya", "Afghanistan", "Pakistan", "Sudan", "Qatar",
				"North Korea", "Algeria", "Malaysia", "Kuwait", "Tunisia",
			},
			OriginWeights: []float64{
				0.432, 0.08, 0.07, 0.05, 0.05, 0.04, 0.03,
				0.02, 0.02, 0.02, 0.02, 0.02, 0.02,
				0.015, 0.015, 0.015, 0.01, 0.01, 0.01, 0.01,
				0.004, 0.004, 0.004, 0.003, 0.003,
				0.003, 0.003, 0.003, 0.003, 0.003,
				0.002, 0.002, 0.002, 0.002, 0.002,
			},
			TravelCountries: []string{
				"Turkey", "Greece", "Cyprus", "Italy", "USA", "UK", "France", "Germany",
				"UAE", "Thailand", "Spain", "Netherlands", "India",
				"China", "Japan", "Georgia", "Austria", "Switzerland",
				"Romania", "Ukraine", "South Korea", "Belgium", "Czech Republic",
			},
			TravelWeights: []float64{
				0.12, 0.11, 0.1, 0.08, 0.1, 0.07, 0.06, 0.06,
				0.05, 0.04, 0.04, 0.03, 0.02,
				0.02, 0.02, 0.02, 0.01, 0.01,
				0.01, 0.01, 0.01, 0.005, 0.005,
			},
			HostileCountries: map[int][]string{
				3: {"Iran", "Syria", "Lebanon", "Iraq", "Yemen"},
				2: {"Libya", "Afghanistan", "Pakistan", "Sudan", "Qatar", "Russia", "North Korea"},
				1: {"Algeria", "Malaysia", "Kuwait", "Tunisia"},
			},
		},
		Org: OrgConfig{
			DepartmentPositions: map[string][]string{
				"Executive Management": {
					"Chief Executive Officer (CEO)", "Chief Legal Officer",
					"Chief Human Resources Officer (CHRO)", "Chief Information Officer (CIO)",
					"Chief Technology Officer (CTO)", "Chief Operating Officer (COO)",
					"Chief Financial Officer (CFO)",
					"Chief Marketing and Business Development Officer", "Secretary",
				},
				"R&D Department": {
					"Head of R&D", "Systems Engineer",
					"Development Engineer (Hardware / Software / Mechanical)",
					"Algorithm Engineer", "Integration and Testing Engineer", "Secretary",
				},
				"Engineering Department": {
					"Process Engineer", "Design Engineer", "Head of Engineering",
					"Systems Engineer", "Test Engineer", "Secretary",
				},
				"Operations and Manufacturing": {
					"Operations Manager", "Manufacturing Engineer", "Logistics Manager",
					"Procurement Officer", "Warehouse Manager", "Secretary",
				},
				"Project Management": {
					"Project Manager", "Project Engineer", "Project Coordinator", "Secretary",
				},
				"Security and Information Security": {
					"Physical Access Control", "Information Security Investigator",
					"Cyber Analyst", "Chief Information Security Officer (CISO)", "Security Officer",
				},
				"Human Resources": {
					"HR Manager", "Recruitment Coordinator", "Employee Welfare Coordinator",
					"Training Coordinator", "Secretary",
				},
				"Legal and Regulation": {
					"Regulatory Affairs Officer", "Defense Export Compliance Officer", "Legal Advisor",
				},
				"Finance": {
					"Accountant", "Financial Analyst", "Budget Manager", "Finance Manager", "Secretary",
				},
				"Marketing and Business Development": {
					"Business Development Manager", "Account Manager", "Bid Coordinator",
					"Marketing Manager", "Secretary",
				},
				"Information Technology": {
					"IT Director", "Information Security Specialist",
					"Systems and Network Administrator", "BI Developer / Data Analyst",
					"Enterprise Systems Developer (ERP / CRM / SAP)", "Data Scientist", "Secretary",
				},
			},
			BehavioralGroups: map[string]string{
				"Executive Management":               "A",
				"Marketing and Business Development": "D",
				"R&D Department":                     "B",
				"Engineering Department":             "B",
				"Information Technology":             "F",
				"Security and Information Security":  "E",
				"Human Resources":                    "C",
				"Finance":                            "C",
				"Legal and Regulation":               "C",
				"Operations and Manufacturing":       "C",
				"Project Management":                 "C",
			},
			DepartmentWeights: map[string]float64{
				"R&D Department":                     0.25,
				"Engineering Department":             0.20,
				"Information Technology":             0.12,
				"Operations and Manufacturing":       0.15,
				"Marketing and Business Development": 0.08,
				"Project Management":                 0.08,
				"Finance":                            0.04,
				"Human Resources":                    0.03,
				"Security and Information Security":  0.03,
				"Legal and Regulation":               0.015,
				"Executive Management":               0.005,
			},
			Classification: map[string]LevelWeights{
				"Executive Management":              {Levels: []int{3, 4}, Weights: []float64{0.3, 0.7}},
				"Security and Information Security": {Levels: []int{2, 3, 4}, Weights: []float64{0.2, 0.5, 0.3}},
				"Legal and Regulation":              {Levels: []int{2, 3, 4}, Weights: []float64{0.2, 0.5, 0.3}},
				"R&D Department":                    {Levels: []int{2, 3}, Weights: []float64{0.6, 0.4}},
				"Engineering Department":            {Levels: []int{2, 3}, Weights: []float64{0.6, 0.4}},
				"default":                           {Levels: []int{1, 2, 3}, Weights: []float64{0.5, 0.4, 0.1}},
			},
			Seniority: map[string][2]int{
				"executive": {8, 30},
				"manager":   {5, 20},
				"secretary": {1, 15},
				"default":   {0, 25},
			},
			Attributes: map[string]float64{
				"contractor":          0.15,
				"foreign_citizenship": 0.15,
				"criminal_record":     0.05,
				"medical_history":     0.15,
			},
		},
		Labels: LabelConfig{
			StrictPercentile:  0.95,
			SoftPercentile:    0.75,
			FalsePositiveRate: 0.05,
			Seed:              0, // 0 = follow simulation seed
			Weights: ScoreWeights{
				OffHours:           0.40,
				BurnVolume:         0.25,
				BurnClassification: 0.15,
				TravelRisk:         0.20,
			},
		},
		Noise: NoiseConfig{
			Enabled:       false,
			BurnRate:      0.05,
			PrintRate:     0.05,
			EntryTimeRate: 0.10,
			UseGaussian:   false,
			Seed:          0,
			Workers:       4,
		},
		Output: OutputConfig{
			Dir:            "./output",
			FilenamePrefix: "insider_threat_advanced",
		},
		Storage: StorageConfig{
			Enabled: false,
			ClickHouse: ClickHouseConfig{
				Hosts:           []string{"localhost:9000"},
				Database:        "threatsim",
				Username:        "default",
				Password:        "",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: time.Hour,
				TLSEnabled:      false,
				DialTimeout:     10 * time.Second,
			},
			BatchWriter: BatchWriterConfig{
				BatchSize:     1000,
				FlushInterval: 5 * time.Second,
				MaxRetries:    3,
				RetryDelay:    time.Second,
			},
		},
		Kafka: KafkaConfig{
			Enabled:      false,
			Brokers:      []string{"localhost:9092"},
			Topic:        "threatsim.daily-activity",
			BatchSize:    500,
			BatchTimeout: time.Second,
			MaxRetries:   3,
			WriteTimeout: 10 * time.Second,
		},
		S3: S3Config{
			Enabled: false,
			Bucket:  "threatsim-datasets",
			Region:  "us-east-1",
			Prefix:  "runs",
		},
		Redis: RedisConfig{
			Enabled: false,
			Address: "localhost:6379",
			TTL:     7 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
