// Package config handles configuration loading for the insider-threat
// activity simulator.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrUnknownGroup is returned when a behavioral group code has no pattern entry.
var ErrUnknownGroup = errors.New("unknown behavioral group")

// Config holds the complete application configuration.
type Config struct {
	Simulation SimulationConfig        `yaml:"simulation"`
	Patterns   map[string]GroupPattern `yaml:"patterns"`
	Malicious  MaliciousBias           `yaml:"malicious"`
	Geography  GeographyConfig         `yaml:"geography"`
	Org        OrgConfig               `yaml:"organization"`
	Labels     LabelConfig             `yaml:"labels"`
	Noise      NoiseConfig             `yaml:"noise"`
	Output     OutputConfig            `yaml:"output"`
	Storage    StorageConfig           `yaml:"storage"`
	Kafka      KafkaConfig             `yaml:"kafka"`
	S3         S3Config                `yaml:"s3"`
	Redis      RedisConfig             `yaml:"redis"`
	Logging    LoggingConfig           `yaml:"logging"`
}

// SimulationConfig holds the population and date-range parameters.
type SimulationConfig struct {
	NumEmployees   int     `yaml:"num_employees" validate:"min=1,max=10000"`
	Days           int     `yaml:"days" validate:"min=1,max=1000"`
	MaliciousRatio float64 `yaml:"malicious_ratio" validate:"min=0,max=1"`
	StartDate      string  `yaml:"start_date"` // "2006-01-02"; empty = today-Days
	Seed           int64   `yaml:"seed"`
	Workers        int     `yaml:"workers" validate:"min=1"`
	MinTripDays    int     `yaml:"min_trip_days" validate:"min=1"`
	MaxTripDays    int     `yaml:"max_trip_days" validate:"min=1"`
	AbsenceRate    float64 `yaml:"absence_rate" validate:"min=0,max=1"`
}

// WorkHoursPattern is the normal distribution of a group's working day, in
// fractional hours from midnight.
type WorkHoursPattern struct {
	StartMean float64 `yaml:"start_mean" validate:"min=0,max=24"`
	StartStd  float64 `yaml:"start_std" validate:"min=0"`
	EndMean   float64 `yaml:"end_mean" validate:"min=0,max=24"`
	EndStd    float64 `yaml:"end_std" validate:"min=0"`
}

// PrintVolumePattern holds per-group print rate parameters.
type PrintVolumePattern struct {
	CommandsMean float64 `yaml:"commands_mean" validate:"min=0"`
	PagesMean    float64 `yaml:"pages_mean" validate:"min=0"`
	ColorRatio   float64 `yaml:"color_ratio" validate:"min=0,max=1"`
}

// BurnPattern holds per-group document-destruction rate parameters.
// VolumeMeanLog is the mean of the underlying normal of the lognormal
// volume distribution (MB).
type BurnPattern struct {
	RequestsMean       float64 `yaml:"requests_mean" validate:"min=0"`
	VolumeMeanLog      float64 `yaml:"volume_mean_log" validate:"min=0"`
	FilesMean          float64 `yaml:"files_mean" validate:"min=0"`
	HighClassification bool    `yaml:"high_classification"`
}

// GroupPattern is the complete behavioral parameter record for one of the six
// employee groups.
type GroupPattern struct {
	Name             string             `yaml:"name"`
	WorkHours        WorkHoursPattern   `yaml:"work_hours"`
	PrintLikelihood  float64            `yaml:"print_likelihood" validate:"min=0,max=1"`
	PrintVolume      PrintVolumePattern `yaml:"print_volume"`
	BurnLikelihood   float64            `yaml:"burn_likelihood" validate:"min=0,max=1"`
	Burn             BurnPattern        `yaml:"burn_params"`
	TravelLikelihood float64            `yaml:"travel_likelihood" validate:"min=0,max=1"`
	OffHoursTendency float64            `yaml:"off_hours_tendency" validate:"min=0,max=1"`
	WeekendWork      float64            `yaml:"weekend_work" validate:"min=0,max=1"`
}

// MaliciousBias is the explicit malicious-delta override set applied on top of
// the group patterns. Keeping these as data rather than branch constants
// scattered through the generators keeps the actor-type conditioning testable.
type MaliciousBias struct {
	TravelMultiplier       float64   `yaml:"travel_multiplier" validate:"min=1"`
	BurnLikelihoodMult     float64   `yaml:"burn_likelihood_multiplier" validate:"min=1"`
	PrintPageMultiplier    float64   `yaml:"print_page_multiplier" validate:"min=1"`
	OffHoursTendencyMult   float64   `yaml:"off_hours_tendency_multiplier" validate:"min=1"`
	OffHoursTendencyCap    float64   `yaml:"off_hours_tendency_cap" validate:"min=0,max=1"`
	NightHoursProb         float64   `yaml:"night_hours_prob" validate:"min=0,max=1"`
	BenignNightHoursProb   float64   `yaml:"benign_night_hours_prob" validate:"min=0,max=1"`
	WeekendWorkProb        float64   `yaml:"weekend_work_prob" validate:"min=0,max=1"`
	BenignWeekendWorkProb  float64   `yaml:"benign_weekend_work_prob" validate:"min=0,max=1"`
	CrossCampusProb        float64   `yaml:"cross_campus_prob" validate:"min=0,max=1"`
	BenignCrossCampusProb  float64   `yaml:"benign_cross_campus_prob" validate:"min=0,max=1"`
	AbroadAccessProb       float64   `yaml:"abroad_access_prob" validate:"min=0,max=1"`
	BenignAbroadAccessProb float64   `yaml:"benign_abroad_access_prob" validate:"min=0,max=1"`
	OverClearanceWeights   []float64 `yaml:"over_clearance_weights" validate:"len=3"`
	// Hostile-destination probabilities per tier, ordered tier 3, 2, 1.
	HostileDestProbs       []float64 `yaml:"hostile_destination_probs" validate:"len=3"`
	BenignHostileDestProbs []float64 `yaml:"benign_hostile_destination_probs" validate:"len=3"`
}

// GeographyConfig holds campuses, country tables, and hostility tiers.
type GeographyConfig struct {
	Campuses         []string         `yaml:"campuses" validate:"min=1"`
	OriginCountries  []string         `yaml:"origin_countries" validate:"min=1"`
	OriginWeights    []float64        `yaml:"origin_weights"`
	TravelCountries  []string         `yaml:"travel_countries" validate:"min=1"`
	TravelWeights    []float64        `yaml:"travel_weights"`
	HostileCountries map[int][]string `yaml:"hostile_countries"`

	hostilityOnce      sync.Once
	hostilityByCountry map[string]int
}

// HostilityLevel returns the hostility tier (0-3) for a country. The lookup
// map is built once; concurrent callers share it.
func (g *GeographyConfig) HostilityLevel(country string) int {
	g.hostilityOnce.Do(func() {
		m := make(map[string]int)
		for level, countries := range g.HostileCountries {
			for _, c := range countries {
				m[c] = level
			}
		}
		g.hostilityByCountry = m
	})
	return g.hostilityByCountry[country]
}

// OrgConfig holds the organizational structure tables used for profile
// sampling.
type OrgConfig struct {
	DepartmentPositions map[string][]string     `yaml:"department_positions" validate:"min=1"`
	BehavioralGroups    map[string]string       `yaml:"behavioral_groups" validate:"min=1"`
	DepartmentWeights   map[string]float64      `yaml:"department_weights" validate:"min=1"`
	Classification      map[string]LevelWeights `yaml:"classification" validate:"min=1"`
	Seniority           map[string][2]int       `yaml:"seniority" validate:"min=1"`
	Attributes          map[string]float64      `yaml:"attributes"`
}

// LevelWeights pairs classification levels with their sampling weights.
type LevelWeights struct {
	Levels  []int     `yaml:"levels" validate:"min=1"`
	Weights []float64 `yaml:"weights" validate:"min=1"`
}

// ScoreWeights are the composite suspicion-score weights.
type ScoreWeights struct {
	OffHours           float64 `yaml:"off_hours" validate:"min=0"`
	BurnVolume         float64 `yaml:"burn_volume" validate:"min=0"`
	BurnClassification float64 `yaml:"burn_classification" validate:"min=0"`
	TravelRisk         float64 `yaml:"travel_risk" validate:"min=0"`
}

// LabelConfig holds daily-label creation settings.
type LabelConfig struct {
	StrictPercentile  float64      `yaml:"strict_percentile" validate:"gt=0,lte=1"`
	SoftPercentile    float64      `yaml:"soft_percentile" validate:"gt=0,lte=1"`
	FalsePositiveRate float64      `yaml:"false_positive_rate" validate:"min=0,max=1"`
	Seed              int64        `yaml:"seed"`
	Weights           ScoreWeights `yaml:"weights"`
}

// NoiseConfig holds post-label noise-injection settings.
type NoiseConfig struct {
	Enabled       bool    `yaml:"enabled"`
	BurnRate      float64 `yaml:"burn_rate" validate:"min=0,max=1"`
	PrintRate     float64 `yaml:"print_rate" validate:"min=0,max=1"`
	EntryTimeRate float64 `yaml:"entry_time_rate" validate:"min=0,max=1"`
	UseGaussian   bool    `yaml:"use_gaussian"`
	Seed          int64   `yaml:"seed"`
	Workers       int     `yaml:"workers" validate:"min=1"`
}

// OutputConfig holds flat-file export settings.
type OutputConfig struct {
	Dir            string `yaml:"dir"`
	FilenamePrefix string `yaml:"filename_prefix"`
}

// StorageConfig holds the optional ClickHouse sink settings.
type StorageConfig struct {
	Enabled     bool              `yaml:"enabled"`
	ClickHouse  ClickHouseConfig  `yaml:"clickhouse"`
	BatchWriter BatchWriterConfig `yaml:"batch_writer"`
}

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Hosts           []string      `yaml:"hosts"`
	Database        string        `yaml:"database"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	TLSEnabled      bool          `yaml:"tls_enabled"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
}

// BatchWriterConfig holds batch writer settings.
type BatchWriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
}

// KafkaConfig holds the optional record-streaming sink settings.
type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	BatchSize    int           `yaml:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// S3Config holds the optional artifact-upload sink settings.
type S3Config struct {
	Enabled   bool   `yaml:"enabled"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"` // non-AWS endpoints (minio etc.)
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// RedisConfig holds the optional run-summary publisher settings.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PatternFor returns the behavioral pattern for a group code.
func (c *Config) PatternFor(group string) (GroupPattern, error) {
	p, ok := c.Patterns[group]
	if !ok {
		return GroupPattern{}, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	return p, nil
}

// StartTime resolves the configured start date, defaulting to Days before
// today at midnight UTC.
func (c *Config) StartTime() (time.Time, error) {
	if c.Simulation.StartDate == "" {
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return today.AddDate(0, 0, -c.Simulation.Days), nil
	}
	t, err := time.Parse("2006-01-02", c.Simulation.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	return t, nil
}

// Load loads configuration from a file or returns defaults. An empty path
// falls back to SIM_CONFIG_PATH and then to configs/config.yaml; a missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("SIM_CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SIM_EMPLOYEES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Simulation.NumEmployees = n
		}
	}
	if v := os.Getenv("SIM_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Simulation.Days = n
		}
	}
	if v := os.Getenv("SIM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Simulation.Seed = n
		}
	}
	if v := os.Getenv("SIM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SIM_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if os.Getenv("SIM_STORAGE_ENABLED") == "true" {
		c.Storage.Enabled = true
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.Storage.ClickHouse.Hosts = []string{v}
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.Storage.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = []string{v}
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Address = v
		c.Redis.Enabled = true
	}
}

// Validate validates the configuration. Malformed or missing behavioral-group
// parameters are fatal; there is no partial fallback.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	for _, code := range []string{"A", "B", "C", "D", "E", "F"} {
		if _, ok := c.Patterns[code]; !ok {
			return fmt.Errorf("%w: missing pattern for group %q", ErrUnknownGroup, code)
		}
	}

	for dept, group := range c.Org.BehavioralGroups {
		if _, ok := c.Patterns[group]; !ok {
			return fmt.Errorf("%w: department %q maps to group %q", ErrUnknownGroup, dept, group)
		}
	}

	if c.Simulation.MaxTripDays < c.Simulation.MinTripDays {
		return fmt.Errorf("max_trip_days %d < min_trip_days %d",
			c.Simulation.MaxTripDays, c.Simulation.MinTripDays)
	}

	if c.Labels.SoftPercentile >= c.Labels.StrictPercentile {
		return fmt.Errorf("soft_percentile %.2f must be below strict_percentile %.2f",
			c.Labels.SoftPercentile, c.Labels.StrictPercentile)
	}

	if err := checkWeights(len(c.Geography.OriginCountries), c.Geography.OriginWeights, "origin"); err != nil {
		return err
	}
	if err := checkWeights(len(c.Geography.TravelCountries), c.Geography.TravelWeights, "travel"); err != nil {
		return err
	}

	return nil
}

func checkWeights(n int, weights []float64, what string) error {
	if n != len(weights) {
		return fmt.Errorf("%s countries and weights length mismatch: %d vs %d", what, n, len(weights))
	}
	var sum float64
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s weight must be non-negative", what)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 0.02 {
		return fmt.Errorf("%s weights sum to %.3f, expected 1.0", what, sum)
	}
	return nil
}
