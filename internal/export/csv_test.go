package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"threatsim/internal/schema"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteActivity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "activity.csv")

	profiles := map[string]*schema.EmployeeProfile{
		"EMP-001": {
			EmployeeID:          "EMP-001",
			Department:          "Finance",
			Position:            "Accountant",
			Campus:              "Campus A",
			BehavioralGroup:     "C",
			SeniorityYears:      7,
			ClassificationLevel: 2,
			OriginCountry:       "Israel",
		},
	}

	rec := &schema.DailyRecord{
		EmployeeID: "EMP-001",
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	rec.Access.NumEntries = 1
	rec.Access.NumExits = 1
	rec.Access.FirstEntryTime = "08:15"
	rec.Access.LastExitTime = "17:30"
	rec.Access.TotalPresenceMinutes = 555
	rec.Print.NumPrintCommands = 3
	rec.Print.TotalPrintedPages = 12
	rec.Print.NumColorPrints = 4
	rec.Print.NumBWPrints = 8
	rec.Print.RatioColorPrints = 0.3333
	rec.Burn.NumBurnRequests = 1
	rec.Burn.MaxRequestClassification = 2
	rec.Burn.AvgRequestClassification = 2
	rec.Burn.TotalBurnVolumeMB = 45
	rec.Travel.IsAbroad = true
	rec.Travel.TripDayNumber = 2
	rec.Travel.CountryName = "Greece"
	rec.RowModified = true
	rec.ModificationDetails = "num_burn_requests +1"

	if err := WriteActivity(path, []*schema.DailyRecord{rec}, profiles); err != nil {
		t.Fatalf("WriteActivity: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	if len(rows[0]) != len(activityHeader) {
		t.Fatalf("header has %d fields, want %d", len(rows[0]), len(activityHeader))
	}

	row := rows[1]
	field := func(name string) string {
		t.Helper()
		for i, h := range rows[0] {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("no column %q", name)
		return ""
	}

	checks := map[string]string{
		"employee_id":            "EMP-001",
		"date":                   "2025-03-10",
		"department":             "Finance",
		"seniority_years":        "7",
		"first_entry_time":       "08:15",
		"total_presence_minutes": "555",
		"num_print_commands":     "3",
		"ratio_color_prints":     "0.3333",
		"total_burn_volume_mb":   "45",
		"is_abroad":              "1",
		"trip_day_number":        "2",
		"country_name":           "Greece",
		"is_malicious":           "0",
		"row_modified":           "1",
		"modification_details":   "num_burn_requests +1",
	}
	for name, want := range checks {
		if got := field(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestWriteActivityMissingProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.csv")
	rec := &schema.DailyRecord{EmployeeID: "GHOST", Date: time.Now()}

	if err := WriteActivity(path, []*schema.DailyRecord{rec}, nil); err == nil {
		t.Error("expected error for record without profile")
	}
}

func TestWriteModificationLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mods.csv")
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	clean := &schema.DailyRecord{EmployeeID: "EMP-001", Date: date}
	dirty := &schema.DailyRecord{
		EmployeeID:          "EMP-002",
		Date:                date,
		RowModified:         true,
		ModificationDetails: "num_burn_requests +1; total_printed_pages 20 -> 23",
	}

	if err := WriteModificationLog(path, []*schema.DailyRecord{clean, dirty}); err != nil {
		t.Fatalf("WriteModificationLog: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 modified", len(rows))
	}
	if rows[1][0] != "EMP-002" || rows[1][2] != dirty.ModificationDetails {
		t.Errorf("unexpected row: %v", rows[1])
	}
}

func TestWriteLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")

	labels := []*schema.DailyLabel{
		{
			EmployeeID:    "EMP-001",
			Date:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			DaySuspicious: true,
			Tier:          schema.TierStrict,
			Score:         0.8125,
		},
		{
			EmployeeID: "EMP-002",
			Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Tier:       schema.TierNone,
		},
	}

	if err := WriteLabels(path, labels); err != nil {
		t.Fatalf("WriteLabels: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if len(rows[0]) != len(labelHeader) {
		t.Fatalf("header has %d fields, want %d", len(rows[0]), len(labelHeader))
	}

	first := rows[1]
	if first[0] != "EMP-001" || first[2] != "1" || first[3] != string(schema.TierStrict) {
		t.Errorf("unexpected strict row: %v", first)
	}
	if first[5] != "0.8125" {
		t.Errorf("score field = %q", first[5])
	}
	second := rows[2]
	if second[2] != "0" || second[3] != string(schema.TierNone) {
		t.Errorf("unexpected benign row: %v", second)
	}
}
