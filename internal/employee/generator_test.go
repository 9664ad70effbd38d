package employee

import (
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"

	"threatsim/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(n int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Simulation.NumEmployees = n
	return cfg
}

func TestGeneratePopulation(t *testing.T) {
	cfg := testConfig(300)
	gen := NewGenerator(cfg, testLogger())

	profiles, err := gen.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(profiles) != 300 {
		t.Fatalf("got %d profiles, want 300", len(profiles))
	}

	seen := make(map[string]bool)
	for _, p := range profiles {
		if seen[p.EmployeeID] {
			t.Fatalf("duplicate employee ID %s", p.EmployeeID)
		}
		seen[p.EmployeeID] = true

		positions, ok := cfg.Org.DepartmentPositions[p.Department]
		if !ok {
			t.Fatalf("%s: unknown department %q", p.EmployeeID, p.Department)
		}
		if !contains(positions, p.Position) {
			t.Errorf("%s: position %q not in department %q", p.EmployeeID, p.Position, p.Department)
		}
		if want := cfg.Org.BehavioralGroups[p.Department]; p.BehavioralGroup != want {
			t.Errorf("%s: group %q, want %q for department %q",
				p.EmployeeID, p.BehavioralGroup, want, p.Department)
		}
		if p.ClassificationLevel < 1 || p.ClassificationLevel > 4 {
			t.Errorf("%s: classification %d out of range", p.EmployeeID, p.ClassificationLevel)
		}
		if p.SeniorityYears < 0 {
			t.Errorf("%s: negative seniority", p.EmployeeID)
		}
		if !contains(cfg.Geography.Campuses, p.Campus) {
			t.Errorf("%s: unknown campus %q", p.EmployeeID, p.Campus)
		}
		if !contains(cfg.Geography.OriginCountries, p.OriginCountry) {
			t.Errorf("%s: unknown origin country %q", p.EmployeeID, p.OriginCountry)
		}
	}
}

func TestGenerateMaliciousCount(t *testing.T) {
	cfg := testConfig(200)
	cfg.Simulation.MaliciousRatio = 0.05

	profiles, err := NewGenerator(cfg, testLogger()).Generate(7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var malicious int
	for _, p := range profiles {
		if p.IsMalicious {
			malicious++
		}
	}
	want := int(math.Round(200 * 0.05))
	if malicious != want {
		t.Errorf("malicious count = %d, want %d", malicious, want)
	}
}

func TestGenerateDeterminism(t *testing.T) {
	cfg := testConfig(100)

	a, err := NewGenerator(cfg, testLogger()).Generate(1234)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewGenerator(cfg, testLogger()).Generate(1234)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different populations")
	}

	c, err := NewGenerator(cfg, testLogger()).Generate(1235)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical populations")
	}
}

func TestClassificationFollowsDepartmentTable(t *testing.T) {
	cfg := testConfig(1000)

	profiles, err := NewGenerator(cfg, testLogger()).Generate(99)
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range profiles {
		lw, ok := cfg.Org.Classification[p.Department]
		if !ok {
			lw = cfg.Org.Classification["default"]
		}
		if !containsInt(lw.Levels, p.ClassificationLevel) {
			t.Errorf("%s (%s): classification %d not in department table %v",
				p.EmployeeID, p.Department, p.ClassificationLevel, lw.Levels)
		}
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
