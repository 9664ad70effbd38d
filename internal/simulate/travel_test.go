package simulate

import (
	"errors"
	"testing"

	"threatsim/internal/config"
	"threatsim/internal/rng"
	"threatsim/internal/schema"
)

func TestTravelTripContiguity(t *testing.T) {
	cfg := config.DefaultConfig()
	gen := NewTravelGenerator(cfg)
	r := rng.NewStream(31, "travel-contiguity")

	emp := maliciousProfile("A") // highest travel likelihood after bias
	var st TripState

	var prev schema.TravelActivity
	trips := 0
	for day := 0; day < 50000; day++ {
		a, err := gen.Generate(r, emp, &st)
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}

		if a.IsAbroad {
			switch {
			case a.TripDayNumber == 1:
				trips++
			case prev.IsAbroad && a.TripDayNumber == prev.TripDayNumber+1:
				if a.CountryName != prev.CountryName {
					t.Fatalf("country changed mid-trip: %s -> %s", prev.CountryName, a.CountryName)
				}
				if a.IsOfficialTrip != prev.IsOfficialTrip {
					t.Fatal("official flag changed mid-trip")
				}
			default:
				t.Fatalf("trip day %d does not follow previous day %d",
					a.TripDayNumber, prev.TripDayNumber)
			}
			if a.TripDayNumber > cfg.Simulation.MaxTripDays {
				t.Fatalf("trip day %d above maximum %d", a.TripDayNumber, cfg.Simulation.MaxTripDays)
			}
			if a.CountryName == "" {
				t.Fatal("abroad day without country")
			}
			if a.IsHostileCountryTrip != (a.HostilityCountryLevel > 0) {
				t.Fatalf("hostile flag inconsistent with level %d", a.HostilityCountryLevel)
			}
		} else if a.TripDayNumber != 0 {
			t.Fatalf("home day with trip day number %d", a.TripDayNumber)
		}

		prev = a
	}

	if trips == 0 {
		t.Fatal("no trips started in 50000 days")
	}
}

func TestTravelStateError(t *testing.T) {
	cfg := config.DefaultConfig()
	gen := NewTravelGenerator(cfg)
	r := rng.NewStream(32, "travel-state")
	emp := benignProfile("A")

	st := TripState{Active: true, Country: "Greece", DayNumber: 3, RemainingDays: 0}
	_, err := gen.Generate(r, emp, &st)
	if err == nil {
		t.Fatal("expected state error for exhausted active trip")
	}
	var serr *StateError
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T, want *StateError", err)
	}
	if serr.EmployeeID != emp.EmployeeID {
		t.Errorf("state error names %q", serr.EmployeeID)
	}
}

func TestTravelMaliciousHostileBias(t *testing.T) {
	cfg := config.DefaultConfig()
	gen := NewTravelGenerator(cfg)

	hostileShare := func(emp *schema.EmployeeProfile, label string) float64 {
		r := rng.NewStream(33, "travel-hostile", label)
		var st TripState
		trips, hostile := 0, 0
		for day := 0; day < 200000 && trips < 1500; day++ {
			a, err := gen.Generate(r, emp, &st)
			if err != nil {
				t.Fatal(err)
			}
			if a.IsAbroad && a.TripDayNumber == 1 {
				trips++
				if a.IsHostileCountryTrip {
					hostile++
				}
			}
		}
		if trips == 0 {
			t.Fatal("no trips observed")
		}
		return float64(hostile) / float64(trips)
	}

	benign := hostileShare(benignProfile("A"), "benign")
	malicious := hostileShare(maliciousProfile("A"), "malicious")

	if malicious < 0.25 {
		t.Errorf("malicious hostile-trip share = %.3f, want ~0.35", malicious)
	}
	if benign > 0.10 {
		t.Errorf("benign hostile-trip share = %.3f, want rare", benign)
	}
}

func TestTravelOriginTripFlag(t *testing.T) {
	cfg := config.DefaultConfig()
	gen := NewTravelGenerator(cfg)
	r := rng.NewStream(34, "travel-origin")

	emp := benignProfile("A")
	emp.OriginCountry = "Greece" // reachable destination

	var st TripState
	sawOrigin := false
	for day := 0; day < 300000 && !sawOrigin; day++ {
		a, err := gen.Generate(r, emp, &st)
		if err != nil {
			t.Fatal(err)
		}
		if a.IsAbroad && a.IsOriginCountryTrip {
			if a.CountryName != "Greece" {
				t.Fatalf("origin trip to %q", a.CountryName)
			}
			sawOrigin = true
		}
	}
	if !sawOrigin {
		t.Error("no origin-country trip observed")
	}
}
