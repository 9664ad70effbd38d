package simulate

import (
	"testing"

	"threatsim/internal/config"
	"threatsim/internal/rng"
)

func TestPrintInvariants(t *testing.T) {
	cfg := config.DefaultConfig()
	gen := NewPrintGenerator(cfg)

	for _, tc := range []struct {
		name string
		mal  bool
	}{
		{"benign", false},
		{"malicious", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			emp := benignProfile("B")
			if tc.mal {
				emp = maliciousProfile("B")
			}
			r := rng.NewStream(51, "print-invariants", tc.name)

			for i := 0; i < 10000; i++ {
				p := gen.Generate(r, emp, false)
				if p.NumPrintCommands == 0 {
					if p.TotalPrintedPages != 0 || p.NumColorPrints != 0 {
						t.Fatal("pages without commands")
					}
					continue
				}
				if p.TotalPrintedPages < 1 {
					t.Fatal("print day with zero pages")
				}
				if p.NumColorPrints+p.NumBWPrints != p.TotalPrintedPages {
					t.Fatalf("color split broken: %d + %d != %d",
						p.NumColorPrints, p.NumBWPrints, p.TotalPrintedPages)
				}
				if p.RatioColorPrints < 0 || p.RatioColorPrints > 1 {
					t.Fatalf("color ratio %v out of range", p.RatioColorPrints)
				}
				if p.NumPrintCommandsOffHours > p.NumPrintCommands {
					t.Fatal("off-hours commands above total")
				}
				if p.NumPrintedPagesOffHours > p.TotalPrintedPages {
					t.Fatal("off-hours pages above total")
				}
				if p.PrintedFromOtherCampus != (p.PrintCampuses > 1) {
					t.Fatal("cross-campus flag inconsistent with campus count")
				}
			}
		})
	}
}

func TestPrintMaliciousVolumeBias(t *testing.T) {
	cfg := config.DefaultConfig()
	gen := NewPrintGenerator(cfg)

	avgPages := func(mal bool, label string) float64 {
		emp := benignProfile("B")
		if mal {
			emp = maliciousProfile("B")
		}
		r := rng.NewStream(52, "print-volume", label)
		total, days := 0, 0
		for i := 0; i < 20000; i++ {
			p := gen.Generate(r, emp, false)
			if p.NumPrintCommands > 0 {
				total += p.TotalPrintedPages
				days++
			}
		}
		if days == 0 {
			t.Fatal("no print days")
		}
		return float64(total) / float64(days)
	}

	benign := avgPages(false, "benign")
	malicious := avgPages(true, "malicious")
	if malicious < benign*2.5 {
		t.Errorf("malicious avg pages %.1f not well above benign %.1f", malicious, benign)
	}
}

func TestPrintMaliciousOffHoursBias(t *testing.T) {
	cfg := config.DefaultConfig()
	gen := NewPrintGenerator(cfg)

	offRate := func(mal bool, label string) float64 {
		emp := benignProfile("B")
		if mal {
			emp = maliciousProfile("B")
		}
		r := rng.NewStream(53, "print-offhours", label)
		off, days := 0, 0
		for i := 0; i < 20000; i++ {
			p := gen.Generate(r, emp, false)
			if p.NumPrintCommands > 0 {
				days++
				if p.NumPrintCommandsOffHours > 0 {
					off++
				}
			}
		}
		return float64(off) / float64(days)
	}

	benign := offRate(false, "benign")
	malicious := offRate(true, "malicious")
	if malicious <= benign {
		t.Errorf("malicious off-hours rate %.3f not above benign %.3f", malicious, benign)
	}
}

func TestPrintAbroadSuppression(t *testing.T) {
	cfg := config.DefaultConfig()
	gen := NewPrintGenerator(cfg)

	activeRate := func(mal bool, label string) float64 {
		emp := benignProfile("B")
		if mal {
			emp = maliciousProfile("B")
		}
		r := rng.NewStream(54, "print-abroad", label)
		active := 0
		const n = 20000
		for i := 0; i < n; i++ {
			if gen.Generate(r, emp, true).NumPrintCommands > 0 {
				active++
			}
		}
		return float64(active) / float64(n)
	}

	if rate := activeRate(false, "benign"); rate > 0.03 {
		t.Errorf("benign abroad print rate = %.4f, want near zero", rate)
	}
	benign := activeRate(false, "benign2")
	malicious := activeRate(true, "malicious")
	if malicious <= benign {
		t.Errorf("malicious abroad print rate %.4f not above benign %.4f", malicious, benign)
	}
}
