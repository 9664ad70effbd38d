// Package noise perturbs a subset of the generated activity rows after
// labeling, so downstream models cannot rely on perfectly clean columns.
// Every touched row records what changed in its modification journal.
package noise

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"threatsim/internal/config"
	"threatsim/internal/rng"
	"threatsim/internal/schema"
)

// Injector applies seeded random perturbations to burn, print, and entry-time
// fields. Each row draws from its own substream, so results are identical
// regardless of the worker count.
type Injector struct {
	cfg      config.NoiseConfig
	profiles map[string]*schema.EmployeeProfile
	logger   *slog.Logger
}

// NewInjector creates a noise injector. Profiles are needed to keep the
// clearance bound intact when classification fields are perturbed.
func NewInjector(cfg config.NoiseConfig, profiles map[string]*schema.EmployeeProfile, logger *slog.Logger) *Injector {
	return &Injector{cfg: cfg, profiles: profiles, logger: logger.With("component", "noise")}
}

// Inject perturbs records in place and returns the number of modified rows.
// Rows not selected by any rate draw are left byte-identical.
func (inj *Injector) Inject(records []*schema.DailyRecord, seed int64) int {
	workers := inj.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	var modified atomic.Int64
	var wg sync.WaitGroup
	chunk := (len(records) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(records))
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(rows []*schema.DailyRecord) {
			defer wg.Done()
			for _, rec := range rows {
				if inj.perturbRow(rec, seed) {
					modified.Add(1)
				}
			}
		}(records[lo:hi])
	}
	wg.Wait()

	n := int(modified.Load())
	inj.logger.Info("noise injected", "rows_modified", n, "rows_total", len(records))
	return n
}

func (inj *Injector) perturbRow(rec *schema.DailyRecord, seed int64) bool {
	r := rng.NewStream(seed, "noise", rec.EmployeeID, rec.Date.Format("2006-01-02"))

	var journal []string
	if r.Bernoulli(inj.cfg.BurnRate) {
		journal = append(journal, inj.perturbBurn(r, rec)...)
	}
	if r.Bernoulli(inj.cfg.PrintRate) && rec.Print.NumPrintCommands > 0 {
		journal = append(journal, inj.perturbPrint(r, rec)...)
	}
	if r.Bernoulli(inj.cfg.EntryTimeRate) && rec.Access.FirstEntryTime != "" {
		journal = append(journal, inj.perturbEntryTime(r, rec)...)
	}

	if len(journal) == 0 {
		return false
	}
	rec.RowModified = true
	rec.ModificationDetails = strings.Join(journal, "; ")
	return true
}

func (inj *Injector) perturbBurn(r *rng.Rand, rec *schema.DailyRecord) []string {
	b := &rec.Burn
	var journal []string

	delta := r.IntBetween(-2, 2)
	if inj.cfg.UseGaussian {
		delta = int(r.Normal(0, 1.5))
	}
	// Zero-burn days stay zero: a request count without volume or files is a
	// combination the generator never emits.
	if delta != 0 && b.NumBurnRequests > 0 {
		b.NumBurnRequests = max(b.NumBurnRequests+delta, 1)
		if b.NumBurnRequestsOffHours > b.NumBurnRequests {
			b.NumBurnRequestsOffHours = b.NumBurnRequests
		}
		journal = append(journal, fmt.Sprintf("num_burn_requests %+d", delta))
	}

	if b.TotalBurnVolumeMB > 0 {
		mult := r.Uniform(0.8, 1.2)
		if inj.cfg.UseGaussian {
			mult = r.Normal(1.0, 0.1)
		}
		vol := max(int(float64(b.TotalBurnVolumeMB)*mult), 0)
		if vol != b.TotalBurnVolumeMB {
			journal = append(journal, fmt.Sprintf("total_burn_volume_mb %d -> %d", b.TotalBurnVolumeMB, vol))
			b.TotalBurnVolumeMB = vol
		}
	}

	if fdelta := r.IntBetween(-5, 5); fdelta != 0 && b.TotalFilesBurned > 0 {
		b.TotalFilesBurned = max(b.TotalFilesBurned+fdelta, 0)
		journal = append(journal, fmt.Sprintf("total_files_burned %+d", fdelta))
	}

	if b.NumBurnRequests > 0 && b.MaxRequestClassification > 0 {
		shift := r.Uniform(-0.4, 0.4)
		avg := clampF(b.AvgRequestClassification+shift, 0, float64(b.MaxRequestClassification))
		if avg != b.AvgRequestClassification {
			journal = append(journal, fmt.Sprintf("avg_request_classification %.2f -> %.2f", b.AvgRequestClassification, avg))
			b.AvgRequestClassification = avg
		}

		if r.Bernoulli(0.05) && b.MaxRequestClassification < inj.maxClassFor(rec.EmployeeID) {
			b.MaxRequestClassification++
			journal = append(journal, "max_request_classification +1")
		}
	}

	return journal
}

// maxClassFor bounds noisy classification bumps: benign employees stay at or
// below their own clearance even under noise.
func (inj *Injector) maxClassFor(employeeID string) int {
	p := inj.profiles[employeeID]
	if p == nil || p.IsMalicious {
		return 4
	}
	return p.ClassificationLevel
}

func (inj *Injector) perturbPrint(r *rng.Rand, rec *schema.DailyRecord) []string {
	p := &rec.Print
	var journal []string

	delta := r.IntBetween(-1, 1)
	if inj.cfg.UseGaussian {
		delta = int(r.Normal(0, 1))
	}
	if delta != 0 {
		p.NumPrintCommands = max(p.NumPrintCommands+delta, 1)
		journal = append(journal, fmt.Sprintf("num_print_commands %+d", delta))
	}

	mult := r.Uniform(0.8, 1.2)
	if inj.cfg.UseGaussian {
		mult = r.Normal(1.0, 0.1)
	}
	pages := max(int(float64(p.TotalPrintedPages)*mult), 1)
	if pages != p.TotalPrintedPages {
		journal = append(journal, fmt.Sprintf("total_printed_pages %d -> %d", p.TotalPrintedPages, pages))
		p.TotalPrintedPages = pages
		p.NumColorPrints = int(float64(pages) * p.RatioColorPrints)
		p.NumBWPrints = pages - p.NumColorPrints
	}

	if p.NumPrintCommandsOffHours > p.NumPrintCommands {
		p.NumPrintCommandsOffHours = p.NumPrintCommands
	}
	if p.NumPrintedPagesOffHours > p.TotalPrintedPages {
		p.NumPrintedPagesOffHours = p.TotalPrintedPages
	}

	return journal
}

func (inj *Injector) perturbEntryTime(r *rng.Rand, rec *schema.DailyRecord) []string {
	a := &rec.Access

	entry, err := schema.ParseClock(a.FirstEntryTime)
	if err != nil {
		return nil
	}
	exit, err := schema.ParseClock(a.LastExitTime)
	if err != nil {
		return nil
	}

	shift := r.IntBetween(-30, 30)
	if inj.cfg.UseGaussian {
		shift = int(r.Normal(0, 15))
	}
	if shift == 0 {
		return nil
	}

	moved := entry + shift
	if moved < 0 {
		moved = 0
	}
	if moved >= exit {
		moved = exit - 1
	}
	if moved == entry {
		return nil
	}

	old := a.FirstEntryTime
	a.FirstEntryTime = schema.FormatClock(moved)
	a.TotalPresenceMinutes = exit - moved
	a.EnteredDuringNightHours = schema.IsNightHour(moved / 60)
	a.EarlyEntryFlag = moved/60 < schema.EarlyEntryHour

	return []string{fmt.Sprintf("first_entry_time %s -> %s", old, a.FirstEntryTime)}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
