package simulate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"threatsim/internal/config"
	"threatsim/internal/rng"
	"threatsim/internal/schema"
)

// Orchestrator drives the activity generators across the population and the
// simulated date range. Employees run in parallel; each employee's days run
// sequentially so multi-day trip state stays contiguous.
type Orchestrator struct {
	cfg    *config.Config
	access *AccessGenerator
	print  *PrintGenerator
	burn   *BurnGenerator
	travel *TravelGenerator
	logger *slog.Logger

	// OnProgress, when set, is called after each completed employee.
	OnProgress func(done, total int)
}

// NewOrchestrator creates an orchestrator with all four activity generators.
func NewOrchestrator(cfg *config.Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		access: NewAccessGenerator(cfg),
		print:  NewPrintGenerator(cfg),
		burn:   NewBurnGenerator(cfg),
		travel: NewTravelGenerator(cfg),
		logger: logger.With("component", "orchestrator"),
	}
}

// Run generates the complete activity table: exactly one record per
// (employee, date) pair, in population order. The output is deterministic for
// a given seed regardless of the worker count.
func (o *Orchestrator) Run(ctx context.Context, profiles []*schema.EmployeeProfile, seed int64) ([]*schema.DailyRecord, error) {
	start, err := o.cfg.StartTime()
	if err != nil {
		return nil, err
	}
	// The generators index the pattern table per day; reject unknown groups
	// here instead of letting them draw from a zero-value pattern.
	for _, p := range profiles {
		if _, err := o.cfg.PatternFor(p.BehavioralGroup); err != nil {
			return nil, fmt.Errorf("employee %s: %w", p.EmployeeID, err)
		}
	}
	days := o.cfg.Simulation.Days

	o.logger.Info("simulation started",
		"employees", len(profiles),
		"days", days,
		"start_date", start.Format("2006-01-02"),
		"workers", o.cfg.Simulation.Workers)

	perEmployee := make([][]*schema.DailyRecord, len(profiles))
	jobs := make(chan int)
	errCh := make(chan error, 1)
	var done atomic.Int64

	var wg sync.WaitGroup
	for w := 0; w < o.cfg.Simulation.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				recs, err := o.runEmployee(profiles[idx], start, days, seed)
				if err != nil {
					select {
					case errCh <- err:
					default:
					}
					return
				}
				perEmployee[idx] = recs
				n := done.Add(1)
				if o.OnProgress != nil {
					o.OnProgress(int(n), len(profiles))
				}
			}
		}()
	}

	for idx := range profiles {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case err := <-errCh:
			close(jobs)
			wg.Wait()
			return nil, err
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]*schema.DailyRecord, 0, len(profiles)*days)
	for idx, recs := range perEmployee {
		if len(recs) != days {
			return nil, fmt.Errorf("employee %s: %d records, expected %d",
				profiles[idx].EmployeeID, len(recs), days)
		}
		records = append(records, recs...)
	}

	o.logger.Info("simulation finished", "records", len(records))
	return records, nil
}

// runEmployee generates the employee's full timeline from a dedicated
// substream of the master seed.
func (o *Orchestrator) runEmployee(emp *schema.EmployeeProfile, start time.Time, days int, seed int64) ([]*schema.DailyRecord, error) {
	r := rng.NewStream(seed, "activity", emp.EmployeeID)
	records := make([]*schema.DailyRecord, 0, days)

	var trip TripState
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)

		travel, err := o.travel.Generate(r, emp, &trip)
		if err != nil {
			return nil, err
		}

		rec := &schema.DailyRecord{
			EmployeeID: emp.EmployeeID,
			Date:       date,
			Access:     o.access.Generate(r, emp, date, travel.IsAbroad),
			Print:      o.print.Generate(r, emp, travel.IsAbroad),
			Burn:       o.burn.Generate(r, emp, travel.IsAbroad),
			Travel:     travel,
		}
		rec.RiskTravelIndicator = ComposeRiskIndicator(emp, rec)
		records = append(records, rec)
	}
	return records, nil
}
