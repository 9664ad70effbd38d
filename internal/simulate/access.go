// Package simulate contains the per-activity generators and the orchestrator
// that drives them across the simulated population and date range.
package simulate

import (
	"time"

	"threatsim/internal/config"
	"threatsim/internal/rng"
	"threatsim/internal/schema"
)

// Work-day clamp bounds, in fractional hours.
const (
	minWorkStartHour = 6.0
	maxWorkStartHour = 12.0
	maxWorkEndHour   = 22.0
	minWorkDuration  = 4.0
)

// AccessGenerator produces daily building-access activity.
type AccessGenerator struct {
	cfg *config.Config
}

// NewAccessGenerator creates an access generator.
func NewAccessGenerator(cfg *config.Config) *AccessGenerator {
	return &AccessGenerator{cfg: cfg}
}

// Generate returns one day of access activity for the employee. An all-zero
// activity means no presence: absence, a skipped weekend, or a day abroad
// without the rare abroad-access exception.
func (g *AccessGenerator) Generate(r *rng.Rand, emp *schema.EmployeeProfile, date time.Time, abroad bool) schema.AccessActivity {
	pattern := g.cfg.Patterns[emp.BehavioralGroup]
	bias := g.cfg.Malicious

	if abroad {
		// Badge activity while abroad is an anomaly worth keeping rare.
		p := bias.BenignAbroadAccessProb
		if emp.IsMalicious {
			p = bias.AbroadAccessProb
		}
		if !r.Bernoulli(p) {
			return schema.AccessActivity{}
		}
	}

	if r.Bernoulli(g.cfg.Simulation.AbsenceRate) {
		return schema.AccessActivity{}
	}

	start := r.Normal(pattern.WorkHours.StartMean, pattern.WorkHours.StartStd)
	end := r.Normal(pattern.WorkHours.EndMean, pattern.WorkHours.EndStd)
	start = clamp(start, minWorkStartHour, maxWorkStartHour)
	end = clamp(end, start+minWorkDuration, maxWorkEndHour)

	nightProb := bias.BenignNightHoursProb
	if emp.IsMalicious {
		nightProb = bias.NightHoursProb
	}
	if r.Bernoulli(nightProb) {
		if r.Bernoulli(0.5) {
			start = r.Uniform(5, 7)
		} else {
			end = r.Uniform(20, 23)
		}
	}

	if schema.IsWeekend(date) && !g.worksWeekend(r, emp, pattern) {
		return schema.AccessActivity{}
	}

	entries := 1
	if emp.IsMalicious && r.Bernoulli(0.2) {
		entries = []int{2, 3, 4}[r.WeightedIndex([]float64{0.5, 0.3, 0.2})]
	} else if r.Bernoulli(0.2) {
		entries = 2
	}

	campuses := 1
	if emp.IsMalicious && r.Bernoulli(bias.CrossCampusProb) {
		campuses = r.IntBetween(2, 3)
	} else if !emp.IsMalicious && r.Bernoulli(bias.BenignCrossCampusProb) {
		campuses = 2
	}

	entryMin := int(start * 60)
	exitMin := int(end * 60)
	entryHour := entryMin / 60
	exitHour := exitMin / 60

	return schema.AccessActivity{
		NumEntries:              entries,
		NumExits:                entries,
		FirstEntryTime:          schema.FormatClock(entryMin),
		LastExitTime:            schema.FormatClock(exitMin),
		TotalPresenceMinutes:    exitMin - entryMin,
		EnteredDuringNightHours: schema.IsNightHour(entryHour),
		NumUniqueCampus:         campuses,
		EarlyEntryFlag:          entryHour < schema.EarlyEntryHour,
		LateExitFlag:            exitHour >= schema.LateExitHour,
		EntryDuringWeekend:      schema.IsWeekend(date),
	}
}

func (g *AccessGenerator) worksWeekend(r *rng.Rand, emp *schema.EmployeeProfile, pattern config.GroupPattern) bool {
	if pattern.WeekendWork > 0 {
		return r.Bernoulli(pattern.WeekendWork)
	}
	p := g.cfg.Malicious.BenignWeekendWorkProb
	if emp.IsMalicious {
		p = g.cfg.Malicious.WeekendWorkProb
	}
	return r.Bernoulli(p)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
