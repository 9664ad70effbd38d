// Package labeling derives day-level suspicion labels from the generated
// activity table.
package labeling

import (
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"threatsim/internal/config"
	"threatsim/internal/rng"
	"threatsim/internal/schema"
)

// ErrInsufficientData is returned when the activity table is too small for
// percentile thresholds to mean anything.
var ErrInsufficientData = errors.New("insufficient data for labeling")

// Thresholds are the population score cut-offs resolved for one run.
type Thresholds struct {
	Strict float64
	Soft   float64
}

// Creator computes composite suspicion scores and assigns detection tiers.
type Creator struct {
	cfg    config.LabelConfig
	logger *slog.Logger
}

// NewCreator creates a label creator.
func NewCreator(cfg config.LabelConfig, logger *slog.Logger) *Creator {
	return &Creator{cfg: cfg, logger: logger.With("component", "labeling")}
}

// CreateLabels scores every activity row and assigns tiers in two phases:
// strict labels go to malicious employees whose day score clears the strict
// percentile, then soft labels expand one day around each strict day, and a
// seeded sample of benign employees receives one false-positive day each.
// One label row is emitted per activity row, joinable on (employee, date).
func (c *Creator) CreateLabels(records []*schema.DailyRecord, profiles map[string]*schema.EmployeeProfile, seed int64) ([]*schema.DailyLabel, Thresholds, error) {
	if len(records) < 2 {
		return nil, Thresholds{}, ErrInsufficientData
	}

	scores := c.scoreAll(records)

	th := Thresholds{
		Strict: percentile(scores, c.cfg.StrictPercentile),
		Soft:   percentile(scores, c.cfg.SoftPercentile),
	}

	labels := make([]*schema.DailyLabel, len(records))
	byKey := make(map[labelKey]*schema.DailyLabel, len(records))
	for i, rec := range records {
		l := &schema.DailyLabel{
			EmployeeID: rec.EmployeeID,
			Date:       rec.Date,
			Tier:       schema.TierNone,
			Score:      scores[i],
		}
		p := profiles[rec.EmployeeID]
		if p != nil && p.IsMalicious && l.Score > 0 && l.Score >= th.Strict {
			l.DaySuspicious = true
			l.Tier = schema.TierStrict
		}
		labels[i] = l
		byKey[keyOf(rec.EmployeeID, rec.Date)] = l
	}

	c.expandSoft(labels, byKey, th)
	injected := c.injectFalsePositives(labels, profiles, seed)

	c.logger.Info("labels created",
		"rows", len(labels),
		"strict", countTier(labels, schema.TierStrict),
		"soft", countTier(labels, schema.TierSoft),
		"false_positives", injected,
		"strict_threshold", th.Strict,
		"soft_threshold", th.Soft)
	return labels, th, nil
}

// scoreAll computes the composite score for every record. The off-hours and
// burn-volume features are min-max normalized against the population maxima
// observed in the same pass.
func (c *Creator) scoreAll(records []*schema.DailyRecord) []float64 {
	offHours := make([]float64, len(records))
	burnVol := make([]float64, len(records))
	var maxOffHours, maxBurnVol float64
	for i, rec := range records {
		offHours[i] = float64(rec.Print.NumPrintCommandsOffHours +
			rec.Print.NumPrintedPagesOffHours +
			rec.Burn.NumBurnRequestsOffHours)
		burnVol[i] = float64(rec.Burn.TotalBurnVolumeMB)
		maxOffHours = math.Max(maxOffHours, offHours[i])
		maxBurnVol = math.Max(maxBurnVol, burnVol[i])
	}

	w := c.cfg.Weights
	scores := make([]float64, len(records))
	for i, rec := range records {
		var s float64
		s += w.OffHours * safeDiv(offHours[i], maxOffHours)
		s += w.BurnVolume * safeDiv(burnVol[i], maxBurnVol)
		s += w.BurnClassification * float64(rec.Burn.MaxRequestClassification) / 4.0
		if rec.RiskTravelIndicator {
			s += w.TravelRisk
		}
		scores[i] = s
	}
	return scores
}

// expandSoft marks the day before and after each strict day as soft when that
// neighbor's own score clears the soft threshold. Expansion is one level deep:
// soft days never recruit further neighbors.
func (c *Creator) expandSoft(labels []*schema.DailyLabel, byKey map[labelKey]*schema.DailyLabel, th Thresholds) {
	for _, l := range labels {
		if l.Tier != schema.TierStrict {
			continue
		}
		for _, delta := range []int{-1, 1} {
			neighbor, ok := byKey[keyOf(l.EmployeeID, l.Date.AddDate(0, 0, delta))]
			if !ok || neighbor.Tier != schema.TierNone {
				continue
			}
			if neighbor.Score > 0 && neighbor.Score >= th.Soft {
				neighbor.DaySuspicious = true
				neighbor.Tier = schema.TierSoft
			}
		}
	}
}

// injectFalsePositives marks one random day suspicious for a seeded sample of
// benign employees, so the labels are not trivially separable from ground
// truth. Returns the number of employees touched.
func (c *Creator) injectFalsePositives(labels []*schema.DailyLabel, profiles map[string]*schema.EmployeeProfile, seed int64) int {
	daysByEmployee := make(map[string][]*schema.DailyLabel)
	for _, l := range labels {
		daysByEmployee[l.EmployeeID] = append(daysByEmployee[l.EmployeeID], l)
	}

	benign := make([]string, 0, len(daysByEmployee))
	for id := range daysByEmployee {
		if p := profiles[id]; p != nil && !p.IsMalicious {
			benign = append(benign, id)
		}
	}
	sort.Strings(benign)

	count := int(math.Round(float64(len(benign)) * c.cfg.FalsePositiveRate))
	if count == 0 {
		return 0
	}

	r := rng.NewStream(seed, "false-positives")
	for _, id := range r.Shuffled(benign)[:count] {
		days := daysByEmployee[id]
		l := days[r.IntN(len(days))]
		l.DaySuspicious = true
		l.Tier = schema.TierSoft
		l.IsFalsePositive = true
	}
	return count
}

type labelKey struct {
	employeeID string
	date       string
}

func keyOf(employeeID string, date time.Time) labelKey {
	return labelKey{employeeID: employeeID, date: date.Format("2006-01-02")}
}

// percentile computes the q-th quantile (0-1) with linear interpolation
// between closest ranks.
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func safeDiv(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}

func countTier(labels []*schema.DailyLabel, tier schema.DetectionTier) int {
	var n int
	for _, l := range labels {
		if l.Tier == tier {
			n++
		}
	}
	return n
}
