// Package employee samples the static organizational population that the
// activity generators run against.
package employee

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"threatsim/internal/config"
	"threatsim/internal/rng"
	"threatsim/internal/schema"
)

// Generator samples employee profiles from the organizational and geographic
// tables.
type Generator struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewGenerator creates a profile generator.
func NewGenerator(cfg *config.Config, logger *slog.Logger) *Generator {
	return &Generator{cfg: cfg, logger: logger.With("component", "employee")}
}

// Generate samples the full population. Profile attributes and the malicious
// subset are drawn from substreams of the master seed, so the same seed always
// yields the same population.
func (g *Generator) Generate(seed int64) ([]*schema.EmployeeProfile, error) {
	n := g.cfg.Simulation.NumEmployees
	r := rng.NewStream(seed, "employees")

	departments, deptWeights := sortedWeights(g.cfg.Org.DepartmentWeights)

	profiles := make([]*schema.EmployeeProfile, 0, n)
	for i := 0; i < n; i++ {
		dept := departments[r.WeightedIndex(deptWeights)]
		positions := g.cfg.Org.DepartmentPositions[dept]
		if len(positions) == 0 {
			return nil, fmt.Errorf("department %q has no positions", dept)
		}
		position := positions[r.IntN(len(positions))]

		group, ok := g.cfg.Org.BehavioralGroups[dept]
		if !ok {
			return nil, fmt.Errorf("department %q has no behavioral group", dept)
		}

		p := &schema.EmployeeProfile{
			EmployeeID:            fmt.Sprintf("EMP-%05d", i+1),
			Department:            dept,
			Position:              position,
			Campus:                g.cfg.Geography.Campuses[r.IntN(len(g.cfg.Geography.Campuses))],
			BehavioralGroup:       group,
			SeniorityYears:        g.sampleSeniority(r, dept, position),
			ClassificationLevel:   g.sampleClassification(r, dept),
			IsContractor:          r.Bernoulli(g.cfg.Org.Attributes["contractor"]),
			HasForeignCitizenship: r.Bernoulli(g.cfg.Org.Attributes["foreign_citizenship"]),
			HasCriminalRecord:     r.Bernoulli(g.cfg.Org.Attributes["criminal_record"]),
			HasMedicalHistory:     r.Bernoulli(g.cfg.Org.Attributes["medical_history"]),
			OriginCountry:         g.cfg.Geography.OriginCountries[r.WeightedIndex(g.cfg.Geography.OriginWeights)],
		}
		profiles = append(profiles, p)
	}

	g.markMalicious(profiles, seed)

	g.logger.Info("population generated",
		"employees", len(profiles),
		"malicious", countMalicious(profiles))
	return profiles, nil
}

// markMalicious flags a seeded random subset of the population as the
// employee-level ground truth.
func (g *Generator) markMalicious(profiles []*schema.EmployeeProfile, seed int64) {
	count := int(math.Round(float64(len(profiles)) * g.cfg.Simulation.MaliciousRatio))
	if count <= 0 {
		return
	}
	if count > len(profiles) {
		count = len(profiles)
	}

	r := rng.NewStream(seed, "malicious-selection")
	for _, idx := range r.Perm(len(profiles))[:count] {
		profiles[idx].IsMalicious = true
	}
}

func (g *Generator) sampleClassification(r *rng.Rand, dept string) int {
	lw, ok := g.cfg.Org.Classification[dept]
	if !ok {
		lw = g.cfg.Org.Classification["default"]
	}
	if len(lw.Levels) == 0 {
		return 1
	}
	return lw.Levels[r.WeightedIndex(lw.Weights)]
}

func (g *Generator) sampleSeniority(r *rng.Rand, dept, position string) int {
	key := "default"
	switch {
	case dept == "Executive Management":
		key = "executive"
	case strings.Contains(position, "Manager"), strings.Contains(position, "Head"):
		key = "manager"
	case strings.Contains(position, "Secretary"):
		key = "secretary"
	}
	bounds, ok := g.cfg.Org.Seniority[key]
	if !ok {
		bounds = g.cfg.Org.Seniority["default"]
	}
	return r.IntBetween(bounds[0], bounds[1])
}

// sortedWeights flattens a name->weight map into parallel slices with a
// stable order.
func sortedWeights(m map[string]float64) ([]string, []float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	weights := make([]float64, len(names))
	for i, name := range names {
		weights[i] = m[name]
	}
	return names, weights
}

func countMalicious(profiles []*schema.EmployeeProfile) int {
	var n int
	for _, p := range profiles {
		if p.IsMalicious {
			n++
		}
	}
	return n
}
