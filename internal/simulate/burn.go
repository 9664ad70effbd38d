package simulate

import (
	"threatsim/internal/config"
	"threatsim/internal/rng"
	"threatsim/internal/schema"
)

const (
	abroadBurnSuppression          = 0.99
	abroadBurnSuppressionMalicious = 0.90

	maxClassificationLevel = 4
)

// BurnGenerator produces daily document-destruction activity. The
// over-clearance behavior is conditioned on the employee-level ground truth:
// benign employees never burn above their own classification level.
type BurnGenerator struct {
	cfg *config.Config
}

// NewBurnGenerator creates a burn generator.
func NewBurnGenerator(cfg *config.Config) *BurnGenerator {
	return &BurnGenerator{cfg: cfg}
}

// Generate returns one day of burn activity for the employee.
func (g *BurnGenerator) Generate(r *rng.Rand, emp *schema.EmployeeProfile, abroad bool) schema.BurnActivity {
	pattern := g.cfg.Patterns[emp.BehavioralGroup]
	bias := g.cfg.Malicious

	if abroad {
		suppression := abroadBurnSuppression
		if emp.IsMalicious {
			suppression = abroadBurnSuppressionMalicious
		}
		if r.Bernoulli(suppression) {
			return schema.BurnActivity{}
		}
	}

	likelihood := pattern.BurnLikelihood
	if emp.IsMalicious {
		likelihood *= bias.BurnLikelihoodMult
	}
	if !r.Bernoulli(likelihood) {
		return schema.BurnActivity{}
	}

	var requests, files, volumeMB int
	if emp.IsMalicious {
		requests = int(float64(r.Poisson(pattern.Burn.RequestsMean)) * r.Uniform(1.5, 2.5))
		volumeMB = int(r.LogNormal(pattern.Burn.VolumeMeanLog, 1.5))
		files = int(float64(r.Poisson(pattern.Burn.FilesMean)) * r.Uniform(1.8, 3.0))
	} else {
		requests = r.Poisson(pattern.Burn.RequestsMean)
		volumeMB = int(r.LogNormal(pattern.Burn.VolumeMeanLog, 1.0))
		files = r.Poisson(pattern.Burn.FilesMean)
	}
	if requests < 1 {
		requests = 1
	}
	if files < 1 {
		files = 1
	}
	if volumeMB < 1 {
		volumeMB = 1
	}

	maxLevel := g.maxRequestLevel(r, emp, pattern)
	var maxClass int
	var sumClass int
	for i := 0; i < requests; i++ {
		level := r.IntBetween(1, maxLevel)
		sumClass += level
		if level > maxClass {
			maxClass = level
		}
	}
	avgClass := float64(sumClass) / float64(requests)

	var offRequests int
	if emp.IsMalicious && r.Bernoulli(pattern.OffHoursTendency) {
		offRequests = int(float64(requests) * r.Uniform(0.3, 0.8))
	}

	campuses := 1
	crossCampus := false
	if emp.IsMalicious && r.Bernoulli(0.2) {
		campuses = r.IntBetween(2, 3)
		crossCampus = true
	}

	return schema.BurnActivity{
		NumBurnRequests:          requests,
		MaxRequestClassification: maxClass,
		AvgRequestClassification: avgClass,
		NumBurnRequestsOffHours:  offRequests,
		TotalBurnVolumeMB:        volumeMB,
		TotalFilesBurned:         files,
		BurnedFromOtherCampus:    crossCampus,
		BurnCampuses:             campuses,
	}
}

// maxRequestLevel returns the highest classification a request may carry that
// day. Malicious employees can exceed their clearance by up to two levels;
// benign employees stay at or below it.
func (g *BurnGenerator) maxRequestLevel(r *rng.Rand, emp *schema.EmployeeProfile, pattern config.GroupPattern) int {
	if emp.IsMalicious {
		over := r.WeightedIndex(g.cfg.Malicious.OverClearanceWeights)
		level := emp.ClassificationLevel + over
		if level > maxClassificationLevel {
			level = maxClassificationLevel
		}
		return level
	}

	weights := []float64{0.6, 0.3, 0.1}
	if pattern.Burn.HighClassification {
		weights = []float64{0.2, 0.3, 0.5}
	}
	level := []int{1, 2, 3}[r.WeightedIndex(weights)]
	if level > emp.ClassificationLevel {
		level = emp.ClassificationLevel
	}
	return level
}
