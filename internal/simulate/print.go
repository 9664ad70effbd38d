package simulate

import (
	"threatsim/internal/config"
	"threatsim/internal/rng"
	"threatsim/internal/schema"
)

// Abroad days suppress printing almost entirely; malicious employees keep a
// slightly larger residual chance.
const (
	abroadPrintSuppression          = 0.98
	abroadPrintSuppressionMalicious = 0.85

	printGammaShape = 1.2
)

// PrintGenerator produces daily print activity.
type PrintGenerator struct {
	cfg *config.Config
}

// NewPrintGenerator creates a print generator.
func NewPrintGenerator(cfg *config.Config) *PrintGenerator {
	return &PrintGenerator{cfg: cfg}
}

// Generate returns one day of print activity for the employee.
func (g *PrintGenerator) Generate(r *rng.Rand, emp *schema.EmployeeProfile, abroad bool) schema.PrintActivity {
	pattern := g.cfg.Patterns[emp.BehavioralGroup]
	bias := g.cfg.Malicious

	if abroad {
		suppression := abroadPrintSuppression
		if emp.IsMalicious {
			suppression = abroadPrintSuppressionMalicious
		}
		if r.Bernoulli(suppression) {
			return schema.PrintActivity{}
		}
	}

	if !r.Bernoulli(pattern.PrintLikelihood) {
		return schema.PrintActivity{}
	}

	commands := r.Poisson(pattern.PrintVolume.CommandsMean)
	if commands < 1 {
		commands = 1
	}

	pagesMean := pattern.PrintVolume.PagesMean
	if emp.IsMalicious {
		pagesMean *= bias.PrintPageMultiplier
	}
	multiplier := r.Uniform(0.7, 1.3)
	if emp.IsMalicious {
		multiplier = r.Uniform(0.8, 1.2)
	}
	pages := int(r.Gamma(printGammaShape, pagesMean/printGammaShape) * multiplier)
	if pages < 1 {
		pages = 1
	}
	// Heavy days take a few extra commands.
	if float64(pages) > pagesMean*2 {
		commands += r.Poisson(1)
	}

	colorRatio := clamp(r.Normal(pattern.PrintVolume.ColorRatio, 0.1), 0, 1)
	colorPages := int(float64(pages) * colorRatio)

	tendency := pattern.OffHoursTendency
	if emp.IsMalicious {
		tendency = min(tendency*bias.OffHoursTendencyMult, bias.OffHoursTendencyCap)
	}
	var offCommands, offPages int
	if r.Bernoulli(tendency) {
		ratio := r.Uniform(0.1, 0.4)
		if emp.IsMalicious {
			ratio = r.Uniform(0.3, 0.7)
		}
		offCommands = int(float64(commands) * ratio)
		offPages = int(float64(pages) * ratio)
	}

	campuses := 1
	crossCampus := false
	if emp.IsMalicious && r.Bernoulli(0.25) {
		campuses = r.IntBetween(2, 3)
		crossCampus = true
	} else if !emp.IsMalicious && r.Bernoulli(0.05) {
		campuses = 2
		crossCampus = true
	}

	return schema.PrintActivity{
		NumPrintCommands:         commands,
		TotalPrintedPages:        pages,
		NumPrintCommandsOffHours: offCommands,
		NumPrintedPagesOffHours:  offPages,
		NumColorPrints:           colorPages,
		NumBWPrints:              pages - colorPages,
		RatioColorPrints:         colorRatio,
		PrintedFromOtherCampus:   crossCampus,
		PrintCampuses:            campuses,
	}
}
