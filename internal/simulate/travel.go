package simulate

import (
	"fmt"
	"math"

	"threatsim/internal/config"
	"threatsim/internal/rng"
	"threatsim/internal/schema"
)

// StateError reports a corrupted multi-day trip state. Trips must progress one
// contiguous day at a time; anything else indicates a bookkeeping bug and
// aborts the employee's timeline rather than silently emitting broken rows.
type StateError struct {
	EmployeeID string
	Msg        string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("travel state for %s: %s", e.EmployeeID, e.Msg)
}

// TripState carries one employee's in-progress trip across consecutive
// simulated days. The zero value means no active trip.
type TripState struct {
	Active        bool
	Country       string
	Hostility     int
	Official      bool
	OriginTrip    bool
	DayNumber     int
	RemainingDays int
}

// TravelGenerator produces daily travel state, starting new trips and
// advancing active ones.
type TravelGenerator struct {
	cfg *config.Config
}

// NewTravelGenerator creates a travel generator.
func NewTravelGenerator(cfg *config.Config) *TravelGenerator {
	return &TravelGenerator{cfg: cfg}
}

// Generate advances the employee's trip state by one day and returns the
// day's travel activity.
func (g *TravelGenerator) Generate(r *rng.Rand, emp *schema.EmployeeProfile, st *TripState) (schema.TravelActivity, error) {
	if st.Active {
		return g.continueTrip(emp, st)
	}

	pattern := g.cfg.Patterns[emp.BehavioralGroup]
	likelihood := pattern.TravelLikelihood
	if emp.IsMalicious {
		likelihood *= g.cfg.Malicious.TravelMultiplier
	}
	if !r.Bernoulli(likelihood) {
		return schema.TravelActivity{}, nil
	}

	country := g.pickDestination(r, emp)
	hostility := g.cfg.Geography.HostilityLevel(country)

	official := r.Bernoulli(0.7)
	originTrip := country == emp.OriginCountry
	if originTrip && r.Bernoulli(0.6) {
		official = false
	}
	if hostility > 0 && official {
		// Official travel to hostile destinations is progressively rarer.
		official = r.Bernoulli(math.Pow(0.8, float64(hostility)))
	}

	duration := r.IntBetween(g.cfg.Simulation.MinTripDays, g.cfg.Simulation.MaxTripDays)

	*st = TripState{
		Active:        true,
		Country:       country,
		Hostility:     hostility,
		Official:      official,
		OriginTrip:    originTrip,
		DayNumber:     1,
		RemainingDays: duration - 1,
	}
	activity := g.activityFromState(st)
	if st.RemainingDays == 0 {
		*st = TripState{}
	}
	return activity, nil
}

func (g *TravelGenerator) continueTrip(emp *schema.EmployeeProfile, st *TripState) (schema.TravelActivity, error) {
	if st.RemainingDays <= 0 || st.DayNumber < 1 {
		return schema.TravelActivity{}, &StateError{
			EmployeeID: emp.EmployeeID,
			Msg: fmt.Sprintf("active trip with day %d and %d remaining days",
				st.DayNumber, st.RemainingDays),
		}
	}

	st.DayNumber++
	st.RemainingDays--
	activity := g.activityFromState(st)
	if st.RemainingDays == 0 {
		*st = TripState{}
	}
	return activity, nil
}

func (g *TravelGenerator) activityFromState(st *TripState) schema.TravelActivity {
	return schema.TravelActivity{
		IsAbroad:              true,
		TripDayNumber:         st.DayNumber,
		CountryName:           st.Country,
		IsHostileCountryTrip:  st.Hostility > 0,
		HostilityCountryLevel: st.Hostility,
		IsOfficialTrip:        st.Official,
		IsOriginCountryTrip:   st.OriginTrip,
	}
}

// pickDestination chooses the trip's country. Malicious actors carry elevated
// hostile-tier probabilities and otherwise pick uniformly; benign travelers
// follow the weighted destination table with rare hostile exceptions.
func (g *TravelGenerator) pickDestination(r *rng.Rand, emp *schema.EmployeeProfile) string {
	geo := &g.cfg.Geography
	probs := g.cfg.Malicious.BenignHostileDestProbs
	if emp.IsMalicious {
		probs = g.cfg.Malicious.HostileDestProbs
	}

	roll := r.Float64()
	var acc float64
	for i, tier := range []int{3, 2, 1} {
		acc += probs[i]
		if roll < acc {
			if countries := geo.HostileCountries[tier]; len(countries) > 0 {
				return countries[r.IntN(len(countries))]
			}
		}
	}

	if emp.IsMalicious {
		return geo.TravelCountries[r.IntN(len(geo.TravelCountries))]
	}
	return geo.TravelCountries[r.WeightedIndex(geo.TravelWeights)]
}
