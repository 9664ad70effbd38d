// Package schema defines the canonical record types for the insider-threat
// activity simulator. Every generated table row is one of these structures.
package schema

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeProfile holds the static attributes of a simulated employee.
// Profiles are immutable for the whole simulated lifecycle; IsMalicious is the
// employee-level ground truth and never changes day to day.
type EmployeeProfile struct {
	EmployeeID            string `json:"employee_id" validate:"required"`
	Department            string `json:"department" validate:"required"`
	Position              string `json:"position" validate:"required"`
	Campus                string `json:"campus" validate:"required"`
	BehavioralGroup       string `json:"behavioral_group" validate:"required,oneof=A B C D E F"`
	SeniorityYears        int    `json:"seniority_years" validate:"min=0"`
	ClassificationLevel   int    `json:"classification_level" validate:"min=1,max=4"`
	IsContractor          bool   `json:"is_contractor"`
	HasForeignCitizenship bool   `json:"has_foreign_citizenship"`
	HasCriminalRecord     bool   `json:"has_criminal_record"`
	HasMedicalHistory     bool   `json:"has_medical_history"`
	OriginCountry         string `json:"origin_country" validate:"required"`
	IsMalicious           bool   `json:"is_malicious"`
}

// AccessActivity is one day of building access for one employee.
// First/last times use the "HH:MM" clock format; both are empty when the
// employee had no presence that day.
type AccessActivity struct {
	NumEntries              int    `json:"num_entries" validate:"min=0"`
	NumExits                int    `json:"num_exits" validate:"min=0"`
	FirstEntryTime          string `json:"first_entry_time,omitempty"`
	LastExitTime            string `json:"last_exit_time,omitempty"`
	TotalPresenceMinutes    int    `json:"total_presence_minutes" validate:"min=0"`
	EnteredDuringNightHours bool   `json:"entered_during_night_hours"`
	NumUniqueCampus         int    `json:"num_unique_campus" validate:"min=0"`
	EarlyEntryFlag          bool   `json:"early_entry_flag"`
	LateExitFlag            bool   `json:"late_exit_flag"`
	EntryDuringWeekend      bool   `json:"entry_during_weekend"`
}

// PrintActivity is one day of printing for one employee.
// Invariants: NumColorPrints+NumBWPrints == TotalPrintedPages and the
// off-hours counters never exceed their totals.
type PrintActivity struct {
	NumPrintCommands         int     `json:"num_print_commands" validate:"min=0"`
	TotalPrintedPages        int     `json:"total_printed_pages" validate:"min=0"`
	NumPrintCommandsOffHours int     `json:"num_print_commands_off_hours" validate:"min=0,ltefield=NumPrintCommands"`
	NumPrintedPagesOffHours  int     `json:"num_printed_pages_off_hours" validate:"min=0,ltefield=TotalPrintedPages"`
	NumColorPrints           int     `json:"num_color_prints" validate:"min=0"`
	NumBWPrints              int     `json:"num_bw_prints" validate:"min=0"`
	RatioColorPrints         float64 `json:"ratio_color_prints" validate:"min=0,max=1"`
	PrintedFromOtherCampus   bool    `json:"printed_from_other"`
	PrintCampuses            int     `json:"print_campuses" validate:"min=0"`
}

// BurnActivity is one day of document destruction for one employee.
// MaxRequestClassification may exceed the employee's own clearance only when
// the employee's ground truth is malicious; there is deliberately no separate
// violation flag, so the over-clearance observation is explainable only
// through EmployeeProfile.IsMalicious.
type BurnActivity struct {
	NumBurnRequests          int     `json:"num_burn_requests" validate:"min=0"`
	MaxRequestClassification int     `json:"max_request_classification" validate:"min=0,max=4"`
	AvgRequestClassification float64 `json:"avg_request_classification" validate:"min=0,max=4"`
	NumBurnRequestsOffHours  int     `json:"num_burn_requests_off_hours" validate:"min=0,ltefield=NumBurnRequests"`
	TotalBurnVolumeMB        int     `json:"total_burn_volume_mb" validate:"min=0"`
	TotalFilesBurned         int     `json:"total_files_burned" validate:"min=0"`
	BurnedFromOtherCampus    bool    `json:"burned_from_other"`
	BurnCampuses             int     `json:"burn_campuses" validate:"min=0"`
}

// TravelActivity is one day of travel state for one employee.
// TripDayNumber is 1-based while abroad and 0 otherwise.
type TravelActivity struct {
	IsAbroad              bool   `json:"is_abroad"`
	TripDayNumber         int    `json:"trip_day_number" validate:"min=0"`
	CountryName           string `json:"country_name,omitempty"`
	IsHostileCountryTrip  bool   `json:"is_hostile_country_trip"`
	HostilityCountryLevel int    `json:"hostility_country_level" validate:"min=0,max=3"`
	IsOfficialTrip        bool   `json:"is_official_trip"`
	IsOriginCountryTrip   bool   `json:"is_origin_country_trip"`
}

// DailyRecord is the composite per-employee, per-day activity row. Exactly one
// record exists for every (employee, date) pair in the simulated range,
// including all-zero records for inactive days.
type DailyRecord struct {
	EmployeeID string         `json:"employee_id" validate:"required"`
	Date       time.Time      `json:"date" validate:"required"`
	Access     AccessActivity `json:"access"`
	Print      PrintActivity  `json:"print"`
	Burn       BurnActivity   `json:"burn"`
	Travel     TravelActivity `json:"travel"`

	// Derived cross-activity risk flag, set by the risk composer.
	RiskTravelIndicator bool `json:"risk_travel_indicator"`

	// Noise-injection journal. Empty unless the noise pass touched the row.
	RowModified         bool   `json:"row_modified"`
	ModificationDetails string `json:"modification_details,omitempty"`
}

// DetectionTier is the confidence level of a day-level suspicion label.
type DetectionTier string

const (
	TierNone   DetectionTier = "none"
	TierSoft   DetectionTier = "soft"
	TierStrict DetectionTier = "strict"
)

// IsValid checks if the tier is a valid value.
func (t DetectionTier) IsValid() bool {
	switch t {
	case TierNone, TierSoft, TierStrict:
		return true
	}
	return false
}

// DailyLabel is the day-level suspicion label, joinable to the activity table
// on (EmployeeID, Date). Labels are created once by the label creator and
// never mutated afterward.
type DailyLabel struct {
	EmployeeID      string        `json:"employee_id" validate:"required"`
	Date            time.Time     `json:"date" validate:"required"`
	DaySuspicious   bool          `json:"day_suspicious"`
	Tier            DetectionTier `json:"detection_tier" validate:"oneof=none soft strict"`
	IsFalsePositive bool          `json:"is_false_positive"`
	Score           float64       `json:"score" validate:"min=0"`
}

// Dataset bundles one generation run: the sampled population, the complete
// activity table, and the label table.
type Dataset struct {
	RunID     uuid.UUID          `json:"run_id"`
	StartDate time.Time          `json:"start_date"`
	Days      int                `json:"days"`
	Profiles  []*EmployeeProfile `json:"profiles"`
	Records   []*DailyRecord     `json:"records"`
	Labels    []*DailyLabel      `json:"labels"`
}

// ProfileByID builds an EmployeeID -> profile lookup.
func (d *Dataset) ProfileByID() map[string]*EmployeeProfile {
	m := make(map[string]*EmployeeProfile, len(d.Profiles))
	for _, p := range d.Profiles {
		m[p.EmployeeID] = p
	}
	return m
}
