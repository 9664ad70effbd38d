package simulate

import "threatsim/internal/schema"

// ComposeRiskIndicator derives the day-level travel risk flag from the
// already-generated activities. A day is risky when unofficial travel to a
// significantly hostile country coincides with off-hours exfiltration
// behavior, or when a cleared employee is in any hostile country at all.
func ComposeRiskIndicator(emp *schema.EmployeeProfile, rec *schema.DailyRecord) bool {
	t := rec.Travel
	if !t.IsAbroad {
		return false
	}

	offHours := rec.Burn.NumBurnRequestsOffHours > 0 || rec.Print.NumPrintCommandsOffHours > 0
	if !t.IsOfficialTrip && t.HostilityCountryLevel >= 2 && offHours {
		return true
	}
	if t.IsHostileCountryTrip && emp.ClassificationLevel >= 3 {
		return true
	}
	return false
}
