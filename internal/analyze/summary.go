// Package analyze computes compact descriptive statistics over a finished
// dataset, for the run log and the optional Redis summary sink.
package analyze

import "threatsim/internal/schema"

// GroupStats are per-behavioral-group averages.
type GroupStats struct {
	Employees          int     `json:"employees"`
	AvgPresenceMinutes float64 `json:"avg_presence_minutes"`
	AvgPrintCommands   float64 `json:"avg_print_commands"`
	AvgBurnRequests    float64 `json:"avg_burn_requests"`
	AbroadDayRatio     float64 `json:"abroad_day_ratio"`
}

// Summary is the run-level statistics record.
type Summary struct {
	TotalEmployees     int                   `json:"total_employees"`
	MaliciousEmployees int                   `json:"malicious_employees"`
	Days               int                   `json:"days"`
	TotalRecords       int                   `json:"total_records"`
	AbroadDays         int                   `json:"abroad_days"`
	ModifiedRows       int                   `json:"modified_rows"`
	SuspiciousDays     int                   `json:"suspicious_days"`
	StrictDays         int                   `json:"strict_days"`
	SoftDays           int                   `json:"soft_days"`
	FalsePositiveDays  int                   `json:"false_positive_days"`
	SuspiciousByEmp    map[string]int        `json:"suspicious_by_employee"`
	Groups             map[string]GroupStats `json:"groups"`
}

// Summarize computes run statistics over the dataset.
func Summarize(ds *schema.Dataset) *Summary {
	s := &Summary{
		TotalEmployees:  len(ds.Profiles),
		Days:            ds.Days,
		TotalRecords:    len(ds.Records),
		SuspiciousByEmp: make(map[string]int),
		Groups:          make(map[string]GroupStats),
	}

	groupByEmp := make(map[string]string, len(ds.Profiles))
	for _, p := range ds.Profiles {
		groupByEmp[p.EmployeeID] = p.BehavioralGroup
		if p.IsMalicious {
			s.MaliciousEmployees++
		}
		g := s.Groups[p.BehavioralGroup]
		g.Employees++
		s.Groups[p.BehavioralGroup] = g
	}

	type accum struct {
		rows     int
		presence int
		prints   int
		burns    int
		abroad   int
	}
	byGroup := make(map[string]*accum)

	for _, rec := range ds.Records {
		group := groupByEmp[rec.EmployeeID]
		a := byGroup[group]
		if a == nil {
			a = &accum{}
			byGroup[group] = a
		}
		a.rows++
		a.presence += rec.Access.TotalPresenceMinutes
		a.prints += rec.Print.NumPrintCommands
		a.burns += rec.Burn.NumBurnRequests
		if rec.Travel.IsAbroad {
			a.abroad++
			s.AbroadDays++
		}
		if rec.RowModified {
			s.ModifiedRows++
		}
	}

	for group, a := range byGroup {
		g := s.Groups[group]
		if a.rows > 0 {
			g.AvgPresenceMinutes = float64(a.presence) / float64(a.rows)
			g.AvgPrintCommands = float64(a.prints) / float64(a.rows)
			g.AvgBurnRequests = float64(a.burns) / float64(a.rows)
			g.AbroadDayRatio = float64(a.abroad) / float64(a.rows)
		}
		s.Groups[group] = g
	}

	for _, l := range ds.Labels {
		if l.DaySuspicious {
			s.SuspiciousDays++
			s.SuspiciousByEmp[l.EmployeeID]++
		}
		switch l.Tier {
		case schema.TierStrict:
			s.StrictDays++
		case schema.TierSoft:
			s.SoftDays++
		}
		if l.IsFalsePositive {
			s.FalsePositiveDays++
		}
	}

	return s
}
