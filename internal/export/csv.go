// Package export writes the generated tables as flat CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"threatsim/internal/schema"
)

var activityHeader = []string{
	"employee_id", "date",
	"department", "position", "campus", "behavioral_group", "seniority_years",
	"classification_level", "is_contractor", "has_foreign_citizenship",
	"has_criminal_record", "has_medical_history", "origin_country", "is_malicious",
	"num_entries", "num_exits", "first_entry_time", "last_exit_time",
	"total_presence_minutes", "entered_during_night_hours", "num_unique_campus",
	"early_entry_flag", "late_exit_flag", "entry_during_weekend",
	"num_print_commands", "total_printed_pages", "num_print_commands_off_hours",
	"num_printed_pages_off_hours", "num_color_prints", "num_bw_prints",
	"ratio_color_prints", "printed_from_other", "print_campuses",
	"num_burn_requests", "max_request_classification", "avg_request_classification",
	"num_burn_requests_off_hours", "total_burn_volume_mb", "total_files_burned",
	"burned_from_other", "burn_campuses",
	"is_abroad", "trip_day_number", "country_name", "is_hostile_country_trip",
	"hostility_country_level", "is_official_trip", "is_origin_country_trip",
	"risk_travel_indicator", "row_modified", "modification_details",
}

var labelHeader = []string{
	"employee_id", "date", "day_suspicious", "detection_tier",
	"is_false_positive", "suspicion_score",
}

var modificationHeader = []string{
	"employee_id", "date", "modification_details",
}

// WriteActivity writes the wide activity table: the per-day activity columns
// joined with the owning employee's static profile columns.
func WriteActivity(path string, records []*schema.DailyRecord, profiles map[string]*schema.EmployeeProfile) error {
	return writeCSV(path, activityHeader, func(w *csv.Writer) error {
		for _, rec := range records {
			p := profiles[rec.EmployeeID]
			if p == nil {
				return fmt.Errorf("record %s has no profile", rec.EmployeeID)
			}
			row := []string{
				rec.EmployeeID,
				rec.Date.Format("2006-01-02"),
				p.Department,
				p.Position,
				p.Campus,
				p.BehavioralGroup,
				strconv.Itoa(p.SeniorityYears),
				strconv.Itoa(p.ClassificationLevel),
				boolField(p.IsContractor),
				boolField(p.HasForeignCitizenship),
				boolField(p.HasCriminalRecord),
				boolField(p.HasMedicalHistory),
				p.OriginCountry,
				boolField(p.IsMalicious),
				strconv.Itoa(rec.Access.NumEntries),
				strconv.Itoa(rec.Access.NumExits),
				rec.Access.FirstEntryTime,
				rec.Access.LastExitTime,
				strconv.Itoa(rec.Access.TotalPresenceMinutes),
				boolField(rec.Access.EnteredDuringNightHours),
				strconv.Itoa(rec.Access.NumUniqueCampus),
				boolField(rec.Access.EarlyEntryFlag),
				boolField(rec.Access.LateExitFlag),
				boolField(rec.Access.EntryDuringWeekend),
				strconv.Itoa(rec.Print.NumPrintCommands),
				strconv.Itoa(rec.Print.TotalPrintedPages),
				strconv.Itoa(rec.Print.NumPrintCommandsOffHours),
				strconv.Itoa(rec.Print.NumPrintedPagesOffHours),
				strconv.Itoa(rec.Print.NumColorPrints),
				strconv.Itoa(rec.Print.NumBWPrints),
				floatField(rec.Print.RatioColorPrints),
				boolField(rec.Print.PrintedFromOtherCampus),
				strconv.Itoa(rec.Print.PrintCampuses),
				strconv.Itoa(rec.Burn.NumBurnRequests),
				strconv.Itoa(rec.Burn.MaxRequestClassification),
				floatField(rec.Burn.AvgRequestClassification),
				strconv.Itoa(rec.Burn.NumBurnRequestsOffHours),
				strconv.Itoa(rec.Burn.TotalBurnVolumeMB),
				strconv.Itoa(rec.Burn.TotalFilesBurned),
				boolField(rec.Burn.BurnedFromOtherCampus),
				strconv.Itoa(rec.Burn.BurnCampuses),
				boolField(rec.Travel.IsAbroad),
				strconv.Itoa(rec.Travel.TripDayNumber),
				rec.Travel.CountryName,
				boolField(rec.Travel.IsHostileCountryTrip),
				strconv.Itoa(rec.Travel.HostilityCountryLevel),
				boolField(rec.Travel.IsOfficialTrip),
				boolField(rec.Travel.IsOriginCountryTrip),
				boolField(rec.RiskTravelIndicator),
				boolField(rec.RowModified),
				rec.ModificationDetails,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteLabels writes the label table, joinable to the activity table on
// (employee_id, date).
func WriteLabels(path string, labels []*schema.DailyLabel) error {
	return writeCSV(path, labelHeader, func(w *csv.Writer) error {
		for _, l := range labels {
			row := []string{
				l.EmployeeID,
				l.Date.Format("2006-01-02"),
				boolField(l.DaySuspicious),
				string(l.Tier),
				boolField(l.IsFalsePositive),
				floatField(l.Score),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteModificationLog writes one row per noise-modified record, with the
// change journal for that day.
func WriteModificationLog(path string, records []*schema.DailyRecord) error {
	return writeCSV(path, modificationHeader, func(w *csv.Writer) error {
		for _, rec := range records {
			if !rec.RowModified {
				continue
			}
			row := []string{
				rec.EmployeeID,
				rec.Date.Format("2006-01-02"),
				rec.ModificationDetails,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, header []string, body func(*csv.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func floatField(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
