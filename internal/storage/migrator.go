package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Table DDL for the two generated tables. The activity table is denormalized
// with the employee's static profile columns, mirroring the CSV export.
var tableDDL = []struct {
	name string
	sql  string
}{
	{
		name: "daily_activity",
		sql: `
			CREATE TABLE IF NOT EXISTS daily_activity (
				run_id UUID,
				employee_id String,
				date Date,
				department String,
				position String,
				campus String,
				behavioral_group FixedString(1),
				seniority_years UInt8,
				classification_level UInt8,
				is_contractor UInt8,
				has_foreign_citizenship UInt8,
				has_criminal_record UInt8,
				has_medical_history UInt8,
				origin_country String,
				is_malicious UInt8,
				num_entries UInt8,
				num_exits UInt8,
				first_entry_time String,
				last_exit_time String,
				total_presence_minutes UInt16,
				entered_during_night_hours UInt8,
				num_unique_campus UInt8,
				early_entry_flag UInt8,
				late_exit_flag UInt8,
				entry_during_weekend UInt8,
				num_print_commands UInt16,
				total_printed_pages UInt32,
				num_print_commands_off_hours UInt16,
				num_printed_pages_off_hours UInt32,
				num_color_prints UInt32,
				num_bw_prints UInt32,
				ratio_color_prints Float64,
				printed_from_other UInt8,
				print_campuses UInt8,
				num_burn_requests UInt16,
				max_request_classification UInt8,
				avg_request_classification Float64,
				num_burn_requests_off_hours UInt16,
				total_burn_volume_mb UInt32,
				total_files_burned UInt32,
				burned_from_other UInt8,
				burn_campuses UInt8,
				is_abroad UInt8,
				trip_day_number UInt8,
				country_name String,
				is_hostile_country_trip UInt8,
				hostility_country_level UInt8,
				is_official_trip UInt8,
				is_origin_country_trip UInt8,
				risk_travel_indicator UInt8,
				row_modified UInt8,
				modification_details String
			)
			ENGINE = MergeTree()
			PARTITION BY toYYYYMM(date)
			ORDER BY (run_id, employee_id, date)
		`,
	},
	{
		name: "daily_labels",
		sql: `
			CREATE TABLE IF NOT EXISTS daily_labels (
				run_id UUID,
				employee_id String,
				date Date,
				day_suspicious UInt8,
				detection_tier LowCardinality(String),
				is_false_positive UInt8,
				suspicion_score Float64
			)
			ENGINE = MergeTree()
			PARTITION BY toYYYYMM(date)
			ORDER BY (run_id, employee_id, date)
		`,
	},
}

// Migrator creates the output tables.
type Migrator struct {
	client *ClickHouseClient
}

// NewMigrator creates a new Migrator.
func NewMigrator(client *ClickHouseClient) *Migrator {
	return &Migrator{client: client}
}

// Run creates any missing tables.
func (m *Migrator) Run(ctx context.Context) error {
	for _, t := range tableDDL {
		if err := m.client.Exec(ctx, t.sql); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		slog.Debug("table ensured", "table", t.name)
	}
	return nil
}
