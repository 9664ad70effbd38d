package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"threatsim/internal/config"
	"threatsim/internal/schema"
)

// BatchWriter handles batched inserts of activity rows into ClickHouse.
// Rows are denormalized with the owning employee's profile on the way in.
type BatchWriter struct {
	client   *ClickHouseClient
	config   config.BatchWriterConfig
	runID    uuid.UUID
	profiles map[string]*schema.EmployeeProfile

	buffer []*schema.DailyRecord
	mu     sync.Mutex

	flushTimer *time.Timer
	closed     bool

	totalWritten uint64
	totalFailed  uint64
	batchCount   uint64
}

// NewBatchWriter creates a batch writer for one generation run.
func NewBatchWriter(client *ClickHouseClient, cfg config.BatchWriterConfig, runID uuid.UUID, profiles map[string]*schema.EmployeeProfile) *BatchWriter {
	bw := &BatchWriter{
		client:   client,
		config:   cfg,
		runID:    runID,
		profiles: profiles,
		buffer:   make([]*schema.DailyRecord, 0, cfg.BatchSize),
	}
	bw.flushTimer = time.AfterFunc(cfg.FlushInterval, bw.timerFlush)
	return bw
}

// Write adds a record to the batch, flushing when the batch is full.
func (bw *BatchWriter) Write(rec *schema.DailyRecord) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.closed {
		return ErrWriterClosed
	}

	bw.buffer = append(bw.buffer, rec)
	if len(bw.buffer) >= bw.config.BatchSize {
		return bw.flushLocked()
	}
	return nil
}

func (bw *BatchWriter) timerFlush() {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.closed {
		return
	}
	if len(bw.buffer) > 0 {
		if err := bw.flushLocked(); err != nil {
			slog.Error("timer flush failed", "error", err)
		}
	}
	bw.flushTimer.Reset(bw.config.FlushInterval)
}

// flushLocked flushes the buffer with retries. Caller must hold the lock.
func (bw *BatchWriter) flushLocked() error {
	if len(bw.buffer) == 0 {
		return nil
	}

	records := bw.buffer
	bw.buffer = make([]*schema.DailyRecord, 0, bw.config.BatchSize)

	var lastErr error
	for attempt := 0; attempt <= bw.config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(bw.config.RetryDelay * time.Duration(attempt))
		}

		if err := bw.insertBatch(records); err != nil {
			lastErr = err
			slog.Warn("batch insert failed, retrying",
				"attempt", attempt+1,
				"max_retries", bw.config.MaxRetries,
				"error", err)
			continue
		}

		atomic.AddUint64(&bw.totalWritten, uint64(len(records)))
		atomic.AddUint64(&bw.batchCount, 1)
		return nil
	}

	atomic.AddUint64(&bw.totalFailed, uint64(len(records)))
	return fmt.Errorf("%w: after %d retries: %v", ErrBatchInsertFailed, bw.config.MaxRetries, lastErr)
}

func (bw *BatchWriter) insertBatch(records []*schema.DailyRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch, err := bw.client.PrepareBatch(ctx, `
		INSERT INTO daily_activity (
			run_id, employee_id, date,
			department, position, campus, behavioral_group, seniority_years,
			classification_level, is_contractor, has_foreign_citizenship,
			has_criminal_record, has_medical_history, origin_country, is_malicious,
			num_entries, num_exits, first_entry_time, last_exit_time,
			total_presence_minutes, entered_during_night_hours, num_unique_campus,
			early_entry_flag, late_exit_flag, entry_during_weekend,
			num_print_commands, total_printed_pages, num_print_commands_off_hours,
			num_printed_pages_off_hours, num_color_prints, num_bw_prints,
			ratio_color_prints, printed_from_other, print_campuses,
			num_burn_requests, max_request_classification, avg_request_classification,
			num_burn_requests_off_hours, total_burn_volume_mb, total_files_burned,
			burned_from_other, burn_campuses,
			is_abroad, trip_day_number, country_name, is_hostile_country_trip,
			hostility_country_level, is_official_trip, is_origin_country_trip,
			risk_travel_indicator, row_modified, modification_details
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, rec := range records {
		p := bw.profiles[rec.EmployeeID]
		if p == nil {
			return fmt.Errorf("record %s has no profile", rec.EmployeeID)
		}

		err := batch.Append(
			bw.runID,
			rec.EmployeeID,
			rec.Date,
			p.Department,
			p.Position,
			p.Campus,
			p.BehavioralGroup,
			uint8(p.SeniorityYears),
			uint8(p.ClassificationLevel),
			boolU8(p.IsContractor),
			boolU8(p.HasForeignCitizenship),
			boolU8(p.HasCriminalRecord),
			boolU8(p.HasMedicalHistory),
			p.OriginCountry,
			boolU8(p.IsMalicious),
			uint8(rec.Access.NumEntries),
			uint8(rec.Access.NumExits),
			rec.Access.FirstEntryTime,
			rec.Access.LastExitTime,
			uint16(rec.Access.TotalPresenceMinutes),
			boolU8(rec.Access.EnteredDuringNightHours),
			uint8(rec.Access.NumUniqueCampus),
			boolU8(rec.Access.EarlyEntryFlag),
			boolU8(rec.Access.LateExitFlag),
			boolU8(rec.Access.EntryDuringWeekend),
			uint16(rec.Print.NumPrintCommands),
			uint32(rec.Print.TotalPrintedPages),
			uint16(rec.Print.NumPrintCommandsOffHours),
			uint32(rec.Print.NumPrintedPagesOffHours),
			uint32(rec.Print.NumColorPrints),
			uint32(rec.Print.NumBWPrints),
			rec.Print.RatioColorPrints,
			boolU8(rec.Print.PrintedFromOtherCampus),
			uint8(rec.Print.PrintCampuses),
			uint16(rec.Burn.NumBurnRequests),
			uint8(rec.Burn.MaxRequestClassification),
			rec.Burn.AvgRequestClassification,
			uint16(rec.Burn.NumBurnRequestsOffHours),
			uint32(rec.Burn.TotalBurnVolumeMB),
			uint32(rec.Burn.TotalFilesBurned),
			boolU8(rec.Burn.BurnedFromOtherCampus),
			uint8(rec.Burn.BurnCampuses),
			boolU8(rec.Travel.IsAbroad),
			uint8(rec.Travel.TripDayNumber),
			rec.Travel.CountryName,
			boolU8(rec.Travel.IsHostileCountryTrip),
			uint8(rec.Travel.HostilityCountryLevel),
			boolU8(rec.Travel.IsOfficialTrip),
			boolU8(rec.Travel.IsOriginCountryTrip),
			boolU8(rec.RiskTravelIndicator),
			boolU8(rec.RowModified),
			rec.ModificationDetails,
		)
		if err != nil {
			return fmt.Errorf("failed to append record: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	slog.Debug("batch inserted", "count", len(records))
	return nil
}

// Flush forces a flush of the current buffer.
func (bw *BatchWriter) Flush() error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.flushLocked()
}

// Close stops the flush timer and flushes the remaining buffer.
func (bw *BatchWriter) Close() error {
	bw.flushTimer.Stop()

	bw.mu.Lock()
	defer bw.mu.Unlock()
	err := bw.flushLocked()
	bw.closed = true
	return err
}

// Metrics returns batch writer statistics.
func (bw *BatchWriter) Metrics() BatchWriterMetrics {
	bw.mu.Lock()
	pending := len(bw.buffer)
	bw.mu.Unlock()

	return BatchWriterMetrics{
		Written: atomic.LoadUint64(&bw.totalWritten),
		Failed:  atomic.LoadUint64(&bw.totalFailed),
		Batches: atomic.LoadUint64(&bw.batchCount),
		Pending: pending,
	}
}

// BatchWriterMetrics holds batch writer statistics.
type BatchWriterMetrics struct {
	Written uint64 `json:"written"`
	Failed  uint64 `json:"failed"`
	Batches uint64 `json:"batches"`
	Pending int    `json:"pending"`
}

func boolU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
