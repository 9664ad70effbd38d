package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"threatsim/internal/schema"
)

// InsertLabels inserts the full label table for one run in a single batch.
func (c *ClickHouseClient) InsertLabels(ctx context.Context, runID uuid.UUID, labels []*schema.DailyLabel) error {
	batch, err := c.PrepareBatch(ctx, `
		INSERT INTO daily_labels (
			run_id, employee_id, date, day_suspicious,
			detection_tier, is_false_positive, suspicion_score
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare label batch: %w", err)
	}

	for _, l := range labels {
		err := batch.Append(
			runID,
			l.EmployeeID,
			l.Date,
			boolU8(l.DaySuspicious),
			string(l.Tier),
			boolU8(l.IsFalsePositive),
			l.Score,
		)
		if err != nil {
			return fmt.Errorf("failed to append label: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send label batch: %w", err)
	}
	return nil
}
