// Package redispub publishes run summaries to Redis so dashboards and other
// consumers can pick up the latest generation results without touching the
// flat files.
package redispub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"threatsim/internal/analyze"
	"threatsim/internal/config"
)

const connectTimeout = 5 * time.Second

// Publisher writes run summaries to Redis with a TTL.
type Publisher struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewPublisher connects to Redis and verifies the connection.
func NewPublisher(cfg config.RedisConfig, logger *slog.Logger) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Address, err)
	}

	return &Publisher{
		client: client,
		ttl:    cfg.TTL,
		logger: logger.With("component", "redispub"),
	}, nil
}

// PublishRunSummary stores the run summary as JSON, a per-employee suspicious
// day-count hash, and a pointer to the latest run.
func (p *Publisher) PublishRunSummary(ctx context.Context, runID uuid.UUID, summary *analyze.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("redis: marshal summary: %w", err)
	}

	keyPrefix := "threatsim:run:" + runID.String()

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+":summary", data, p.ttl)
	if len(summary.SuspiciousByEmp) > 0 {
		fields := make(map[string]interface{}, len(summary.SuspiciousByEmp))
		for id, count := range summary.SuspiciousByEmp {
			fields[id] = count
		}
		pipe.HSet(ctx, keyPrefix+":suspicious_days", fields)
		pipe.Expire(ctx, keyPrefix+":suspicious_days", p.ttl)
	}
	pipe.Set(ctx, "threatsim:latest_run", runID.String(), p.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: publish run %s: %w", runID, err)
	}

	p.logger.Info("run summary published", "run_id", runID, "ttl", p.ttl)
	return nil
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
