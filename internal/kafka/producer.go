// Package kafka streams generated activity records to a Kafka topic, one
// JSON message per (employee, day) row keyed by employee ID.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"threatsim/internal/config"
	"threatsim/internal/schema"
)

// ErrProducerClosed is returned when producing after Close.
var ErrProducerClosed = fmt.Errorf("kafka: producer is closed")

// recordEnvelope is the wire format for one streamed row.
type recordEnvelope struct {
	RunID  uuid.UUID           `json:"run_id"`
	Record *schema.DailyRecord `json:"record"`
	Label  *schema.DailyLabel  `json:"label,omitempty"`
}

// Producer streams dataset rows to Kafka.
type Producer struct {
	writer *kafka.Writer
	config config.KafkaConfig
	logger *slog.Logger
	closed atomic.Bool

	messagesProduced atomic.Int64
	bytesProduced    atomic.Int64
	produceErrors    atomic.Int64
}

// NewProducer creates a Kafka producer.
func NewProducer(cfg config.KafkaConfig, logger *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		MaxAttempts:  cfg.MaxRetries,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(msg, args...), "component", "kafka-writer")
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...), "component", "kafka-writer")
		}),
	}

	logger.Info("kafka producer initialized",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
		"batch_size", cfg.BatchSize)

	return &Producer{
		writer: writer,
		config: cfg,
		logger: logger,
	}, nil
}

// StreamDataset streams every activity row with its label attached. Rows are
// batched by the underlying writer; the employee ID key keeps one employee's
// timeline on one partition.
func (p *Producer) StreamDataset(ctx context.Context, ds *schema.Dataset) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	labelByKey := make(map[string]*schema.DailyLabel, len(ds.Labels))
	for _, l := range ds.Labels {
		labelByKey[l.EmployeeID+"/"+l.Date.Format("2006-01-02")] = l
	}

	messages := make([]kafka.Message, 0, p.config.BatchSize)
	for _, rec := range ds.Records {
		env := recordEnvelope{
			RunID:  ds.RunID,
			Record: rec,
			Label:  labelByKey[rec.EmployeeID+"/"+rec.Date.Format("2006-01-02")],
		}
		value, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("kafka: marshal record: %w", err)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(rec.EmployeeID),
			Value: value,
			Time:  time.Now(),
		})

		if len(messages) >= p.config.BatchSize {
			if err := p.produce(ctx, messages); err != nil {
				return err
			}
			messages = messages[:0]
		}
	}

	if len(messages) > 0 {
		if err := p.produce(ctx, messages); err != nil {
			return err
		}
	}

	p.logger.Info("dataset streamed",
		"topic", p.config.Topic,
		"messages", p.messagesProduced.Load())
	return nil
}

func (p *Producer) produce(ctx context.Context, messages []kafka.Message) error {
	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		p.produceErrors.Add(1)
		return fmt.Errorf("kafka: write messages: %w", err)
	}
	for _, msg := range messages {
		p.messagesProduced.Add(1)
		p.bytesProduced.Add(int64(len(msg.Value) + len(msg.Key)))
	}
	return nil
}

// Metrics returns producer counters.
func (p *Producer) Metrics() (messages, bytes, errs int64) {
	return p.messagesProduced.Load(), p.bytesProduced.Load(), p.produceErrors.Load()
}

// Close flushes buffered messages and closes the writer.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}

	p.logger.Info("closing kafka producer",
		"messages_produced", p.messagesProduced.Load(),
		"bytes_produced", p.bytesProduced.Load())

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("kafka: failed to close producer: %w", err)
	}
	return nil
}
