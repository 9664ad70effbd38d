package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"threatsim/internal/config"
	"threatsim/internal/schema"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewProducerValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.KafkaConfig
	}{
		{"no brokers", config.KafkaConfig{Topic: "activity"}},
		{"no topic", config.KafkaConfig{Brokers: []string{"localhost:9092"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProducer(tt.cfg, testLogger()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestProducerClosed(t *testing.T) {
	cfg := config.KafkaConfig{
		Brokers:   []string{"localhost:9092"},
		Topic:     "activity",
		BatchSize: 100,
	}
	p, err := NewProducer(cfg, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}

	ds := &schema.Dataset{Records: []*schema.DailyRecord{{EmployeeID: "A", Date: time.Now()}}}
	if err := p.StreamDataset(t.Context(), ds); err != ErrProducerClosed {
		t.Errorf("StreamDataset after Close = %v, want ErrProducerClosed", err)
	}
}

func TestRecordEnvelopeShape(t *testing.T) {
	rec := &schema.DailyRecord{EmployeeID: "EMP-001", Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	env := recordEnvelope{
		RunID:  uuid.New(),
		Record: rec,
		Label: &schema.DailyLabel{
			EmployeeID: "EMP-001",
			Date:       rec.Date,
			Tier:       schema.TierStrict,
		},
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"run_id", "record", "label"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("envelope missing %q", key)
		}
	}

	// Labels are optional; rows without one omit the field entirely.
	noLabel, err := json.Marshal(recordEnvelope{RunID: env.RunID, Record: rec})
	if err != nil {
		t.Fatal(err)
	}
	decoded = map[string]json.RawMessage{}
	if err := json.Unmarshal(noLabel, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["label"]; ok {
		t.Error("nil label serialized")
	}
}
