package s3

import (
	"io"
	"log/slog"
	"testing"

	"threatsim/internal/config"
)

func TestNewClientRequiresBucket(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewClient(t.Context(), config.S3Config{Region: "us-east-1"}, logger); err == nil {
		t.Error("expected error for missing bucket")
	}
}
