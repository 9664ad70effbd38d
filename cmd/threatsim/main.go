// Package main is the headless entry point for the insider-threat dataset
// generator.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"threatsim/internal/config"
	"threatsim/internal/pipeline"
)

func main() {
	var (
		configPath     = flag.String("config", "", "path to config file")
		employees      = flag.Int("employees", 0, "number of employees (overrides config)")
		days           = flag.Int("days", 0, "number of simulated days (overrides config)")
		maliciousRatio = flag.Float64("malicious-ratio", -1, "fraction of malicious employees (overrides config)")
		seed           = flag.Int64("seed", 0, "master seed; 0 derives from wall clock")
		outputDir      = flag.String("output", "", "output directory (overrides config)")
		withNoise      = flag.Bool("noise", false, "enable the post-label noise pass")
		withStorage    = flag.Bool("clickhouse", false, "enable the ClickHouse sink")
		withKafka      = flag.Bool("kafka", false, "enable the Kafka sink")
		withRedis      = flag.Bool("redis", false, "enable the Redis summary sink")
		withS3         = flag.Bool("s3", false, "enable the S3 artifact sink")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *employees > 0 {
		cfg.Simulation.NumEmployees = *employees
	}
	if *days > 0 {
		cfg.Simulation.Days = *days
	}
	if *maliciousRatio >= 0 {
		cfg.Simulation.MaliciousRatio = *maliciousRatio
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *withNoise {
		cfg.Noise.Enabled = true
	}
	if *withStorage {
		cfg.Storage.Enabled = true
	}
	if *withKafka {
		cfg.Kafka.Enabled = true
	}
	if *withRedis {
		cfg.Redis.Enabled = true
	}
	if *withS3 {
		cfg.S3.Enabled = true
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"employees", cfg.Simulation.NumEmployees,
		"days", cfg.Simulation.Days,
		"malicious_ratio", cfg.Simulation.MaliciousRatio,
		"noise_enabled", cfg.Noise.Enabled,
		"storage_enabled", cfg.Storage.Enabled,
		"kafka_enabled", cfg.Kafka.Enabled)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := pipeline.NewRunner(cfg, logger)

	start := time.Now()
	ds, summary, err := runner.Generate(ctx)
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if err := runner.Export(ctx, ds, summary); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}

	slog.Info("run complete",
		"run_id", ds.RunID,
		"seed", runner.Seed(),
		"records", summary.TotalRecords,
		"suspicious_days", summary.SuspiciousDays,
		"strict_days", summary.StrictDays,
		"soft_days", summary.SoftDays,
		"false_positive_days", summary.FalsePositiveDays,
		"elapsed", time.Since(start).Round(time.Millisecond))
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
