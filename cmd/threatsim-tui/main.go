// Package main runs the dataset generator under a terminal progress view.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"threatsim/internal/config"
	"threatsim/internal/pipeline"
	"threatsim/internal/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		employees  = flag.Int("employees", 0, "number of employees (overrides config)")
		days       = flag.Int("days", 0, "number of simulated days (overrides config)")
		seed       = flag.Int64("seed", 0, "master seed; 0 derives from wall clock")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if *employees > 0 {
		cfg.Simulation.NumEmployees = *employees
	}
	if *days > 0 {
		cfg.Simulation.Days = *days
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}

	// The alternate screen owns stdout, so pipeline logs are discarded here.
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := pipeline.NewRunner(cfg, logger)
	if err := tui.Run(ctx, runner); err != nil {
		fmt.Fprintln(os.Stderr, "tui error:", err)
		os.Exit(1)
	}
}
