// Package pipeline wires the generation stages into one run: population,
// activity simulation, labeling, noise, analysis, and the export sinks.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"threatsim/internal/analyze"
	"threatsim/internal/config"
	"threatsim/internal/employee"
	"threatsim/internal/export"
	"threatsim/internal/kafka"
	"threatsim/internal/labeling"
	"threatsim/internal/noise"
	"threatsim/internal/redispub"
	"threatsim/internal/schema"
	"threatsim/internal/simulate"
	"threatsim/internal/storage"
	"threatsim/internal/storage/s3"
)

// Phase identifies a pipeline stage for progress reporting.
type Phase string

const (
	PhasePopulation Phase = "population"
	PhaseSimulation Phase = "simulation"
	PhaseLabeling   Phase = "labeling"
	PhaseNoise      Phase = "noise"
	PhaseAnalysis   Phase = "analysis"
	PhaseExport     Phase = "export"
)

// Progress is one progress tick. Total is zero for phases without a
// meaningful row count.
type Progress struct {
	Phase Phase
	Done  int
	Total int
}

// Runner executes the full generation pipeline.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger

	// OnProgress, when set, receives progress ticks from all phases.
	OnProgress func(Progress)

	seed int64
}

// NewRunner creates a pipeline runner.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Seed returns the master seed resolved for this run.
func (r *Runner) Seed() int64 {
	return r.seed
}

// Generate runs population sampling, activity simulation, labeling, and the
// optional noise pass, and returns the finished dataset with its summary.
func (r *Runner) Generate(ctx context.Context) (*schema.Dataset, *analyze.Summary, error) {
	r.seed = r.cfg.Simulation.Seed
	if r.seed == 0 {
		r.seed = time.Now().UnixNano()
	}
	r.logger.Info("run started", "seed", r.seed)

	start, err := r.cfg.StartTime()
	if err != nil {
		return nil, nil, err
	}

	r.tick(PhasePopulation, 0, r.cfg.Simulation.NumEmployees)
	profiles, err := employee.NewGenerator(r.cfg, r.logger).Generate(r.seed)
	if err != nil {
		return nil, nil, fmt.Errorf("population: %w", err)
	}
	r.tick(PhasePopulation, len(profiles), len(profiles))

	orch := simulate.NewOrchestrator(r.cfg, r.logger)
	orch.OnProgress = func(done, total int) {
		r.tick(PhaseSimulation, done, total)
	}
	records, err := orch.Run(ctx, profiles, r.seed)
	if err != nil {
		return nil, nil, fmt.Errorf("simulation: %w", err)
	}

	ds := &schema.Dataset{
		RunID:     uuid.New(),
		StartDate: start,
		Days:      r.cfg.Simulation.Days,
		Profiles:  profiles,
		Records:   records,
	}
	profileByID := ds.ProfileByID()

	if err := r.validate(ds, profileByID); err != nil {
		return nil, nil, err
	}

	r.tick(PhaseLabeling, 0, 0)
	labelSeed := r.cfg.Labels.Seed
	if labelSeed == 0 {
		labelSeed = r.seed
	}
	labels, thresholds, err := labeling.NewCreator(r.cfg.Labels, r.logger).
		CreateLabels(records, profileByID, labelSeed)
	if err != nil {
		return nil, nil, fmt.Errorf("labeling: %w", err)
	}
	ds.Labels = labels
	r.logger.Info("thresholds resolved",
		"strict", thresholds.Strict, "soft", thresholds.Soft)

	if r.cfg.Noise.Enabled {
		r.tick(PhaseNoise, 0, len(records))
		noiseSeed := r.cfg.Noise.Seed
		if noiseSeed == 0 {
			noiseSeed = r.seed
		}
		modified := noise.NewInjector(r.cfg.Noise, profileByID, r.logger).
			Inject(records, noiseSeed)
		r.tick(PhaseNoise, len(records), len(records))
		r.logger.Info("noise pass finished", "rows_modified", modified)
	}

	r.tick(PhaseAnalysis, 0, 0)
	summary := analyze.Summarize(ds)
	return ds, summary, nil
}

// validate runs every generated row through the schema validator. Any failure
// is a generator bug and aborts the run.
func (r *Runner) validate(ds *schema.Dataset, profileByID map[string]*schema.EmployeeProfile) error {
	v := schema.NewValidator()
	for _, p := range ds.Profiles {
		if err := v.ValidateProfile(p); err != nil {
			return err
		}
	}
	for _, rec := range ds.Records {
		if err := v.ValidateRecord(rec, profileByID[rec.EmployeeID]); err != nil {
			return err
		}
	}
	return nil
}

// Export writes the flat files and pushes the dataset to every enabled sink.
func (r *Runner) Export(ctx context.Context, ds *schema.Dataset, summary *analyze.Summary) error {
	r.tick(PhaseExport, 0, 0)

	activityPath, labelsPath, summaryPath, err := r.writeFiles(ds, summary)
	if err != nil {
		return err
	}

	if r.cfg.Storage.Enabled {
		if err := r.exportClickHouse(ctx, ds); err != nil {
			return err
		}
	}
	if r.cfg.Kafka.Enabled {
		if err := r.exportKafka(ctx, ds); err != nil {
			return err
		}
	}
	if r.cfg.Redis.Enabled {
		if err := r.exportRedis(ctx, ds, summary); err != nil {
			return err
		}
	}
	if r.cfg.S3.Enabled {
		if err := r.exportS3(ctx, ds, activityPath, labelsPath, summaryPath); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) writeFiles(ds *schema.Dataset, summary *analyze.Summary) (activity, labels, summaryPath string, err error) {
	dir := r.cfg.Output.Dir
	stamp := time.Now().Format("20060102_150405")
	prefix := r.cfg.Output.FilenamePrefix + "_" + stamp

	activity = filepath.Join(dir, prefix+"_activity.csv")
	labels = filepath.Join(dir, prefix+"_labels.csv")
	summaryPath = filepath.Join(dir, prefix+"_summary.json")

	profileByID := ds.ProfileByID()
	if err = export.WriteActivity(activity, ds.Records, profileByID); err != nil {
		return "", "", "", fmt.Errorf("export activity: %w", err)
	}
	if err = export.WriteLabels(labels, ds.Labels); err != nil {
		return "", "", "", fmt.Errorf("export labels: %w", err)
	}

	if summary.ModifiedRows > 0 {
		modPath := filepath.Join(dir, prefix+"_modifications.csv")
		if err = export.WriteModificationLog(modPath, ds.Records); err != nil {
			return "", "", "", fmt.Errorf("export modification log: %w", err)
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", "", "", fmt.Errorf("marshal summary: %w", err)
	}
	if err = os.WriteFile(summaryPath, data, 0o644); err != nil {
		return "", "", "", fmt.Errorf("write summary: %w", err)
	}

	r.logger.Info("flat files written", "dir", dir,
		"activity_rows", len(ds.Records), "label_rows", len(ds.Labels))
	return activity, labels, summaryPath, nil
}

func (r *Runner) exportClickHouse(ctx context.Context, ds *schema.Dataset) error {
	client, err := storage.NewClickHouseClient(r.cfg.Storage.ClickHouse)
	if err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}
	defer client.Close()

	if err := storage.NewMigrator(client).Run(ctx); err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}

	bw := storage.NewBatchWriter(client, r.cfg.Storage.BatchWriter, ds.RunID, ds.ProfileByID())
	for _, rec := range ds.Records {
		if err := bw.Write(rec); err != nil {
			bw.Close()
			return fmt.Errorf("clickhouse: %w", err)
		}
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}

	if err := client.InsertLabels(ctx, ds.RunID, ds.Labels); err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}

	m := bw.Metrics()
	r.logger.Info("clickhouse export finished",
		"rows_written", m.Written, "batches", m.Batches)
	return nil
}

func (r *Runner) exportKafka(ctx context.Context, ds *schema.Dataset) error {
	producer, err := kafka.NewProducer(r.cfg.Kafka, r.logger)
	if err != nil {
		return err
	}
	defer producer.Close()
	return producer.StreamDataset(ctx, ds)
}

func (r *Runner) exportRedis(ctx context.Context, ds *schema.Dataset, summary *analyze.Summary) error {
	pub, err := redispub.NewPublisher(r.cfg.Redis, r.logger)
	if err != nil {
		return err
	}
	defer pub.Close()
	return pub.PublishRunSummary(ctx, ds.RunID, summary)
}

func (r *Runner) exportS3(ctx context.Context, ds *schema.Dataset, paths ...string) error {
	client, err := s3.NewClient(ctx, r.cfg.S3, r.logger)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := client.UploadFile(ctx, ds.RunID, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) tick(phase Phase, done, total int) {
	if r.OnProgress != nil {
		r.OnProgress(Progress{Phase: phase, Done: done, Total: total})
	}
}
