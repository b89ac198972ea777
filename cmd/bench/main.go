package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/export"
	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/iiw-bench/internal/dataset"
	"github.com/DjordjeVuckovic/iiw-bench/internal/judgment"
	"github.com/DjordjeVuckovic/iiw-bench/internal/prediction"
	"github.com/DjordjeVuckovic/iiw-bench/internal/storage/pg"
	"github.com/DjordjeVuckovic/iiw-bench/pkg/config/env"
	"github.com/DjordjeVuckovic/iiw-bench/pkg/utils"
)

func main() {
	slog.SetLogLoggerLevel(env.LogLevel())

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("Invalid arguments", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bs, err := cfg.loadSpec()
	if err != nil {
		slog.Error("Failed to load spec", "path", cfg.SpecPath, "error", err)
		os.Exit(1)
	}

	input := prediction.NewInputLoader(bs.Dataset.ImagesDir, bs.Dataset.ImageExt)
	loaders, err := prediction.NewFromSpec(bs.Methods, input)
	if err != nil {
		slog.Error("Failed to create prediction loaders", "error", err)
		os.Exit(1)
	}

	switch cfg.Mode {
	case "eval":
		err = runEval(ctx, cfg, bs, loaders)
	case "export":
		err = runExport(ctx, bs, loaders, input)
	}
	if err != nil {
		slog.Error("Run failed", "mode", cfg.Mode, "error", err)
		os.Exit(1)
	}
}

func runEval(ctx context.Context, cfg cliConfig, bs *spec.BenchSpec, loaders map[string]prediction.Loader) error {
	runCfg, err := runner.ConfigFromSpec(bs)
	if err != nil {
		return err
	}

	r := runner.New(runCfg, judgment.NewFileSource(bs.Dataset.JudgementsDir))
	result, err := r.RunAll(ctx, bs, loaders)
	if err != nil {
		return fmt.Errorf("benchmark: %w", err)
	}

	return outputReport(ctx, result, cfg, bs.Storage.Postgres)
}

func outputReport(ctx context.Context, result *runner.BenchmarkResult, cfg cliConfig, pgConnStr string) error {
	rpt := report.Generate(result)
	report.WriteTable(rpt, os.Stdout)

	if cfg.Output != "" {
		if err := report.WriteJSON(rpt, cfg.Output); err != nil {
			return err
		}
		slog.Info("Report written", "path", cfg.Output)
	}

	if cfg.PlotsDir != "" {
		files, err := report.WriteHistograms(rpt, cfg.PlotsDir)
		if err != nil {
			return err
		}
		slog.Info("Histograms written", "dir", cfg.PlotsDir, "files", len(files))
	}

	if pgConnStr != "" {
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: pgConnStr})
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pg.NewResultStore(pool).SaveReport(ctx, rpt); err != nil {
			return fmt.Errorf("store report: %w", err)
		}
	}
	return nil
}

func runExport(
	ctx context.Context,
	bs *spec.BenchSpec,
	loaders map[string]prediction.Loader,
	input *prediction.InputLoader,
) error {
	if bs.Export.OutputDir == "" {
		return errors.New("export mode requires export.output_dir or -export-dir")
	}

	var ids, names []string
	for _, job := range bs.Jobs {
		splits := job.Splits
		if len(splits) == 0 {
			splits = bs.Dataset.Splits
		}
		jobIDs, err := dataset.LoadIDs(bs.Dataset.SplitFile, dataset.Options{
			Splits:      splits,
			SampleEvery: bs.Dataset.SampleEvery,
			Exclude:     bs.Dataset.Exclude,
		})
		if err != nil {
			return fmt.Errorf("load images for job %q: %w", job.Name, err)
		}
		ids = append(ids, jobIDs...)
		names = append(names, job.Methods...)
	}
	ids = utils.Dedupe(ids)
	names = utils.Dedupe(names)

	methods := make([]export.Method, 0, len(names))
	for _, name := range names {
		title := bs.Methods[name].Title
		if title == "" {
			title = name
		}
		methods = append(methods, export.Method{Title: title, Loader: loaders[name]})
	}

	slog.Info("Exporting images", "images", len(ids), "methods", names, "dir", bs.Export.OutputDir)

	copier := &export.Copier{
		OutputDir:    bs.Export.OutputDir,
		RelDir:       bs.Export.RelDir,
		Quality:      bs.Export.Quality,
		SkipExisting: bs.Export.SkipExisting,
	}
	tasks := export.Plan(ids, methods, input, bs.Export.InputQuality)
	copied, err := copier.Run(ctx, tasks, bs.Runs.Workers)
	if err != nil {
		return err
	}

	m, err := export.BuildManifest(bs.Export.RelDir, methods, tasks, copied)
	if err != nil {
		return err
	}
	path := bs.Export.Manifest
	if path == "" {
		path = filepath.Join(bs.Export.OutputDir, "manifest.yaml")
	}
	if err := export.WriteManifest(m, path); err != nil {
		return err
	}
	slog.Info("Manifest written", "path", path, "images", len(m.Images))
	return nil
}
