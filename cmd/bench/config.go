package main

import (
	"flag"
	"fmt"
	"slices"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/spec"
)

type cliConfig struct {
	SpecPath  string
	Mode      string
	Delta     float64
	Method    string
	Space     string
	Workers   int
	OnError   string
	Output    string
	PlotsDir  string
	PgConnStr string

	// quick mode
	SplitFile     string
	JudgementsDir string
	ImagesDir     string
	PredDir       string
	PredType      string
	ExportDir     string

	set map[string]bool
}

func parseFlags(args []string) (cliConfig, error) {
	cfg := cliConfig{}
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)

	fs.StringVar(&cfg.SpecPath, "spec", "", "Path to bench spec YAML (multi-job mode)")
	fs.StringVar(&cfg.Mode, "mode", "eval", "Run mode: eval or export")
	fs.Float64Var(&cfg.Delta, "delta", spec.DefaultDelta, "Relative luminance threshold for equal lightness")
	fs.StringVar(&cfg.Method, "method", "", "Evaluate only this method")
	fs.StringVar(&cfg.Space, "space", spec.DefaultColorSpace, "Color space of predictions: srgb or linear")
	fs.IntVar(&cfg.Workers, "workers", spec.DefaultWorkers, "Images evaluated concurrently")
	fs.StringVar(&cfg.OnError, "on-error", spec.DefaultOnError, "Per-image failure policy: abort or skip")
	fs.StringVar(&cfg.Output, "output", "", "Output path for the JSON report")
	fs.StringVar(&cfg.PlotsDir, "plots", "", "Directory for per-method WHDR histograms")
	fs.StringVar(&cfg.PgConnStr, "pg", "", "PostgreSQL connection string for storing results")

	fs.StringVar(&cfg.SplitFile, "split", "", "Split file (quick mode)")
	fs.StringVar(&cfg.JudgementsDir, "judgements", "", "Directory of IIW judgement JSON files (quick mode)")
	fs.StringVar(&cfg.ImagesDir, "images", "", "Directory of input photos, defaults to -judgements (quick mode)")
	fs.StringVar(&cfg.PredDir, "pred-dir", "", "Prediction directory (quick mode)")
	fs.StringVar(&cfg.PredType, "pred-type", "iiw", "Prediction layout: iiw or crefnet (quick mode)")
	fs.StringVar(&cfg.ExportDir, "export-dir", "", "Output directory for export mode")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}

	cfg.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })

	if cfg.Mode != "eval" && cfg.Mode != "export" {
		return cliConfig{}, fmt.Errorf("unknown mode %q (want eval or export)", cfg.Mode)
	}
	return cfg, nil
}

// loadSpec reads -spec or, without one, assembles a single-job spec from
// the quick mode flags. Explicit flags override the file.
func (c cliConfig) loadSpec() (*spec.BenchSpec, error) {
	var bs *spec.BenchSpec
	if c.SpecPath != "" {
		var err error
		if bs, err = spec.LoadFromFile(c.SpecPath); err != nil {
			return nil, err
		}
	} else {
		bs = c.quickSpec()
	}

	if err := c.applyOverrides(bs); err != nil {
		return nil, err
	}
	if err := bs.Validate(); err != nil {
		return nil, err
	}
	return bs, nil
}

func (c cliConfig) quickSpec() *spec.BenchSpec {
	name := c.PredType
	return &spec.BenchSpec{
		Dataset: spec.DatasetConfig{
			JudgementsDir: c.JudgementsDir,
			ImagesDir:     c.ImagesDir,
			SplitFile:     c.SplitFile,
		},
		Methods: map[string]spec.Method{
			name: {Type: c.PredType, Dir: c.PredDir},
		},
		Jobs: []spec.Job{{Name: "quick", Methods: []string{name}}},
	}
}

func (c cliConfig) applyOverrides(bs *spec.BenchSpec) error {
	if c.SpecPath == "" || c.set["delta"] {
		d := c.Delta
		bs.Metrics.Delta = &d
	}
	if c.SpecPath == "" || c.set["space"] {
		bs.Metrics.ColorSpace = c.Space
	}
	if c.SpecPath == "" || c.set["workers"] {
		bs.Runs.Workers = c.Workers
	}
	if c.SpecPath == "" || c.set["on-error"] {
		bs.Runs.OnError = c.OnError
	}
	if c.PgConnStr != "" {
		bs.Storage.Postgres = c.PgConnStr
	}
	if c.ExportDir != "" {
		bs.Export.OutputDir = c.ExportDir
	}

	if c.Method == "" {
		return nil
	}
	if _, ok := bs.Methods[c.Method]; !ok {
		return fmt.Errorf("method %q is not configured", c.Method)
	}
	jobs := bs.Jobs[:0]
	for _, j := range bs.Jobs {
		if slices.Contains(j.Methods, c.Method) {
			j.Methods = []string{c.Method}
			jobs = append(jobs, j)
		}
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no job evaluates method %q", c.Method)
	}
	bs.Jobs = jobs
	return nil
}
