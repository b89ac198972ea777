package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/iiw-bench/internal/dataset"
	"github.com/DjordjeVuckovic/iiw-bench/internal/judgment"
	"github.com/DjordjeVuckovic/iiw-bench/internal/prediction"
	"github.com/DjordjeVuckovic/iiw-bench/internal/reflectance"
	"github.com/DjordjeVuckovic/iiw-bench/internal/whdr"
	"github.com/DjordjeVuckovic/iiw-bench/pkg/utils"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	config     Config
	judgements judgment.Source
}

func New(cfg Config, judgements judgment.Source) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.OnError == "" {
		cfg.OnError = DefaultOnError
	}
	if cfg.Space == "" {
		cfg.Space = reflectance.SRGB
	}
	return &Runner{config: cfg, judgements: judgements}
}

func (r *Runner) RunAll(
	ctx context.Context,
	bs *spec.BenchSpec,
	loaders map[string]prediction.Loader,
) (*BenchmarkResult, error) {
	br := &BenchmarkResult{Config: r.config}

	for _, job := range bs.Jobs {
		splits := job.Splits
		if len(splits) == 0 {
			splits = bs.Dataset.Splits
		}
		ids, err := dataset.LoadIDs(bs.Dataset.SplitFile, dataset.Options{
			Splits:      splits,
			SampleEvery: bs.Dataset.SampleEvery,
			Exclude:     bs.Dataset.Exclude,
		})
		if err != nil {
			return nil, fmt.Errorf("load images for job %q: %w", job.Name, err)
		}
		ids = utils.Dedupe(ids)

		jr, err := r.RunJob(ctx, job, ids, loaders)
		if err != nil {
			return nil, fmt.Errorf("run job %q: %w", job.Name, err)
		}
		br.Jobs = append(br.Jobs, jr)
	}

	return br, nil
}

func (r *Runner) RunJob(
	ctx context.Context,
	job spec.Job,
	ids []string,
	loaders map[string]prediction.Loader,
) (*JobResult, error) {
	jobLoaders := make(map[string]prediction.Loader, len(job.Methods))
	for _, name := range job.Methods {
		l, ok := loaders[name]
		if !ok {
			return nil, fmt.Errorf("loader %q not found", name)
		}
		jobLoaders[name] = l
	}

	jr := &JobResult{
		JobName:  job.Name,
		ImageIDs: ids,
		Methods:  job.Methods,
		Results:  make(map[string]*MethodResult, len(job.Methods)),
	}

	slog.Info("Starting job", "job", job.Name, "images", len(ids), "methods", job.Methods,
		"delta", r.config.Delta, "space", r.config.Space, "workers", r.config.Workers)

	for _, name := range job.Methods {
		mr, err := r.RunMethod(ctx, jobLoaders[name], ids)
		if err != nil {
			return nil, fmt.Errorf("method %q: %w", name, err)
		}
		jr.Results[name] = mr
	}

	return jr, nil
}

// RunMethod evaluates every image for one loader. Images are scored
// concurrently; results are stored by index and folded into the running
// averages in dataset order afterwards.
func (r *Runner) RunMethod(ctx context.Context, loader prediction.Loader, ids []string) (*MethodResult, error) {
	results := make([]ImageResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)

	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := EvaluateImage(gctx, r.judgements, loader, id, r.config.Delta, r.config.Space)
			results[i] = ImageResult{
				ImageID:  id,
				Method:   loader.Name(),
				Result:   res,
				Duration: time.Since(start),
				Error:    err,
			}
			if err != nil && r.config.OnError == OnErrorAbort {
				return fmt.Errorf("image %q: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// skipped images do not cancel the group, so a cancelled run can get here
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("method %q cancelled: %w", loader.Name(), err)
	}

	mr := &MethodResult{Method: loader.Name(), Images: results}
	for i, ir := range results {
		progress := fmt.Sprintf("%d/%d", i+1, len(results))
		switch {
		case ir.Error != nil:
			mr.Failed++
			slog.Warn("Image skipped", "method", mr.Method, "image", ir.ImageID, "progress", progress, "error", ir.Error)
			continue
		case !ir.Result.Valid:
			mr.Undefined++
			slog.Info("No valid comparisons", "method", mr.Method, "image", ir.ImageID, "progress", progress)
			continue
		}

		mr.Evaluated++
		mr.Averages.Add(ir.Result)
		mean, _ := mr.Averages.Overall.Mean()
		slog.Info("Image evaluated",
			"method", mr.Method,
			"image", ir.ImageID,
			"progress", progress,
			"whdr", ir.Result.WHDR,
			"running_whdr", mean,
		)
	}

	mean, _ := mr.Averages.Overall.Mean()
	slog.Info("Method finished", "method", mr.Method, "mean_whdr", mean,
		"evaluated", mr.Evaluated, "undefined", mr.Undefined, "failed", mr.Failed)

	return mr, nil
}

// EvaluateImage loads the judgements and prediction for one image and
// scores them.
func EvaluateImage(
	ctx context.Context,
	judgements judgment.Source,
	loader prediction.Loader,
	id string,
	delta float64,
	space reflectance.ColorSpace,
) (whdr.Result, error) {
	set, err := judgements.Load(ctx, id)
	if err != nil {
		return whdr.Result{}, err
	}
	refl, err := loader.Reflectance(ctx, id, space)
	if err != nil {
		return whdr.Result{}, err
	}
	return whdr.Compute(refl, set, delta)
}
