package report

import (
	"time"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/runner"
	"github.com/google/uuid"
)

func Generate(br *runner.BenchmarkResult) *Report {
	r := &Report{
		Meta: BenchMeta{
			RunID:       uuid.NewString(),
			Timestamp:   time.Now().UTC(),
			Environment: NewEnvironmentInfo(),
		},
		Config: ReportConfig{
			Delta:      br.Config.Delta,
			ColorSpace: string(br.Config.Space),
			Workers:    br.Config.Workers,
			OnError:    string(br.Config.OnError),
		},
	}

	for _, jr := range br.Jobs {
		job := JobReport{
			JobName:    jr.JobName,
			ImageCount: len(jr.ImageIDs),
		}
		for _, name := range jr.Methods {
			mr := jr.Results[name]
			if mr == nil {
				continue
			}
			job.Aggregated = append(job.Aggregated, aggregate(mr))
			for _, ir := range mr.Images {
				job.PerImage = append(job.PerImage, entry(ir))
			}
		}
		r.Jobs = append(r.Jobs, job)
	}

	return r
}

func aggregate(mr *runner.MethodResult) AggregatedEntry {
	return AggregatedEntry{
		MethodName: mr.Method,
		WHDR:       mean(mr.Averages.Overall),
		Equal:      mean(mr.Averages.Equal),
		Inequal:    mean(mr.Averages.Inequal),
		Evaluated:  mr.Evaluated,
		Undefined:  mr.Undefined,
		Failed:     mr.Failed,
		Summary:    metrics.Summarize(mr.Scores()),
	}
}

func entry(ir runner.ImageResult) Entry {
	e := Entry{
		ImageID:     ir.ImageID,
		MethodName:  ir.Method,
		Comparisons: ir.Result.Comparisons,
		Duration:    ir.Duration,
	}
	if ir.Error != nil {
		e.Error = ir.Error.Error()
		return e
	}
	if ir.Result.Valid {
		e.WHDR = ptr(ir.Result.WHDR)
	}
	if ir.Result.EqualValid {
		e.Equal = ptr(ir.Result.Equal)
	}
	if ir.Result.InequalValid {
		e.Inequal = ptr(ir.Result.Inequal)
	}
	return e
}

func mean(ra metrics.RunningAverage) *float64 {
	m, ok := ra.Mean()
	if !ok {
		return nil
	}
	return &m
}

func ptr(v float64) *float64 { return &v }
