package runner

import (
	"time"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/iiw-bench/internal/whdr"
)

type ImageResult struct {
	ImageID  string
	Method   string
	Result   whdr.Result
	Duration time.Duration
	Error    error
}

// Undefined reports an image whose comparisons were all filtered out.
func (ir ImageResult) Undefined() bool {
	return ir.Error == nil && !ir.Result.Valid
}

type MethodResult struct {
	Method    string
	Images    []ImageResult // dataset order
	Averages  metrics.WHDRAverages
	Evaluated int
	Undefined int
	Failed    int
}

// Scores lists the WHDR of every image with a defined result.
func (mr *MethodResult) Scores() []float64 {
	out := make([]float64, 0, mr.Evaluated)
	for _, ir := range mr.Images {
		if ir.Error == nil && ir.Result.Valid {
			out = append(out, ir.Result.WHDR)
		}
	}
	return out
}

type JobResult struct {
	JobName  string
	ImageIDs []string
	Methods  []string
	Results  map[string]*MethodResult // [method]
}

type BenchmarkResult struct {
	Jobs   []*JobResult
	Config Config
}

func (br *BenchmarkResult) AllMethods() []string {
	seen := make(map[string]bool)
	var names []string
	for _, jr := range br.Jobs {
		for _, name := range jr.Methods {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
