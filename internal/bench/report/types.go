package report

import (
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/metrics"
)

type Report struct {
	Meta   BenchMeta    `json:"meta"`
	Jobs   []JobReport  `json:"jobs"`
	Config ReportConfig `json:"config"`
}

type BenchMeta struct {
	RunID       string          `json:"run_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type ReportConfig struct {
	Delta      float64 `json:"delta"`
	ColorSpace string  `json:"color_space"`
	Workers    int     `json:"workers"`
	OnError    string  `json:"on_error"`
}

type JobReport struct {
	JobName    string            `json:"job_name"`
	ImageCount int               `json:"image_count"`
	Aggregated []AggregatedEntry `json:"aggregated"`
	PerImage   []Entry           `json:"per_image"`
}

// Entry is one image scored by one method. Pointer scores are nil when
// the value is undefined for that image.
type Entry struct {
	ImageID     string        `json:"image_id"`
	MethodName  string        `json:"method"`
	WHDR        *float64      `json:"whdr"`
	Equal       *float64      `json:"equal,omitempty"`
	Inequal     *float64      `json:"inequal,omitempty"`
	Comparisons int           `json:"comparisons"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

func (e Entry) Status() string {
	switch {
	case e.Error != "":
		return "ERR"
	case e.WHDR == nil:
		return "UNDEF"
	default:
		return "OK"
	}
}

type AggregatedEntry struct {
	MethodName string          `json:"method"`
	WHDR       *float64        `json:"whdr"`
	Equal      *float64        `json:"equal"`
	Inequal    *float64        `json:"inequal"`
	Evaluated  int             `json:"evaluated"`
	Undefined  int             `json:"undefined"`
	Failed     int             `json:"failed"`
	Summary    metrics.Summary `json:"summary"`
}
