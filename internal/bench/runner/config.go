package runner

import (
	"fmt"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/iiw-bench/internal/reflectance"
	"github.com/DjordjeVuckovic/iiw-bench/internal/whdr"
)

// OnError decides what a failed image does to the batch.
type OnError string

const (
	// OnErrorAbort stops the whole batch at the first failed image.
	OnErrorAbort OnError = "abort"
	// OnErrorSkip records the failure on the image and carries on.
	OnErrorSkip OnError = "skip"
)

func ParseOnError(s string) (OnError, error) {
	switch OnError(s) {
	case OnErrorAbort, OnErrorSkip:
		return OnError(s), nil
	case "":
		return DefaultOnError, nil
	default:
		return "", fmt.Errorf("invalid on-error policy %q (want abort or skip)", s)
	}
}

const (
	DefaultWorkers = 1
	DefaultOnError = OnErrorAbort
)

type Config struct {
	Delta   float64
	Space   reflectance.ColorSpace
	Workers int
	OnError OnError
}

func DefaultConfig() Config {
	return Config{
		Delta:   whdr.DefaultDelta,
		Space:   reflectance.SRGB,
		Workers: DefaultWorkers,
		OnError: DefaultOnError,
	}
}

// ConfigFromSpec takes the metric and run settings of a parsed bench spec.
func ConfigFromSpec(bs *spec.BenchSpec) (Config, error) {
	space, err := reflectance.ParseColorSpace(bs.Metrics.ColorSpace)
	if err != nil {
		return Config{}, err
	}
	onErr, err := ParseOnError(bs.Runs.OnError)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Delta:   bs.Metrics.DeltaOrDefault(),
		Space:   space,
		Workers: max(bs.Runs.Workers, 1),
		OnError: onErr,
	}, nil
}
