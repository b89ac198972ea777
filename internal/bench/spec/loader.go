package spec

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDelta        = 0.10
	DefaultColorSpace   = "srgb"
	DefaultWorkers      = 1
	DefaultOnError      = "abort"
	DefaultQuality      = 95
	DefaultInputQuality = 90
	DefaultImageExt     = "png"
)

func LoadFromFile(path string) (*BenchSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*BenchSpec, error) {
	var s BenchSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

var validMethodTypes = map[string]bool{
	"iiw":     true,
	"crefnet": true,
	"pattern": true,
}

var validOnError = map[string]bool{
	"abort": true,
	"skip":  true,
}

var validColorSpaces = map[string]bool{
	"srgb":   true,
	"linear": true,
}

func validate(s *BenchSpec) error {
	if len(s.Jobs) == 0 {
		return fmt.Errorf("spec has no jobs")
	}
	if len(s.Methods) == 0 {
		return fmt.Errorf("spec has no methods")
	}
	if s.Dataset.JudgementsDir == "" {
		return fmt.Errorf("dataset has no judgements_dir")
	}
	if s.Dataset.SplitFile == "" {
		return fmt.Errorf("dataset has no split_file")
	}
	for i, j := range s.Jobs {
		if j.Name == "" {
			return fmt.Errorf("job at index %d has no name", i)
		}
		if len(j.Methods) == 0 {
			return fmt.Errorf("job %q has no methods", j.Name)
		}
		for _, ref := range j.Methods {
			if _, ok := s.Methods[ref]; !ok {
				return fmt.Errorf("job %q references unknown method %q", j.Name, ref)
			}
		}
	}
	for name, m := range s.Methods {
		if m.Type == "" {
			return fmt.Errorf("method %q has no type", name)
		}
		if !validMethodTypes[m.Type] {
			return fmt.Errorf("method %q has invalid type %q", name, m.Type)
		}
		if m.Dir == "" {
			return fmt.Errorf("method %q has no dir", name)
		}
		if m.Type == "pattern" && m.Reflectance == "" {
			return fmt.Errorf("method %q of type pattern has no reflectance template", name)
		}
		for _, sp := range m.Spaces {
			if !validColorSpaces[sp] {
				return fmt.Errorf("method %q lists invalid color space %q", name, sp)
			}
		}
	}

	if s.Metrics.Delta == nil {
		d := DefaultDelta
		s.Metrics.Delta = &d
	} else if d := *s.Metrics.Delta; d < 0 || math.IsNaN(d) {
		return fmt.Errorf("metrics delta must be a non-negative number, got %v", d)
	}
	if s.Metrics.ColorSpace == "" {
		s.Metrics.ColorSpace = DefaultColorSpace
	} else if !validColorSpaces[s.Metrics.ColorSpace] {
		return fmt.Errorf("metrics has invalid color_space %q", s.Metrics.ColorSpace)
	}
	if s.Runs.Workers <= 0 {
		s.Runs.Workers = DefaultWorkers
	}
	if s.Runs.OnError == "" {
		s.Runs.OnError = DefaultOnError
	} else if !validOnError[s.Runs.OnError] {
		return fmt.Errorf("runs has invalid on_error %q", s.Runs.OnError)
	}
	if s.Dataset.SampleEvery <= 0 {
		s.Dataset.SampleEvery = 1
	}
	if s.Dataset.ImageExt == "" {
		s.Dataset.ImageExt = DefaultImageExt
	}
	if s.Dataset.ImagesDir == "" {
		s.Dataset.ImagesDir = s.Dataset.JudgementsDir
	}
	if s.Export.Quality <= 0 {
		s.Export.Quality = DefaultQuality
	}
	if s.Export.InputQuality <= 0 {
		s.Export.InputQuality = DefaultInputQuality
	}
	if s.Export.Quality > 100 || s.Export.InputQuality > 100 {
		return fmt.Errorf("export quality must be at most 100")
	}
	if s.Export.RelDir == "" {
		s.Export.RelDir = "images"
	}
	return nil
}

// Validate checks a spec built in code and fills in the same defaults
// Parse does.
func (s *BenchSpec) Validate() error {
	return validate(s)
}
