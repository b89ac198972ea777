// Package prediction resolves decomposition outputs of published baselines
// into reflectance maps and display paths.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/iiw-bench/internal/apperr"
	"github.com/DjordjeVuckovic/iiw-bench/internal/reflectance"
)

var (
	ErrNotFound         = errors.New("prediction not found")
	ErrUnsupportedSpace = errors.New("unsupported color space")
)

// Loader is the capability set of one baseline. Adding a baseline means
// adding a Loader, never touching the evaluator.
type Loader interface {
	Name() string
	Reflectance(ctx context.Context, id string, space reflectance.ColorSpace) (*reflectance.Map, error)
	DisplayPaths(id string) (reflectancePath, shadingPath string)
}

const idPlaceholder = "{id}"

// PatternLoader locates files by substituting the image id into filename
// templates under a directory.
type PatternLoader struct {
	name        string
	dir         string
	reflectance string
	shading     string
	spaces      []reflectance.ColorSpace
	input       *InputLoader
}

type PatternOption func(*PatternLoader)

// WithInput resamples predictions to the resolution of the original photo.
func WithInput(in *InputLoader) PatternOption {
	return func(l *PatternLoader) { l.input = in }
}

// WithSpaces restricts the color spaces the baseline can be read in.
func WithSpaces(spaces ...reflectance.ColorSpace) PatternOption {
	return func(l *PatternLoader) { l.spaces = spaces }
}

func NewPatternLoader(name, dir, reflectanceTmpl, shadingTmpl string, opts ...PatternOption) (*PatternLoader, error) {
	if !strings.Contains(reflectanceTmpl, idPlaceholder) {
		return nil, apperr.NewValidation(fmt.Sprintf("reflectance template %q for %q lacks %s", reflectanceTmpl, name, idPlaceholder))
	}
	if shadingTmpl != "" && !strings.Contains(shadingTmpl, idPlaceholder) {
		return nil, apperr.NewValidation(fmt.Sprintf("shading template %q for %q lacks %s", shadingTmpl, name, idPlaceholder))
	}
	l := &PatternLoader{
		name:        name,
		dir:         dir,
		reflectance: reflectanceTmpl,
		shading:     shadingTmpl,
		spaces:      []reflectance.ColorSpace{reflectance.SRGB, reflectance.Linear},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *PatternLoader) Name() string { return l.name }

func (l *PatternLoader) DisplayPaths(id string) (string, string) {
	r := filepath.Join(l.dir, strings.ReplaceAll(l.reflectance, idPlaceholder, id))
	if l.shading == "" {
		return r, ""
	}
	return r, filepath.Join(l.dir, strings.ReplaceAll(l.shading, idPlaceholder, id))
}

func (l *PatternLoader) Reflectance(ctx context.Context, id string, space reflectance.ColorSpace) (*reflectance.Map, error) {
	if !slices.Contains(l.spaces, space) {
		return nil, fmt.Errorf("%s: %w %q", l.name, ErrUnsupportedSpace, space)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, _ := l.DisplayPaths(id)
	img, err := openPrediction(path)
	if err != nil {
		return nil, fmt.Errorf("%s reflectance for %q: %w", l.name, id, err)
	}

	if l.input != nil {
		rows, cols, err := l.input.Size(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s input size for %q: %w", l.name, id, err)
		}
		img = reflectance.Resample(img, rows, cols)
	}

	return reflectance.FromImage(img, space), nil
}

func openPrediction(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return reflectance.Open(path)
}
