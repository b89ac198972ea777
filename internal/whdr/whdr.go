// Package whdr computes the Weighted Human Disagreement Rate of a
// reflectance prediction against IIW pairwise lightness judgements.
package whdr

import (
	"errors"
	"fmt"
	"math"

	"github.com/DjordjeVuckovic/iiw-bench/internal/apperr"
	"github.com/DjordjeVuckovic/iiw-bench/internal/judgment"
)

const (
	DefaultDelta = 0.10
	// Epsilon floors luminance values and guards the stratified quotients.
	Epsilon = 1e-10
)

// Reflectance is the dense layer being evaluated. MeanAt returns the
// channel mean of the pixel at (row, col).
type Reflectance interface {
	Dims() (rows, cols int)
	MeanAt(row, col int) float64
}

// Result is the outcome for a single image. When Valid is false no
// comparison survived filtering and WHDR is undefined.
type Result struct {
	WHDR         float64 `json:"whdr"`
	Equal        float64 `json:"whdr_equal"`
	Inequal      float64 `json:"whdr_inequal"`
	Valid        bool    `json:"valid"`
	EqualValid   bool    `json:"equal_valid"`
	InequalValid bool    `json:"inequal_valid"`
	Comparisons  int     `json:"comparisons"`
	Sums         Sums    `json:"sums"`
}

// Compute evaluates every surviving comparison of set against r.
func Compute(r Reflectance, set *judgment.Set, delta float64) (Result, error) {
	if delta < 0 || math.IsNaN(delta) {
		return Result{}, apperr.NewValidation(fmt.Sprintf("delta must be non-negative, got %v", delta))
	}

	var acc Accumulator
	for i, c := range set.Comparisons {
		if c.Skippable() {
			continue
		}

		p1, err := set.Point(c.Point1)
		if err != nil {
			return Result{}, fmt.Errorf("comparison %d: %w", i, err)
		}
		p2, err := set.Point(c.Point2)
		if err != nil {
			return Result{}, fmt.Errorf("comparison %d: %w", i, err)
		}
		if !p1.Opaque || !p2.Opaque {
			continue
		}

		l1, err := Luminance(r, p1)
		if err != nil {
			return Result{}, fmt.Errorf("comparison %d: %w", i, err)
		}
		l2, err := Luminance(r, p2)
		if err != nil {
			return Result{}, fmt.Errorf("comparison %d: %w", i, err)
		}

		acc.Add(c.Darker, Classify(l1, l2, delta), *c.Weight)
	}

	return acc.Result(), nil
}

// Classify turns a luminance pair into the verdict the algorithm implies.
// The branches are ordered; the first ratio above 1+delta wins.
func Classify(l1, l2, delta float64) judgment.Darker {
	if l2/l1 > 1.0+delta {
		return judgment.Point1Darker
	} else if l1/l2 > 1.0+delta {
		return judgment.Point2Darker
	}
	return judgment.Equal
}

// ErrOutOfBounds marks a point whose coordinates fall outside the map.
var ErrOutOfBounds = errors.New("point outside reflectance")

// Luminance samples r at the pixel addressed by p's normalized coordinates.
func Luminance(r Reflectance, p judgment.Point) (float64, error) {
	rows, cols := r.Dims()
	row := int(math.Floor(p.Y * float64(rows)))
	col := int(math.Floor(p.X * float64(cols)))
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return 0, fmt.Errorf("point %d at (%v, %v) maps to pixel (%d, %d) of %dx%d: %w",
			p.ID, p.X, p.Y, row, col, rows, cols, ErrOutOfBounds)
	}
	return math.Max(Epsilon, r.MeanAt(row, col)), nil
}
