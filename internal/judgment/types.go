package judgment

import (
	"errors"
	"fmt"
)

// Darker is a human (or algorithm) lightness verdict for a point pair.
type Darker string

const (
	Point1Darker Darker = "1"
	Point2Darker Darker = "2"
	Equal        Darker = "E"
)

// Valid reports whether d is one of the three accepted verdicts.
func (d Darker) Valid() bool {
	switch d {
	case Point1Darker, Point2Darker, Equal:
		return true
	default:
		return false
	}
}

var (
	ErrUnknownPoint = errors.New("unknown point")
	ErrMalformed    = errors.New("malformed judgement record")
)

// Point is an annotated location in normalized image coordinates.
type Point struct {
	ID     int
	X      float64
	Y      float64
	Opaque bool
}

// Comparison is one pairwise human judgement. A nil Weight means the
// annotators produced no confidence score.
type Comparison struct {
	Point1 int
	Point2 int
	Darker Darker
	Weight *float64
}

// Set holds every point and comparison annotated for a single image.
type Set struct {
	Points      map[int]Point
	Comparisons []Comparison
}

type Stats struct {
	Points       int `json:"points"`
	OpaquePoints int `json:"opaque_points"`
	Comparisons  int `json:"comparisons"`
}

func (s *Set) Point(id int) (Point, error) {
	p, ok := s.Points[id]
	if !ok {
		return Point{}, fmt.Errorf("point %d: %w", id, ErrUnknownPoint)
	}
	return p, nil
}

func (s *Set) Stats() Stats {
	st := Stats{Points: len(s.Points), Comparisons: len(s.Comparisons)}
	for _, p := range s.Points {
		if p.Opaque {
			st.OpaquePoints++
		}
	}
	return st
}

// Skippable reports whether a comparison is filtered out before scoring.
// It only inspects fields of the comparison itself; opacity is checked
// once the points have been resolved.
func (c Comparison) Skippable() bool {
	if !c.Darker.Valid() {
		return true
	}
	return c.Weight == nil || *c.Weight <= 0
}
