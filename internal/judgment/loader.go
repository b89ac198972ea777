package judgment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Source interface {
	Load(ctx context.Context, id string) (*Set, error)
}

// FileSource reads IIW judgement files laid out as <Dir>/<id>.json.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

func (s *FileSource) Load(ctx context.Context, id string) (*Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		return nil, fmt.Errorf("read judgements for %q: %w", id, err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("judgements for %q: %w", id, err)
	}
	return set, nil
}

type rawFile struct {
	Points      []rawPoint      `json:"intrinsic_points"`
	Comparisons []rawComparison `json:"intrinsic_comparisons"`
}

type rawPoint struct {
	ID     *int    `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Opaque bool    `json:"opaque"`
}

type rawComparison struct {
	Point1      int      `json:"point1"`
	Point2      int      `json:"point2"`
	Darker      *string  `json:"darker"`
	DarkerScore *float64 `json:"darker_score"`
}

// Parse decodes an IIW judgement record. Comparisons are kept as-is,
// including those that will later be filtered; only structural problems
// are reported here.
func Parse(data []byte) (*Set, error) {
	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw.Points == nil && raw.Comparisons == nil {
		return nil, fmt.Errorf("%w: neither intrinsic_points nor intrinsic_comparisons", ErrMalformed)
	}

	set := &Set{
		Points:      make(map[int]Point, len(raw.Points)),
		Comparisons: make([]Comparison, 0, len(raw.Comparisons)),
	}
	for i, p := range raw.Points {
		if p.ID == nil {
			return nil, fmt.Errorf("%w: point at index %d has no id", ErrMalformed, i)
		}
		if _, dup := set.Points[*p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate point id %d", ErrMalformed, *p.ID)
		}
		set.Points[*p.ID] = Point{ID: *p.ID, X: p.X, Y: p.Y, Opaque: p.Opaque}
	}
	for _, c := range raw.Comparisons {
		cmp := Comparison{
			Point1: c.Point1,
			Point2: c.Point2,
			Weight: c.DarkerScore,
		}
		if c.Darker != nil {
			cmp.Darker = Darker(*c.Darker)
		}
		set.Comparisons = append(set.Comparisons, cmp)
	}
	return set, nil
}
