package judgment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{
  "intrinsic_points": [
    {"id": 1, "x": 0.25, "y": 0.5, "opaque": true, "sRGB": "aabbcc"},
    {"id": 2, "x": 0.75, "y": 0.5, "opaque": true},
    {"id": 3, "x": 0.1, "y": 0.1, "opaque": false}
  ],
  "intrinsic_comparisons": [
    {"point1": 1, "point2": 2, "darker": "1", "darker_score": 0.8, "id": 10},
    {"point1": 2, "point2": 3, "darker": "E", "darker_score": 1.2},
    {"point1": 1, "point2": 3, "darker": null, "darker_score": null}
  ]
}`

func TestParse(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		set, err := Parse([]byte(sampleRecord))
		require.NoError(t, err)
		assert.Len(t, set.Points, 3)
		require.Len(t, set.Comparisons, 3)

		assert.Equal(t, Point{ID: 1, X: 0.25, Y: 0.5, Opaque: true}, set.Points[1])
		assert.Equal(t, Point1Darker, set.Comparisons[0].Darker)
		require.NotNil(t, set.Comparisons[0].Weight)
		assert.InDelta(t, 0.8, *set.Comparisons[0].Weight, 1e-12)
	})

	t.Run("null darker and score are preserved as empty", func(t *testing.T) {
		set, err := Parse([]byte(sampleRecord))
		require.NoError(t, err)
		c := set.Comparisons[2]
		assert.Equal(t, Darker(""), c.Darker)
		assert.Nil(t, c.Weight)
		assert.True(t, c.Skippable())
	})

	t.Run("duplicate point id", func(t *testing.T) {
		_, err := Parse([]byte(`{"intrinsic_points":[{"id":1},{"id":1}],"intrinsic_comparisons":[]}`))
		assert.ErrorIs(t, err, ErrMalformed)
		assert.Contains(t, err.Error(), "duplicate point id")
	})

	t.Run("point without id", func(t *testing.T) {
		_, err := Parse([]byte(`{"intrinsic_points":[{"x":0.1}],"intrinsic_comparisons":[]}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "has no id")
	})

	t.Run("unrelated JSON", func(t *testing.T) {
		_, err := Parse([]byte(`{"photo": 1}`))
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := Parse([]byte(`{`))
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestSetPoint(t *testing.T) {
	set, err := Parse([]byte(sampleRecord))
	require.NoError(t, err)

	p, err := set.Point(2)
	require.NoError(t, err)
	assert.Equal(t, 0.75, p.X)

	_, err = set.Point(42)
	assert.True(t, errors.Is(err, ErrUnknownPoint))
}

func TestSetStats(t *testing.T) {
	set, err := Parse([]byte(sampleRecord))
	require.NoError(t, err)
	assert.Equal(t, Stats{Points: 3, OpaquePoints: 2, Comparisons: 3}, set.Stats())
}

func TestComparisonSkippable(t *testing.T) {
	w := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		c    Comparison
		want bool
	}{
		{"valid", Comparison{Darker: Equal, Weight: w(1)}, false},
		{"invalid darker", Comparison{Darker: "X", Weight: w(1)}, true},
		{"zero weight", Comparison{Darker: Point1Darker, Weight: w(0)}, true},
		{"negative weight", Comparison{Darker: Point2Darker, Weight: w(-0.5)}, true},
		{"nil weight", Comparison{Darker: Point2Darker}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Skippable())
		})
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "12345.json"), []byte(sampleRecord), 0644))

	src := NewFileSource(dir)

	set, err := src.Load(context.Background(), "12345")
	require.NoError(t, err)
	assert.Len(t, set.Comparisons, 3)

	_, err = src.Load(context.Background(), "missing")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
