package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/iiw-bench/internal/reflectance"
	"github.com/DjordjeVuckovic/iiw-bench/internal/whdr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *runner.BenchmarkResult {
	mr := &runner.MethodResult{
		Method: "iiw",
		Images: []runner.ImageResult{
			{ImageID: "100", Method: "iiw", Result: whdr.Result{WHDR: 0.2, Inequal: 0.2, Valid: true, InequalValid: true, Comparisons: 5}},
			{ImageID: "101", Method: "iiw", Result: whdr.Result{}},
			{ImageID: "102", Method: "iiw", Error: errors.New("prediction not found")},
			{ImageID: "103", Method: "iiw", Result: whdr.Result{WHDR: 0.4, Equal: 0.4, Valid: true, EqualValid: true, Comparisons: 2}},
		},
		Evaluated: 2,
		Undefined: 1,
		Failed:    1,
	}
	for _, ir := range mr.Images {
		mr.Averages.Add(ir.Result)
	}

	return &runner.BenchmarkResult{
		Config: runner.Config{Delta: 0.1, Space: reflectance.SRGB, Workers: 2, OnError: runner.OnErrorSkip},
		Jobs: []*runner.JobResult{{
			JobName:  "test split",
			ImageIDs: []string{"100", "101", "102", "103"},
			Methods:  []string{"iiw"},
			Results:  map[string]*runner.MethodResult{"iiw": mr},
		}},
	}
}

func TestGenerate(t *testing.T) {
	r := Generate(sampleResult())

	_, err := uuid.Parse(r.Meta.RunID)
	assert.NoError(t, err)
	assert.False(t, r.Meta.Timestamp.IsZero())
	assert.Equal(t, "srgb", r.Config.ColorSpace)

	require.Len(t, r.Jobs, 1)
	jr := r.Jobs[0]
	assert.Equal(t, 4, jr.ImageCount)

	require.Len(t, jr.Aggregated, 1)
	agg := jr.Aggregated[0]
	require.NotNil(t, agg.WHDR)
	assert.InDelta(t, 0.3, *agg.WHDR, 1e-9)
	require.NotNil(t, agg.Equal)
	assert.InDelta(t, 0.4, *agg.Equal, 1e-9)
	require.NotNil(t, agg.Inequal)
	assert.InDelta(t, 0.2, *agg.Inequal, 1e-9)
	assert.Equal(t, 2, agg.Summary.Count)
	assert.InDelta(t, 0.2, agg.Summary.Min, 1e-9)
	assert.InDelta(t, 0.4, agg.Summary.Max, 1e-9)

	require.Len(t, jr.PerImage, 4)
	statuses := make([]string, 0, 4)
	for _, e := range jr.PerImage {
		statuses = append(statuses, e.Status())
	}
	assert.Equal(t, []string{"OK", "UNDEF", "ERR", "OK"}, statuses)
	assert.Nil(t, jr.PerImage[0].Equal)
	assert.Nil(t, jr.PerImage[3].Inequal)
}

func TestGenerate_NoValidImages(t *testing.T) {
	br := &runner.BenchmarkResult{Jobs: []*runner.JobResult{{
		JobName: "empty",
		Methods: []string{"m"},
		Results: map[string]*runner.MethodResult{"m": {Method: "m", Undefined: 1,
			Images: []runner.ImageResult{{ImageID: "1", Method: "m"}}}},
	}}}

	agg := Generate(br).Jobs[0].Aggregated[0]
	assert.Nil(t, agg.WHDR)
	assert.Nil(t, agg.Equal)
	assert.Zero(t, agg.Summary.Count)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(Generate(sampleResult()), &buf)

	out := buf.String()
	assert.Contains(t, out, "IIW WHDR Benchmark (delta=0.10, srgb)")
	assert.Contains(t, out, "--- Job: test split ---")
	assert.Contains(t, out, "0.3000")
	assert.Contains(t, out, "UNDEF")
	assert.Contains(t, out, "N/A")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteJSON(Generate(sampleResult()), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Jobs, 1)
	assert.Nil(t, decoded.Jobs[0].PerImage[1].WHDR)
	assert.Equal(t, "prediction not found", decoded.Jobs[0].PerImage[2].Error)
}

func TestWriteHistograms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	files, err := WriteHistograms(Generate(sampleResult()), dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "test_split_iiw_whdr.png")}, files)

	info, err := os.Stat(files[0])
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
