package pg

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/report"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRows(t *testing.T) {
	runID := uuid.New()
	score := 0.25
	entries := []report.Entry{
		{ImageID: "100", MethodName: "iiw", WHDR: &score, Comparisons: 4, Duration: 1500 * time.Microsecond},
		{ImageID: "101", MethodName: "iiw", Error: "prediction not found"},
	}

	rows, err := imageRows(map[string]uuid.UUID{"iiw": runID}, entries)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, row := range rows {
		assert.Len(t, row, len(imageResultColumns))
		assert.Equal(t, runID, row[0])
	}
	assert.Equal(t, "100", rows[0][1])
	assert.Equal(t, &score, rows[0][2])
	assert.Equal(t, int64(1), rows[0][6])
	assert.Nil(t, rows[0][7])

	errText, ok := rows[1][7].(*string)
	require.True(t, ok)
	assert.Equal(t, "prediction not found", *errText)
}

func TestImageRows_UnknownMethod(t *testing.T) {
	_, err := imageRows(map[string]uuid.UUID{}, []report.Entry{{ImageID: "1", MethodName: "ghost"}})
	assert.ErrorContains(t, err, `"ghost"`)
}

func TestHealthChecker_NilPool(t *testing.T) {
	assert.False(t, NewHealthChecker(nil).Healthy(t.Context()))
}
