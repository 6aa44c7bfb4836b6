package dataprocessing

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fxclean/internal/errors"
	"fxclean/pkg/contracts/domain"
)

// highRows builds quotes with ids 1..n carrying the given high values
func highRows(values ...float64) []domain.Quote {
	rows := make([]domain.Quote, len(values))
	for i, v := range values {
		rows[i] = domain.Quote{ID: int64(i + 1), High: domain.Float(v)}
	}
	return rows
}

func TestQuartiles(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		q1, q3 float64
	}{
		{"single value", []float64{5}, 5, 5},
		{"eight values", []float64{8, 7, 6, 5, 4, 3, 2, 1}, 2, 6},
		{"nine values", []float64{1, 2, 3, 4, 5, 6, 7, 8, 100}, 3, 7},
		{"four values", []float64{10, 20, 30, 40}, 10, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q1, q3, err := Quartiles(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.q1, q1)
			assert.Equal(t, tt.q3, q3)
		})
	}

	_, _, err := Quartiles(nil)
	assert.Error(t, err)
}

func TestFindOutliers_FlagsExtremeValues(t *testing.T) {
	rows := highRows(1, 2, 3, 4, 5, 6, 7, 8, 100)

	reports, err := FindOutliers(rows, domain.ColumnHigh)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, domain.ColumnHigh, r.Column)
	assert.Equal(t, 9, r.Samples)
	assert.Equal(t, 3.0, r.Q1)
	assert.Equal(t, 7.0, r.Q3)
	assert.Equal(t, 4.0, r.IQR)
	assert.Equal(t, -3.0, r.Lower)
	assert.Equal(t, 13.0, r.Upper)
	require.Len(t, r.Rows, 1)
	assert.Equal(t, int64(9), r.Rows[0].ID)
}

func TestFindOutliers_UpperBoundIsInclusive(t *testing.T) {
	onBound := highRows(1, 2, 3, 4, 5, 6, 7, 8, 13)
	reports, err := FindOutliers(onBound, domain.ColumnHigh)
	require.NoError(t, err)
	assert.Equal(t, 13.0, reports[0].Upper)
	assert.Empty(t, reports[0].Rows, "a value equal to the upper fence is not an outlier")

	justAbove := highRows(1, 2, 3, 4, 5, 6, 7, 8, math.Nextafter(13, math.Inf(1)))
	reports, err = FindOutliers(justAbove, domain.ColumnHigh)
	require.NoError(t, err)
	assert.Equal(t, 13.0, reports[0].Upper)
	require.Len(t, reports[0].Rows, 1)
	assert.Equal(t, int64(9), reports[0].Rows[0].ID)
}

func TestFindOutliers_DefaultColumnsAndNulls(t *testing.T) {
	rows := highRows(1, 2, 3, 4, 5, 6, 7, 8, 100)
	rows = append(rows, domain.Quote{ID: 10})

	reports, err := FindOutliers(rows)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, domain.ColumnHigh, reports[0].Column)
	assert.Equal(t, 9, reports[0].Samples, "null values are skipped")
	assert.Len(t, reports[0].Rows, 1)

	// every low value is null
	assert.Equal(t, domain.ColumnLow, reports[1].Column)
	assert.Zero(t, reports[1].Samples)
	assert.Empty(t, reports[1].Rows)
	assert.Zero(t, reports[1].Upper)
}

func TestFindOutliers_RowInSeveralColumns(t *testing.T) {
	rows := make([]domain.Quote, 9)
	for i := range rows {
		v := float64(i + 1)
		rows[i] = domain.Quote{ID: int64(i + 1), High: domain.Float(v), Low: domain.Float(v)}
	}
	rows[8].High = domain.Float(1000)
	rows[8].Low = domain.Float(-1000)

	reports, err := FindOutliers(rows, domain.ColumnHigh, domain.ColumnLow)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, int64(9), reports[0].Rows[0].ID)
	assert.Equal(t, int64(9), reports[1].Rows[0].ID)
}

func TestFindOutliers_EmptyInput(t *testing.T) {
	reports, err := FindOutliers(nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Zero(t, r.Samples)
		assert.NotNil(t, r.Rows)
		assert.Empty(t, r.Rows)
	}
}

func TestFindOutliers_UnknownColumn(t *testing.T) {
	_, err := FindOutliers(highRows(1, 2, 3), domain.Column("volume"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSchemaMismatch))
}

func TestFindOutliersContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindOutliersContext(ctx, highRows(1, 2, 3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindOutliers_DoesNotMutateInput(t *testing.T) {
	rows := highRows(9, 1, 5, 3)
	before := append([]domain.Quote(nil), rows...)

	_, err := FindOutliers(rows)
	require.NoError(t, err)
	assert.Equal(t, before, rows)
}
