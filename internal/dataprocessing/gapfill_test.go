package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxclean/pkg/contracts/domain"
)

func quotesWithIDs(ids ...int64) []domain.Quote {
	rows := make([]domain.Quote, len(ids))
	for i, id := range ids {
		rows[i] = domain.Quote{ID: id, Symbol: domain.String("EURUSD"), Open: domain.Float(float64(id))}
	}
	return rows
}

func ids(rows []domain.Quote) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestFillMissingRates(t *testing.T) {
	tests := []struct {
		name         string
		input        []int64
		want         []int64
		placeholders []int64
		outOfRange   int
	}{
		{"single gap", []int64{1, 2, 4, 5}, []int64{1, 2, 3, 4, 5}, []int64{3}, 1},
		{"gaps beyond row count are not filled", []int64{1, 5, 6}, []int64{1, 2, 3, 5, 6}, []int64{2, 3}, 2},
		{"complete", []int64{1, 2, 3}, []int64{1, 2, 3}, nil, 0},
		{"unsorted input", []int64{3, 1, 2}, []int64{1, 2, 3}, nil, 0},
		{"duplicates pass through", []int64{2, 2, 3}, []int64{1, 2, 2, 3}, []int64{1}, 0},
		{"non-positive ids", []int64{0, -1}, []int64{-1, 0, 1, 2}, []int64{1, 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats := FillMissingRatesWithStats(quotesWithIDs(tt.input...))

			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, len(tt.input), stats.InputRows)
			assert.Equal(t, len(tt.placeholders), stats.FilledRows)
			assert.Equal(t, len(tt.want), stats.OutputRows)
			assert.Equal(t, tt.outOfRange, stats.OutOfRangeIDs)

			var placeholders []int64
			for _, row := range got {
				if row.IsPlaceholder() {
					placeholders = append(placeholders, row.ID)
				}
			}
			assert.Equal(t, tt.placeholders, placeholders)
		})
	}
}

func TestFillMissingRates_Empty(t *testing.T) {
	got := FillMissingRates(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFillMissingRates_KeepsOriginalRows(t *testing.T) {
	input := quotesWithIDs(4, 1)
	got := FillMissingRates(input)

	require.Len(t, got, 3)
	assert.Equal(t, input[1], got[0])
	assert.True(t, got[1].IsPlaceholder())
	assert.Equal(t, input[0], got[2])
}

func TestFillMissingRates_StableForDuplicateIDs(t *testing.T) {
	input := []domain.Quote{
		{ID: 2, Symbol: domain.String("first")},
		{ID: 1},
		{ID: 2, Symbol: domain.String("second")},
	}

	// three rows put id 3 in range; it is absent and gets a placeholder
	got := FillMissingRates(input)
	require.Len(t, got, 4)
	assert.Equal(t, []int64{1, 2, 2, 3}, ids(got))
	assert.Equal(t, "first", *got[1].Symbol)
	assert.Equal(t, "second", *got[2].Symbol)
	assert.True(t, got[3].IsPlaceholder())
}

func TestFillMissingRates_Idempotent(t *testing.T) {
	inputs := [][]int64{
		{1, 2, 4},
		{3, 1},
		{1, 2, 3, 4},
		{},
	}

	for _, in := range inputs {
		once := FillMissingRates(quotesWithIDs(in...))
		twice := FillMissingRates(once)
		assert.Equal(t, once, twice, "input %v", in)
	}
}

func TestFillMissingRates_Completeness(t *testing.T) {
	// ids within 1..N yield exactly 1..N
	input := quotesWithIDs(3, 1, 2, 2)
	got := FillMissingRates(input)
	seen := map[int64]bool{}
	for _, r := range got {
		seen[r.ID] = true
	}
	for id := int64(1); id <= int64(len(input)); id++ {
		assert.True(t, seen[id], "id %d", id)
	}
	assert.Len(t, seen, len(input))
}

func TestFillMissingRates_DoesNotMutateInput(t *testing.T) {
	input := quotesWithIDs(3, 1)
	before := append([]domain.Quote(nil), input...)

	FillMissingRates(input)
	assert.Equal(t, before, input)
}
