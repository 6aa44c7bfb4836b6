package dataprocessing

import (
	"sort"

	"fxclean/pkg/contracts/domain"
)

// FillMissingRates returns rows plus a placeholder quote for every id of the
// reference range 1..len(rows) that is absent, sorted ascending by id.
//
// The reference range is bounded by the row count, not by the largest id:
// ids above len(rows) pass through untouched and gaps below them that lie
// beyond len(rows) are not filled. Duplicate ids pass through as well.
func FillMissingRates(rows []domain.Quote) []domain.Quote {
	filled, _ := FillMissingRatesWithStats(rows)
	return filled
}

// FillMissingRatesWithStats performs the gap fill and returns statistics.
func FillMissingRatesWithStats(rows []domain.Quote) ([]domain.Quote, domain.GapFillStatistics) {
	n := int64(len(rows))
	stats := domain.GapFillStatistics{InputRows: len(rows)}

	present := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		present[row.ID] = struct{}{}
		if row.ID < 1 || row.ID > n {
			stats.OutOfRangeIDs++
		}
	}

	result := make([]domain.Quote, len(rows), len(rows)+int(n)-len(present)+stats.OutOfRangeIDs)
	copy(result, rows)

	for id := int64(1); id <= n; id++ {
		if _, ok := present[id]; !ok {
			result = append(result, domain.Quote{ID: id})
			stats.FilledRows++
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	stats.OutputRows = len(result)
	return result, stats
}
