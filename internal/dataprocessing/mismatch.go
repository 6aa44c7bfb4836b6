package dataprocessing

import (
	"fxclean/pkg/contracts/domain"
)

// RemoveUnmatchingRates drops every row whose rate group has an odd number
// of members. A rate group is the set of rows sharing all timing and price
// fields (see domain.RateKey); rates are expected in pairs such as a currency
// pair and its inverse, so an odd group holds an orphan and is discarded whole.
//
// Removal is by id: a kept row that shares its id with a removed row is
// removed too. Surviving rows keep their input order.
func RemoveUnmatchingRates(rows []domain.Quote) []domain.Quote {
	kept, _ := RemoveUnmatchingRatesWithStats(rows)
	return kept
}

// RemoveUnmatchingRatesWithStats performs the mismatch removal and returns statistics.
func RemoveUnmatchingRatesWithStats(rows []domain.Quote) ([]domain.Quote, domain.MismatchStatistics) {
	stats := domain.MismatchStatistics{InputRows: len(rows)}

	counts := make(map[domain.RateKey]int)
	for _, row := range rows {
		counts[row.Key()]++
	}
	stats.Groups = len(counts)

	for _, c := range counts {
		if c%2 != 0 {
			stats.OddGroups++
		}
	}

	removed := make(map[int64]struct{})
	for _, row := range rows {
		if counts[row.Key()]%2 != 0 {
			removed[row.ID] = struct{}{}
		}
	}

	kept := make([]domain.Quote, 0, len(rows))
	for _, row := range rows {
		if _, ok := removed[row.ID]; ok {
			continue
		}
		kept = append(kept, row)
	}

	stats.RemovedRows = len(rows) - len(kept)
	stats.OutputRows = len(kept)
	return kept, stats
}
