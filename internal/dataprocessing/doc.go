// Package dataprocessing cleans tables of FX rate quotes.
//
// # Stages
//
// The package is organized into three stages and a pipeline that runs them:
//
// 1. FindOutliers: Tukey IQR fences per numeric column, diagnostic only
// 2. FillMissingRates: placeholder rows for ids missing from 1..N, sorted by id
// 3. RemoveUnmatchingRates: drops rate groups with an odd number of members
//
// Stages are pure functions over []domain.Quote. They never modify their input.
//
// # Usage
//
// Loading a table:
//
//	rows, err := dataprocessing.ParseFile("data/FXRates.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Running the pipeline:
//
//	cleaner := dataprocessing.NewCleaner(
//	    dataprocessing.WithLogger(logger),
//	    dataprocessing.WithOutlierColumns(domain.ColumnHigh, domain.ColumnLow),
//	)
//	result, err := cleaner.Clean(ctx, rows)
//
// result.Rows holds the cleaned table; result.Outliers holds one report per column.
package dataprocessing
