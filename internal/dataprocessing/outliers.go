package dataprocessing

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	apperrors "fxclean/internal/errors"
	"fxclean/pkg/contracts/domain"
)

// OutlierStep is the Tukey fence multiplier applied to the interquartile range.
const OutlierStep = 1.5

// FindOutliers flags rows outside the Tukey fences of each column.
// With no columns given it checks domain.DefaultOutlierColumns.
// Reports come back in column order; a row may be reported under several columns.
func FindOutliers(rows []domain.Quote, columns ...domain.Column) ([]domain.OutlierReport, error) {
	return FindOutliersContext(context.Background(), rows, columns...)
}

// FindOutliersContext is FindOutliers with cancellation. Columns are evaluated concurrently.
func FindOutliersContext(ctx context.Context, rows []domain.Quote, columns ...domain.Column) ([]domain.OutlierReport, error) {
	if len(columns) == 0 {
		columns = domain.DefaultOutlierColumns
	}
	for _, col := range columns {
		if _, ok := col.Value(domain.Quote{}); !ok {
			return nil, apperrors.NewSchemaMismatchError(string(col))
		}
	}

	reports := make([]domain.OutlierReport, len(columns))
	g, ctx := errgroup.WithContext(ctx)
	for i, col := range columns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := columnOutliers(rows, col)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// columnOutliers computes the fences for one column and collects the rows outside them
func columnOutliers(rows []domain.Quote, col domain.Column) (domain.OutlierReport, error) {
	report := domain.OutlierReport{Column: col, Rows: []domain.Quote{}}

	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, _ := col.Value(row); v != nil {
			values = append(values, *v)
		}
	}

	report.Samples = len(values)
	if len(values) == 0 {
		return report, nil
	}

	q1, q3, err := Quartiles(values)
	if err != nil {
		return report, fmt.Errorf("quartiles for %s: %w", col, err)
	}

	report.Q1 = q1
	report.Q3 = q3
	report.IQR = q3 - q1
	report.Lower = q1 - OutlierStep*report.IQR
	report.Upper = q3 + OutlierStep*report.IQR

	for _, row := range rows {
		v, _ := col.Value(row)
		if v == nil {
			continue
		}
		if *v < report.Lower || *v > report.Upper {
			report.Rows = append(report.Rows, row)
		}
	}

	return report, nil
}

// Quartiles returns the exact 25th and 75th percentiles of values using the
// nearest-rank definition (rank = ceil(p*n), at least 1). The result is always
// one of the input values.
func Quartiles(values []float64) (q1, q3 float64, err error) {
	q1, err = stats.PercentileNearestRank(values, 25)
	if err != nil {
		return 0, 0, err
	}
	q3, err = stats.PercentileNearestRank(values, 75)
	if err != nil {
		return 0, 0, err
	}
	return q1, q3, nil
}
