package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by the cleaning pipeline
type PipelineMetrics struct {
	RowsIn            metric.Int64Counter
	RowsOut           metric.Int64Counter
	PlaceholdersAdded metric.Int64Counter
	RowsRemoved       metric.Int64Counter
	OutliersFlagged   metric.Int64Counter
	StageDuration     metric.Float64Histogram
	Runs              metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsIn, err := meter.Int64Counter("fxclean_rows_in",
		metric.WithDescription("Quote rows received by the cleaning pipeline"))
	if err != nil {
		return nil, err
	}

	rowsOut, err := meter.Int64Counter("fxclean_rows_out",
		metric.WithDescription("Quote rows emitted by the cleaning pipeline"))
	if err != nil {
		return nil, err
	}

	placeholders, err := meter.Int64Counter("fxclean_placeholders_added",
		metric.WithDescription("Placeholder rows synthesized for missing ids"))
	if err != nil {
		return nil, err
	}

	removed, err := meter.Int64Counter("fxclean_rows_removed",
		metric.WithDescription("Rows dropped because their rate group had odd cardinality"))
	if err != nil {
		return nil, err
	}

	outliers, err := meter.Int64Counter("fxclean_outliers_flagged",
		metric.WithDescription("Rows flagged as Tukey outliers, per column"))
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram("fxclean_stage_duration",
		metric.WithDescription("Cleaning stage execution duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("fxclean_runs",
		metric.WithDescription("Cleaning pipeline executions by status"))
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsIn:            rowsIn,
		RowsOut:           rowsOut,
		PlaceholdersAdded: placeholders,
		RowsRemoved:       removed,
		OutliersFlagged:   outliers,
		StageDuration:     stageDuration,
		Runs:              runs,
	}, nil
}

// RecordStage records the duration of one pipeline stage
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordOutliers records the number of outliers flagged for a column
func (m *PipelineMetrics) RecordOutliers(ctx context.Context, column string, n int) {
	if m == nil {
		return
	}
	m.OutliersFlagged.Add(ctx, int64(n), metric.WithAttributes(attribute.String("column", column)))
}

// RecordRun records the row flow and status of a finished run
func (m *PipelineMetrics) RecordRun(ctx context.Context, rowsIn, placeholders, removed, rowsOut int, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	m.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if err != nil {
		return
	}

	m.RowsIn.Add(ctx, int64(rowsIn))
	m.PlaceholdersAdded.Add(ctx, int64(placeholders))
	m.RowsRemoved.Add(ctx, int64(removed))
	m.RowsOut.Add(ctx, int64(rowsOut))
}
