package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"fxclean/internal/infrastructure"
	"fxclean/pkg/contracts/domain"
)

// Stage names used for spans, metrics and log lines.
const (
	StageOutliers = "outliers"
	StageGapFill  = "gap_fill"
	StageMismatch = "mismatch"
)

// Cleaner runs the cleaning pipeline: gap fill followed by mismatch removal,
// with outlier detection over the raw table alongside.
type Cleaner struct {
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *infrastructure.PipelineMetrics
	outlierColumns []domain.Column
	detectOutliers bool
}

// CleanerOption configures a Cleaner.
type CleanerOption func(*Cleaner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) CleanerOption {
	return func(c *Cleaner) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for stage spans.
func WithTracer(tracer trace.Tracer) CleanerOption {
	return func(c *Cleaner) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithMetrics sets the pipeline instruments. A nil value disables metrics.
func WithMetrics(metrics *infrastructure.PipelineMetrics) CleanerOption {
	return func(c *Cleaner) {
		c.metrics = metrics
	}
}

// WithOutlierColumns sets the columns checked for outliers.
func WithOutlierColumns(columns ...domain.Column) CleanerOption {
	return func(c *Cleaner) {
		if len(columns) > 0 {
			c.outlierColumns = columns
		}
	}
}

// WithOutlierDetection turns the outlier path on or off.
func WithOutlierDetection(enabled bool) CleanerOption {
	return func(c *Cleaner) {
		c.detectOutliers = enabled
	}
}

// NewCleaner creates a cleaner. Without options it logs through slog.Default,
// traces nothing and checks the default outlier columns.
func NewCleaner(opts ...CleanerOption) *Cleaner {
	c := &Cleaner{
		logger:         slog.Default(),
		tracer:         noop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
		outlierColumns: domain.DefaultOutlierColumns,
		detectOutliers: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "cleaner"))
	return c
}

// OutlierColumns returns the columns checked for outliers.
func (c *Cleaner) OutlierColumns() []domain.Column {
	return append([]domain.Column(nil), c.outlierColumns...)
}

// Clean runs the pipeline over rows. The input slice is not modified.
func (c *Cleaner) Clean(ctx context.Context, rows []domain.Quote) (result *domain.CleanResult, err error) {
	started := time.Now()
	runID := uuid.New().String()

	ctx, span := c.tracer.Start(ctx, "clean", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("rows_in", len(rows)),
	))
	defer span.End()

	logger := c.logger.With(slog.String("run_id", runID))
	logger.InfoContext(ctx, "cleaning started", slog.Int("rows", len(rows)))

	result = &domain.CleanResult{
		Summary: domain.CleanSummary{
			RunID:     runID,
			StartedAt: started.UTC(),
		},
	}

	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.metrics.RecordRun(ctx, len(rows), 0, 0, 0, err)
			logger.ErrorContext(ctx, "cleaning failed", slog.String("error", err.Error()))
			result = nil
			return
		}
		c.metrics.RecordRun(ctx, len(rows), result.Summary.GapFill.FilledRows,
			result.Summary.Mismatch.RemovedRows, len(result.Rows), nil)
	}()

	g, gctx := errgroup.WithContext(ctx)

	if c.detectOutliers {
		g.Go(func() error {
			reports, err := c.runOutliers(gctx, rows)
			if err != nil {
				return err
			}
			result.Outliers = reports
			return nil
		})
	}

	g.Go(func() error {
		cleaned, err := c.runCleaning(gctx, rows, logger, &result.Summary)
		if err != nil {
			return err
		}
		result.Rows = cleaned
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if c.detectOutliers {
		result.Summary.OutlierCounts = make(map[domain.Column]int, len(result.Outliers))
		for _, report := range result.Outliers {
			result.Summary.OutlierCounts[report.Column] = len(report.Rows)
			logger.InfoContext(ctx, "outlier bounds",
				slog.String("column", string(report.Column)),
				slog.Int("samples", report.Samples),
				slog.Float64("lower", report.Lower),
				slog.Float64("upper", report.Upper),
				slog.Int("outliers", len(report.Rows)))
		}
	}

	result.Summary.Duration = time.Since(started)
	span.SetAttributes(attribute.Int("rows_out", len(result.Rows)))

	logger.InfoContext(ctx, "cleaning completed",
		slog.Int("rows_in", len(rows)),
		slog.Int("placeholders", result.Summary.GapFill.FilledRows),
		slog.Int("removed", result.Summary.Mismatch.RemovedRows),
		slog.Int("rows_out", len(result.Rows)),
		slog.Duration("duration", result.Summary.Duration))

	return result, nil
}

// runOutliers is the diagnostic path over the raw table
func (c *Cleaner) runOutliers(ctx context.Context, rows []domain.Quote) ([]domain.OutlierReport, error) {
	ctx, span := c.tracer.Start(ctx, StageOutliers)
	defer span.End()

	start := time.Now()
	reports, err := FindOutliersContext(ctx, rows, c.outlierColumns...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	c.metrics.RecordStage(ctx, StageOutliers, time.Since(start))

	for _, report := range reports {
		c.metrics.RecordOutliers(ctx, string(report.Column), len(report.Rows))
		span.SetAttributes(attribute.Int("outliers."+string(report.Column), len(report.Rows)))
	}
	return reports, nil
}

// runCleaning is gap fill then mismatch removal, checking ctx between stages
func (c *Cleaner) runCleaning(ctx context.Context, rows []domain.Quote, logger *slog.Logger, summary *domain.CleanSummary) ([]domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stageCtx, span := c.tracer.Start(ctx, StageGapFill)
	start := time.Now()
	filled, fillStats := FillMissingRatesWithStats(rows)
	c.metrics.RecordStage(stageCtx, StageGapFill, time.Since(start))
	span.SetAttributes(
		attribute.Int("filled_rows", fillStats.FilledRows),
		attribute.Int("out_of_range_ids", fillStats.OutOfRangeIDs),
	)
	span.End()
	summary.GapFill = fillStats

	if fillStats.OutOfRangeIDs > 0 {
		logger.WarnContext(ctx, "ids outside the reference range 1..N, gaps above N are not filled",
			slog.Int("out_of_range_ids", fillStats.OutOfRangeIDs),
			slog.Int("reference_max", fillStats.InputRows))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stageCtx, span = c.tracer.Start(ctx, StageMismatch)
	start = time.Now()
	cleaned, mismatchStats := RemoveUnmatchingRatesWithStats(filled)
	c.metrics.RecordStage(stageCtx, StageMismatch, time.Since(start))
	span.SetAttributes(
		attribute.Int("groups", mismatchStats.Groups),
		attribute.Int("odd_groups", mismatchStats.OddGroups),
		attribute.Int("removed_rows", mismatchStats.RemovedRows),
	)
	span.End()
	summary.Mismatch = mismatchStats

	return cleaned, nil
}
