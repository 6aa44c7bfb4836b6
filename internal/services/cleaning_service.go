package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fxclean/internal/dataprocessing"
	apperrors "fxclean/internal/errors"
	"fxclean/internal/exporter"
	"fxclean/internal/validation"
	"fxclean/pkg/contracts/domain"
)

// Output formats accepted by RunFile
const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
)

// RunOptions describes one batch cleaning run
type RunOptions struct {
	Input  string // quotes CSV
	Output string // cleaned table
	Format string // parquet or csv; inferred from Output when empty
	Report string // optional XLSX outlier workbook
}

// CleaningService loads quote tables, cleans them and writes the results
type CleaningService struct {
	cleaner  *dataprocessing.Cleaner
	parquet  *exporter.ParquetWriter
	csv      *exporter.CSVWriter
	workbook *exporter.OutlierWorkbook
	files    *validation.FileValidator
	logger   *slog.Logger
}

// NewCleaningService creates a cleaning service around cleaner
func NewCleaningService(cleaner *dataprocessing.Cleaner, logger *slog.Logger) *CleaningService {
	if logger == nil {
		logger = slog.Default()
	}
	if cleaner == nil {
		cleaner = dataprocessing.NewCleaner(dataprocessing.WithLogger(logger))
	}

	return &CleaningService{
		cleaner:  cleaner,
		parquet:  exporter.NewParquetWriter(logger),
		csv:      exporter.NewCSVWriter(logger),
		workbook: exporter.NewOutlierWorkbook(logger),
		files:    validation.NewFileValidator(logger),
		logger:   logger.With(slog.String("service", "cleaning")),
	}
}

// RunFile cleans the table at opts.Input and writes it to opts.Output.
// When opts.Report is set the outlier reports are written there as well.
func (s *CleaningService) RunFile(ctx context.Context, opts RunOptions) (*domain.CleanResult, error) {
	format, err := ResolveFormat(opts.Format, opts.Output)
	if err != nil {
		return nil, err
	}

	if err := s.validatePaths(ctx, opts, format); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "RunFile: loading quotes",
		slog.String("input", opts.Input),
		slog.String("output", opts.Output),
		slog.String("format", format))

	loadStart := time.Now()
	rows, err := dataprocessing.ParseFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.Input, err)
	}
	s.logger.InfoContext(ctx, "RunFile: quotes loaded",
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(loadStart)))

	result, err := s.cleaner.Clean(ctx, rows)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		err = s.csv.WriteQuotes(opts.Output, result.Rows)
	default:
		err = s.parquet.Write(opts.Output, result.Rows)
	}
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.Output, err)
	}

	if opts.Report != "" {
		if err := s.workbook.Write(opts.Report, result.Outliers); err != nil {
			return nil, fmt.Errorf("write report %s: %w", opts.Report, err)
		}
	}

	s.logger.InfoContext(ctx, "RunFile: completed",
		slog.String("run_id", result.Summary.RunID),
		slog.Int("rows_out", len(result.Rows)))

	return result, nil
}

// validatePaths checks every path of opts before the input is parsed
func (s *CleaningService) validatePaths(ctx context.Context, opts RunOptions, format string) error {
	if err := s.files.ValidateCSVFile(opts.Input); err != nil {
		return err
	}
	if err := s.files.ValidateOutputFile(opts.Output); err != nil {
		return err
	}
	if !validation.ExtensionMatches(opts.Output, format) {
		s.logger.WarnContext(ctx, "RunFile: output extension does not match format",
			slog.String("output", opts.Output),
			slog.String("format", format))
	}
	if opts.Report != "" {
		return s.files.ValidateReportFile(opts.Report)
	}
	return nil
}

// CleanReader cleans a quotes CSV read from r
func (s *CleaningService) CleanReader(ctx context.Context, r io.Reader) (*domain.CleanResult, error) {
	rows, err := dataprocessing.ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return s.cleaner.Clean(ctx, rows)
}

// DetectOutliers reads a quotes CSV from r and reports the outliers of the
// configured columns without cleaning the table
func (s *CleaningService) DetectOutliers(ctx context.Context, r io.Reader) ([]domain.OutlierReport, error) {
	rows, err := dataprocessing.ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return dataprocessing.FindOutliersContext(ctx, rows, s.cleaner.OutlierColumns()...)
}

// ResolveFormat returns the output format, inferring it from the file
// extension when format is empty
func ResolveFormat(format, output string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		if strings.EqualFold(filepath.Ext(output), ".csv") {
			return FormatCSV, nil
		}
		return FormatParquet, nil
	}

	switch format {
	case FormatParquet, FormatCSV:
		return format, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("unsupported output format %q", format), nil)
}
