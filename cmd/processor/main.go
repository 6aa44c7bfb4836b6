// Command processor cleans an FX quotes CSV and writes the result as
// Parquet or CSV, optionally with an XLSX outlier workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fxclean/internal/config"
	"fxclean/internal/dataprocessing"
	"fxclean/internal/exporter"
	"fxclean/internal/infrastructure"
	"fxclean/internal/services"
	"fxclean/pkg/contracts"
)

// options holds the command line flags
type options struct {
	configPath   string
	in           string
	out          string
	format       string
	report       string
	skipOutliers bool
	inspect      string
	version      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		infrastructure.LoggerFromContext(ctx).Error("processor failed", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		stop()
		os.Exit(1)
	}
	infrastructure.CloseLogFile()
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.version {
		_, err := fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return err
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	opts = opts.withDefaults(cfg)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if opts.inspect != "" {
		return inspect(opts.inspect, stdout)
	}

	return execute(ctx, cfg, opts, logger)
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (defaults to FXCLEAN_CONFIG or ./config.yaml)")
	fs.StringVar(&opts.in, "in", "", "input quotes CSV (default from config, data/FXRates.csv)")
	fs.StringVar(&opts.out, "out", "", "output file (default from config, data/FXRates.parquet)")
	fs.StringVar(&opts.format, "format", "", "output format: parquet or csv (default from the output extension)")
	fs.StringVar(&opts.report, "report", "", "optional XLSX outlier workbook path")
	fs.BoolVar(&opts.skipOutliers, "skip-outliers", false, "skip outlier detection")
	fs.StringVar(&opts.inspect, "inspect", "", "print a cleaned Parquet file as CSV and exit")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// withDefaults fills unset flags from cfg
func (o options) withDefaults(cfg *config.Config) options {
	if o.in == "" {
		o.in = cfg.Paths.InputFile
	}
	if o.out == "" {
		o.out = cfg.Paths.OutputFile
	}
	if o.format == "" {
		o.format = cfg.Paths.OutputFormat
	}
	if o.report == "" {
		o.report = cfg.Paths.ReportFile
	}
	if !cfg.Pipeline.DetectOutliers {
		o.skipOutliers = true
	}
	return o
}

// execute runs one cleaning pass with telemetry wired from cfg
func execute(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) error {
	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer providers.Shutdown(context.WithoutCancel(ctx))

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	cleaner := dataprocessing.NewCleaner(
		dataprocessing.WithLogger(logger),
		dataprocessing.WithTracer(providers.Tracer),
		dataprocessing.WithMetrics(metrics),
		dataprocessing.WithOutlierColumns(cfg.OutlierColumns()...),
		dataprocessing.WithOutlierDetection(!opts.skipOutliers),
	)

	report := opts.report
	if opts.skipOutliers && report != "" {
		logger.WarnContext(ctx, "outlier detection disabled, skipping report", slog.String("report", report))
		report = ""
	}

	service := services.NewCleaningService(cleaner, logger)
	result, err := service.RunFile(ctx, services.RunOptions{
		Input:  opts.in,
		Output: opts.out,
		Format: opts.format,
		Report: report,
	})
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "processor completed",
		slog.String("run_id", result.Summary.RunID),
		slog.String("output", opts.out),
		slog.Int("rows_in", result.Summary.GapFill.InputRows),
		slog.Int("placeholders", result.Summary.GapFill.FilledRows),
		slog.Int("removed", result.Summary.Mismatch.RemovedRows),
		slog.Int("rows_out", len(result.Rows)),
		slog.Duration("duration", result.Summary.Duration))
	return nil
}

func inspect(path string, stdout io.Writer) error {
	rows, err := exporter.ReadParquet(path)
	if err != nil {
		return err
	}
	return exporter.EncodeQuotes(stdout, rows)
}
