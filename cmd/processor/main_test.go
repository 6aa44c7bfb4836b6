package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fxclean/internal/config"
	"fxclean/internal/dataprocessing"
	apperrors "fxclean/internal/errors"
	"fxclean/internal/exporter"
)

const quotesCSV = `,Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close,Average
1,EURUSD,2021-03-01,09:00,2021-03-01,09:05,1.1,1.2,1.0,1.15,1.12
2,USDEUR,2021-03-01,09:00,2021-03-01,09:05,1.1,1.2,1.0,1.15,1.12
4,USDJPY,2021-03-01,09:00,2021-03-01,09:05,110,111,109,110.5,110.2
5,GBPUSD,2021-03-01,09:00,2021-03-01,09:05,1.3,1.4,1.2,1.35,1.32
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "FXRates.csv")
	require.NoError(t, os.WriteFile(path, []byte(quotesCSV), 0o644))
	return path
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-in", "a.csv", "-out", "b.csv", "-format", "csv", "-report", "r.xlsx", "-skip-outliers"})
	require.NoError(t, err)
	assert.Equal(t, options{in: "a.csv", out: "b.csv", format: "csv", report: "r.xlsx", skipOutliers: true}, opts)

	_, err = parseFlags([]string{"-unknown"})
	assert.Error(t, err)
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, &out))
	assert.Contains(t, out.String(), "fxclean v")
}

func TestOptionsWithDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ReportFile = "outliers.xlsx"

	opts := options{out: "custom.csv"}.withDefaults(cfg)
	assert.Equal(t, cfg.Paths.InputFile, opts.in)
	assert.Equal(t, "custom.csv", opts.out)
	assert.Equal(t, "outliers.xlsx", opts.report)
	assert.False(t, opts.skipOutliers)

	cfg.Pipeline.DetectOutliers = false
	assert.True(t, options{}.withDefaults(cfg).skipOutliers)
}

func TestExecute(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	opts := options{
		in:     writeInput(t),
		out:    filepath.Join(dir, "FXRates.parquet"),
		report: filepath.Join(dir, "outliers.xlsx"),
	}

	require.NoError(t, execute(context.Background(), cfg, opts, discardLogger()))

	rows, err := exporter.ReadParquet(opts.out)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, int64(2), rows[1].ID)

	f, err := excelize.OpenFile(opts.report)
	require.NoError(t, err)
	f.Close()

	var out bytes.Buffer
	require.NoError(t, inspect(opts.out, &out))
	printed, err := dataprocessing.ParseCSV(&out)
	require.NoError(t, err)
	assert.Equal(t, rows, printed)
}

func TestExecute_SkipOutliersDropsReport(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		in:           writeInput(t),
		out:          filepath.Join(dir, "FXRates.csv"),
		report:       filepath.Join(dir, "outliers.xlsx"),
		skipOutliers: true,
	}

	require.NoError(t, execute(context.Background(), config.Default(), opts, discardLogger()))

	_, err := os.Stat(opts.report)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(opts.out)
	assert.NoError(t, err)
}

func TestExecute_MissingInput(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		in:  filepath.Join(dir, "missing.csv"),
		out: filepath.Join(dir, "out.parquet"),
	}

	err := execute(context.Background(), config.Default(), opts, discardLogger())
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}
