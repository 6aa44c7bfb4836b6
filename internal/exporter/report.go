package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "fxclean/internal/errors"
	"fxclean/pkg/contracts/domain"
)

// SummarySheet is the name of the workbook sheet holding the per-column fences
const SummarySheet = "Summary"

var summaryHeaders = []any{"Column", "Samples", "Q1", "Q3", "IQR", "Lower", "Upper", "Outliers"}

var outlierHeaders = []any{
	"id", "Symbol", "StartDate", "StartTime", "EndDate", "EndTime",
	"Open", "High", "Low", "Close", "Average",
}

// OutlierWorkbook writes outlier reports to an XLSX workbook: a Summary sheet
// with one line per column, then one sheet per column listing its outlier rows.
type OutlierWorkbook struct {
	logger *slog.Logger
}

// NewOutlierWorkbook creates an outlier workbook writer
func NewOutlierWorkbook(logger *slog.Logger) *OutlierWorkbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutlierWorkbook{logger: logger.With(slog.String("component", "outlier_workbook"))}
}

// Write saves reports to filePath
func (o *OutlierWorkbook) Write(filePath string, reports []domain.OutlierReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return apperrors.NewStorageError("failed to name summary sheet", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewStorageError("failed to create header style", err)
	}

	if err := writeRow(f, SummarySheet, 1, summaryHeaders); err != nil {
		return err
	}
	f.SetRowStyle(SummarySheet, 1, 1, headerStyle)

	for i, report := range reports {
		row := []any{
			string(report.Column), report.Samples,
			report.Q1, report.Q3, report.IQR, report.Lower, report.Upper,
			len(report.Rows),
		}
		if err := writeRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}

		if err := o.writeColumnSheet(f, report, headerStyle); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(filePath); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", filePath), err)
	}

	o.logger.Info("outlier workbook written",
		slog.String("file_path", filePath),
		slog.Int("columns", len(reports)))
	return nil
}

// writeColumnSheet adds the sheet listing the outlier rows of one column
func (o *OutlierWorkbook) writeColumnSheet(f *excelize.File, report domain.OutlierReport, headerStyle int) error {
	sheet := string(report.Column)
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to add sheet %s", sheet), err)
	}

	if err := writeRow(f, sheet, 1, outlierHeaders); err != nil {
		return err
	}
	f.SetRowStyle(sheet, 1, 1, headerStyle)

	for i, q := range report.Rows {
		row := []any{
			q.ID,
			cellValue(q.Symbol), cellValue(q.StartDate), cellValue(q.StartTime),
			cellValue(q.EndDate), cellValue(q.EndTime),
			cellValue(q.Open), cellValue(q.High), cellValue(q.Low),
			cellValue(q.Close), cellValue(q.Average),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return apperrors.NewStorageError("invalid cell", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s!%s", sheet, cell), err)
	}
	return nil
}
