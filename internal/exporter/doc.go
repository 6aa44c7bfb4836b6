// Package exporter writes cleaned quote tables and outlier diagnostics to disk.
//
// This package contains three main components:
//
// ParquetWriter: Writes quote tables as Apache Parquet with nullable columns.
// ReadParquet reads them back.
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility. WriteQuotes emits the canonical quote layout.
//
// OutlierWorkbook: Writes outlier reports to an XLSX workbook.
//
// Example usage:
//
//	writer := exporter.NewParquetWriter(logger)
//	err := writer.Write("data/FXRates.parquet", result.Rows)
//
//	report := exporter.NewOutlierWorkbook(logger)
//	err = report.Write("data/outliers.xlsx", result.Outliers)
package exporter
