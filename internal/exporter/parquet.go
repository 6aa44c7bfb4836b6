package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	apperrors "fxclean/internal/errors"
	"fxclean/pkg/contracts/domain"
)

// ParquetWriter writes quote tables as Apache Parquet files.
// The schema comes from the parquet tags on domain.Quote; nullable fields
// are optional columns.
type ParquetWriter struct {
	logger *slog.Logger
}

// NewParquetWriter creates a Parquet writer
func NewParquetWriter(logger *slog.Logger) *ParquetWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParquetWriter{logger: logger.With(slog.String("component", "parquet_writer"))}
}

// Write replaces filePath with rows. The file is written next to its target
// and renamed into place, so readers never see a partial file.
func (w *ParquetWriter) Write(filePath string, rows []domain.Quote) error {
	w.logger.Info("writing Parquet file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(rows)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}

	tmp := filePath + ".tmp"
	if err := parquet.WriteFile(tmp, rows, parquet.Compression(&parquet.Snappy)); err != nil {
		os.Remove(tmp)
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", filePath), err)
	}

	if err := os.Rename(tmp, filePath); err != nil {
		os.Remove(tmp)
		return apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", filePath), err)
	}
	return nil
}

// ReadParquet reads a quote table written by ParquetWriter
func ReadParquet(filePath string) ([]domain.Quote, error) {
	rows, err := parquet.ReadFile[domain.Quote](filePath)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", filePath), err)
	}
	return rows, nil
}
