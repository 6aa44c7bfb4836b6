package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "fxclean/internal/errors"
)

// Extensions recognized by the validator
const (
	ExtCSV     = ".csv"
	ExtParquet = ".parquet"
	ExtXLSX    = ".xlsx"
)

// FileValidator checks the files a cleaning run reads and writes before any
// work starts
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewStorageError(fmt.Sprintf("file %s does not exist", path), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateCSVFile checks that path is a readable file with a .csv extension
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	return v.requireExtension(path, ExtCSV)
}

// ValidateOutputDirectory ensures dir exists or can be created and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	testFile, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	testFile.Close()
	os.Remove(testFile.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputFile checks that path can be written. A path that names an
// existing directory is rejected.
func (v *FileValidator) ValidateOutputFile(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apperrors.NewValidationError(fmt.Sprintf("output %s is a directory", path), nil)
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateReportFile checks that path is a writable .xlsx location
func (v *FileValidator) ValidateReportFile(path string) error {
	if err := v.requireExtension(path, ExtXLSX); err != nil {
		return err
	}
	return v.ValidateOutputFile(path)
}

// ExtensionMatches reports whether path carries the extension conventional
// for format. Paths without an extension always match.
func ExtensionMatches(path, format string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return true
	}
	return ext == "."+strings.ToLower(format)
}

func (v *FileValidator) requireExtension(path, want string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != want {
		v.logger.Error("Unexpected file extension",
			slog.String("file", path),
			slog.String("extension", ext),
			slog.String("expected", want))
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s must have a %s extension (got %q)", path, want, ext), nil)
	}
	return nil
}
