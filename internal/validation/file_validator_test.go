package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fxclean/internal/errors"
	"fxclean/internal/shared/testutil"
)

func TestFileValidator_ValidateCSVFile(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantType  apperrors.ErrorType
	}{
		{
			name: "valid csv",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "FXRates.csv")
				require.NoError(t, os.WriteFile(path, []byte("id\n"), 0644))
				return path
			},
		},
		{
			name: "upper case extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "FXRATES.CSV")
				require.NoError(t, os.WriteFile(path, []byte("id\n"), 0644))
				return path
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantType: apperrors.ErrTypeStorage,
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantType: apperrors.ErrTypeValidation,
		},
		{
			name: "wrong extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "FXRates.txt")
				require.NoError(t, os.WriteFile(path, []byte("id\n"), 0644))
				return path
			},
			wantType: apperrors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(nil)
			err := v.ValidateCSVFile(tt.setupFunc(t))
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}
}

func TestFileValidator_ValidateOutputFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	t.Run("creates missing directories", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "out", "FXRates.parquet")
		require.NoError(t, v.ValidateOutputFile(path))

		info, err := os.Stat(filepath.Dir(path))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Empty(t, entries, "probe file must be removed")
	})

	t.Run("rejects a directory", func(t *testing.T) {
		err := v.ValidateOutputFile(dir)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("parent is a file", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		err := v.ValidateOutputFile(filepath.Join(blocker, "out.csv"))
		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})
}

func TestFileValidator_ValidateReportFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	assert.NoError(t, v.ValidateReportFile(filepath.Join(dir, "outliers.xlsx")))
	assert.ErrorIs(t, v.ValidateReportFile(filepath.Join(dir, "outliers.xls")), apperrors.ErrValidation)
}

func TestFileValidator_LogsFailures(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	require.Error(t, v.ValidateFile(filepath.Join(t.TempDir(), "missing.csv")))

	rec, ok := logs.Find("File does not exist")
	require.True(t, ok)
	assert.Equal(t, "file_validator", rec.Attrs["component"])
}

func TestExtensionMatches(t *testing.T) {
	tests := []struct {
		path, format string
		want         bool
	}{
		{"out.parquet", "parquet", true},
		{"out.CSV", "csv", true},
		{"out", "csv", true},
		{"out.parquet", "csv", false},
		{"out.csv", "parquet", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtensionMatches(tt.path, tt.format), "%s as %s", tt.path, tt.format)
	}
}
