package dataprocessing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fxclean/internal/errors"
)

const sampleCSV = `,Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close,Average
1,EURUSD,2021-03-01,09:00,2021-03-01,09:05,1.2061,1.2075,1.2050,1.2070,1.2064
2,USDEUR,2021-03-01,09:00,2021-03-01,09:05,1.2061,1.2075,1.2050,1.2070,1.2064
4,GBPUSD,2021-03-01,09:00,2021-03-01,09:05,,1.3950,1.3900,,
`

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, int64(1), first.ID)
	require.NotNil(t, first.Symbol)
	assert.Equal(t, "EURUSD", *first.Symbol)
	assert.Equal(t, "2021-03-01", *first.StartDate)
	assert.Equal(t, "09:05", *first.EndTime)
	assert.Equal(t, 1.2061, *first.Open)
	assert.Equal(t, 1.2064, *first.Average)

	last := rows[2]
	assert.Equal(t, int64(4), last.ID)
	assert.Nil(t, last.Open, "empty cell is null")
	assert.Nil(t, last.Close)
	assert.Nil(t, last.Average)
	assert.Equal(t, 1.395, *last.High)
}

func TestParseCSV_HeaderVariants(t *testing.T) {
	headers := []string{
		"_c0,symbol,start_date,start_time,end_date,end_time,open,high,low,close,average",
		"id,Symbol,Start Date,Start Time,End Date,End Time,OPEN,High,Low,Close,Average",
		// columns in a different order; the first one is still the id
		"row,Average,Close,Low,High,Open,EndTime,EndDate,StartTime,StartDate,Symbol",
	}

	for _, h := range headers[:2] {
		t.Run(h, func(t *testing.T) {
			input := h + "\n7,a,b,c,d,e,1,2,3,4,5\n"
			rows, err := ParseCSV(strings.NewReader(input))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, int64(7), rows[0].ID)
		})
	}

	rows, err := ParseCSV(strings.NewReader(headers[2] + "\n7,1,2,3,4,5,e,d,c,b,a\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, *rows[0].Average)
	assert.Equal(t, 5.0, *rows[0].Open)
	assert.Equal(t, "a", *rows[0].Symbol)
}

func TestParseCSV_ByteOrderMark(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("\ufeff" + sampleCSV))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestParseCSV_Empty(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	header := strings.SplitN(sampleCSV, "\n", 2)[0] + "\n"
	rows, err = ParseCSV(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		contains string
	}{
		{
			name:     "missing column",
			input:    ",Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close\n1,a,b,c,d,e,1,2,3,4\n",
			sentinel: apperrors.ErrSchemaMismatch,
			contains: "Average",
		},
		{
			name:     "non-numeric price",
			input:    ",Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close,Average\n1,a,b,c,d,e,1,abc,3,4,5\n",
			sentinel: apperrors.ErrTypeCoercion,
			contains: `"High"`,
		},
		{
			name:     "non-integer id",
			input:    "id,Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close,Average\n1.5,a,b,c,d,e,1,2,3,4,5\n",
			sentinel: apperrors.ErrTypeCoercion,
			contains: `"id"`,
		},
		{
			name:     "missing id",
			input:    ",Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close,Average\n,a,b,c,d,e,1,2,3,4,5\n",
			sentinel: apperrors.ErrTypeCoercion,
			contains: "line 2",
		},
		{
			name:     "bad cell after valid rows",
			input:    ",Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close,Average\n1,a,b,c,d,e,1,2,3,4,5\n2,a,b,c,d,e,1,2,oops,4,5\n",
			sentinel: apperrors.ErrTypeCoercion,
			contains: `line 3: column "Low"`,
		},
		{
			name:     "NaN price",
			input:    ",Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close,Average\n1,a,b,c,d,e,1,NaN,3,4,5\n",
			sentinel: apperrors.ErrTypeCoercion,
			contains: `"High"`,
		},
		{
			name:     "infinite price",
			input:    ",Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close,Average\n1,a,b,c,d,e,1,2,3,-Inf,5\n",
			sentinel: apperrors.ErrTypeCoercion,
			contains: `"Close"`,
		},
		{
			name:     "ragged record",
			input:    ",Symbol,StartDate,StartTime,EndDate,EndTime,Open,High,Low,Close,Average\n1,a,b\n",
			sentinel: apperrors.ErrParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "FXRates.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	rows, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeStorage, apperrors.TypeOf(err))
}
