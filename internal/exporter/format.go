package exporter

import (
	"strconv"

	"fxclean/pkg/contracts/domain"
)

// formatFloat formats a float64 in its shortest round-trip form
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatNullFloat formats a nullable float; null becomes an empty cell
func formatNullFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// formatNullString formats a nullable string; null becomes an empty cell
func formatNullString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// quoteRecord converts a quote to a CSV record in header order
func quoteRecord(q domain.Quote) []string {
	return []string{
		formatInt(q.ID),
		formatNullString(q.Symbol),
		formatNullString(q.StartDate),
		formatNullString(q.StartTime),
		formatNullString(q.EndDate),
		formatNullString(q.EndTime),
		formatNullFloat(q.Open),
		formatNullFloat(q.High),
		formatNullFloat(q.Low),
		formatNullFloat(q.Close),
		formatNullFloat(q.Average),
	}
}

// cellValue converts a nullable value to an excelize cell value; null becomes an empty cell
func cellValue[T any](v *T) any {
	if v == nil {
		return ""
	}
	return *v
}
