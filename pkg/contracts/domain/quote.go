package domain

import (
	"fmt"
	"math"
	"strings"
)

// Quote represents a single FX rate quote row.
// Nullable fields are pointers; nil means the value is absent.
type Quote struct {
	ID        int64    `json:"id" parquet:"id"`
	Symbol    *string  `json:"symbol" parquet:"symbol,optional"`
	StartDate *string  `json:"start_date" parquet:"start_date,optional"`
	StartTime *string  `json:"start_time" parquet:"start_time,optional"`
	EndDate   *string  `json:"end_date" parquet:"end_date,optional"`
	EndTime   *string  `json:"end_time" parquet:"end_time,optional"`
	Open      *float64 `json:"open" parquet:"open,optional"`
	High      *float64 `json:"high" parquet:"high,optional"`
	Low       *float64 `json:"low" parquet:"low,optional"`
	Close     *float64 `json:"close" parquet:"close,optional"`
	Average   *float64 `json:"average" parquet:"average,optional"`
}

// IsPlaceholder reports whether the quote only carries an id,
// which is how the gap filler represents a missing rate.
func (q Quote) IsPlaceholder() bool {
	return q.Symbol == nil && q.StartDate == nil && q.StartTime == nil &&
		q.EndDate == nil && q.EndTime == nil &&
		q.Open == nil && q.High == nil && q.Low == nil && q.Close == nil && q.Average == nil
}

// Key returns the grouping key made of every field except ID and Symbol.
func (q Quote) Key() RateKey {
	return RateKey{
		StartDate: nullString(q.StartDate),
		StartTime: nullString(q.StartTime),
		EndDate:   nullString(q.EndDate),
		EndTime:   nullString(q.EndTime),
		Open:      nullFloat(q.Open),
		High:      nullFloat(q.High),
		Low:       nullFloat(q.Low),
		Close:     nullFloat(q.Close),
		Average:   nullFloat(q.Average),
	}
}

// NullString is a comparable optional string.
type NullString struct {
	Value string
	Valid bool
}

// NullFloat is a comparable optional float64 stored by its IEEE-754 bits.
type NullFloat struct {
	Bits  uint64
	Valid bool
}

// RateKey identifies rates sharing identical timing and price fields.
// Two null fields compare equal. Floats compare exactly; -0 and +0 are
// the same key and all NaNs are the same key.
type RateKey struct {
	StartDate NullString
	StartTime NullString
	EndDate   NullString
	EndTime   NullString
	Open      NullFloat
	High      NullFloat
	Low       NullFloat
	Close     NullFloat
	Average   NullFloat
}

func nullString(s *string) NullString {
	if s == nil {
		return NullString{}
	}
	return NullString{Value: *s, Valid: true}
}

var canonicalNaN = math.Float64bits(math.NaN())

func nullFloat(f *float64) NullFloat {
	if f == nil {
		return NullFloat{}
	}
	v := *f
	switch {
	case math.IsNaN(v):
		return NullFloat{Bits: canonicalNaN, Valid: true}
	case v == 0:
		return NullFloat{Bits: 0, Valid: true}
	}
	return NullFloat{Bits: math.Float64bits(v), Valid: true}
}

// Column names a numeric quote column.
type Column string

const (
	ColumnOpen    Column = "open"
	ColumnHigh    Column = "high"
	ColumnLow     Column = "low"
	ColumnClose   Column = "close"
	ColumnAverage Column = "average"
)

// NumericColumns lists every numeric column in schema order.
var NumericColumns = []Column{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnAverage}

// DefaultOutlierColumns are the columns checked for outliers unless configured otherwise.
var DefaultOutlierColumns = []Column{ColumnHigh, ColumnLow}

// ParseColumn converts a column name to a Column, case-insensitively.
func ParseColumn(name string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range NumericColumns {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown numeric column %q", name)
}

// Value returns the column value of q (nil when null). ok is false for an
// unknown column.
func (c Column) Value(q Quote) (v *float64, ok bool) {
	switch c {
	case ColumnOpen:
		return q.Open, true
	case ColumnHigh:
		return q.High, true
	case ColumnLow:
		return q.Low, true
	case ColumnClose:
		return q.Close, true
	case ColumnAverage:
		return q.Average, true
	}
	return nil, false
}

// String returns a pointer to s. Handy when building quotes by hand.
func String(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
