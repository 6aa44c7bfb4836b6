package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "fxclean/internal/errors"
	"fxclean/pkg/contracts/domain"
)

// quoteField identifies a named (non-id) column of the quote table
type quoteField int

const (
	fieldSymbol quoteField = iota
	fieldStartDate
	fieldStartTime
	fieldEndDate
	fieldEndTime
	fieldOpen
	fieldHigh
	fieldLow
	fieldClose
	fieldAverage
	fieldCount
)

// fieldHeaders holds the canonical header of each field, as written by the exporters
var fieldHeaders = [fieldCount]string{
	"Symbol", "StartDate", "StartTime", "EndDate", "EndTime",
	"Open", "High", "Low", "Close", "Average",
}

var errNonFinite = errors.New("non-finite value")

// Headers returns the canonical CSV header row, id column first.
func Headers() []string {
	return append([]string{"id"}, fieldHeaders[:]...)
}

// normalizeHeader folds case and drops separators so that "StartDate",
// "start_date" and "Start Date" all match
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(h)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile reads a quotes CSV file. See ParseCSV.
func ParseFile(filePath string) ([]domain.Quote, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", filePath), err)
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV reads a header-first CSV table of quotes.
//
// The first physical column is the row id whatever its header. The remaining
// columns are matched by name; a missing column is a SCHEMA_MISMATCH error and
// a value that cannot be converted to its column type is a TYPE_COERCION error.
// Empty cells are read as null.
func ParseCSV(r io.Reader) ([]domain.Quote, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Quote{}, nil
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header", err)
	}
	// ReuseRecord hands every later record the same backing array
	header = append([]string(nil), header...)

	columnMap, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	quotes := []domain.Quote{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read record", err)
		}

		line, _ := reader.FieldPos(0)
		quote, err := parseRecord(record, columnMap, header, line)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// mapColumns resolves the position of every named field in header
func mapColumns(header []string) ([fieldCount]int, error) {
	var columnMap [fieldCount]int

	positions := make(map[string]int, len(header))
	for i := len(header) - 1; i >= 1; i-- {
		positions[normalizeHeader(header[i])] = i
	}

	for f := quoteField(0); f < fieldCount; f++ {
		idx, ok := positions[normalizeHeader(fieldHeaders[f])]
		if !ok {
			return columnMap, apperrors.NewSchemaMismatchError(fieldHeaders[f])
		}
		columnMap[f] = idx
	}

	return columnMap, nil
}

// parseRecord converts one CSV record into a quote
func parseRecord(record []string, columnMap [fieldCount]int, header []string, line int) (domain.Quote, error) {
	var q domain.Quote

	idText := strings.TrimSpace(record[0])
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return q, apperrors.NewTypeCoercionError(line, idColumnName(header), idText, err)
	}
	q.ID = id

	text := func(f quoteField) *string {
		v := strings.TrimSpace(record[columnMap[f]])
		if v == "" {
			return nil
		}
		return &v
	}

	number := func(f quoteField) (*float64, error) {
		v := strings.TrimSpace(record[columnMap[f]])
		if v == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperrors.NewTypeCoercionError(line, header[columnMap[f]], v, err)
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, apperrors.NewTypeCoercionError(line, header[columnMap[f]], v, errNonFinite)
		}
		return &n, nil
	}

	q.Symbol = text(fieldSymbol)
	q.StartDate = text(fieldStartDate)
	q.StartTime = text(fieldStartTime)
	q.EndDate = text(fieldEndDate)
	q.EndTime = text(fieldEndTime)

	targets := []struct {
		field quoteField
		dst   **float64
	}{
		{fieldOpen, &q.Open},
		{fieldHigh, &q.High},
		{fieldLow, &q.Low},
		{fieldClose, &q.Close},
		{fieldAverage, &q.Average},
	}
	for _, t := range targets {
		v, err := number(t.field)
		if err != nil {
			return q, err
		}
		*t.dst = v
	}

	return q, nil
}

// idColumnName returns a printable name for the id column
func idColumnName(header []string) string {
	if name := strings.TrimSpace(header[0]); name != "" {
		return name
	}
	return "id"
}
