package ingestion

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/tally/internal/sourcefiles"
)

// ErrUnsupportedFormat is returned for filenames whose extension maps to no
// decoder.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DecodeError reports a payload that could not be read as its detected format.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingColumnsError lists every required canonical label absent from an
// upload's header row.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// Details exposes the missing labels to API clients.
func (e *MissingColumnsError) Details() any {
	return map[string]any{"missing": e.Missing}
}

// RowError reports a data row whose Field could not be coerced. Row is the
// 1-based line of the row in the sheet, counting the header.
type RowError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: field %s: %v", e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Details exposes the failing row and field to API clients.
func (e *RowError) Details() any {
	return map[string]any{"row": e.Row, "field": e.Field}
}

// MapHTTPStatus maps ingestion errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	var (
		decodeErr  *DecodeError
		missingErr *MissingColumnsError
		rowErr     *RowError
	)

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &decodeErr),
		errors.As(err, &missingErr),
		errors.As(err, &rowErr):
		return http.StatusUnprocessableEntity
	}
	return sourcefiles.MapHTTPStatus(err)
}
