package ingestion

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JaimeStill/tally/internal/identities"
	"github.com/JaimeStill/tally/internal/records"
)

// Materializer converts validated rows into storage-ready records.
type Materializer struct {
	layouts []string
}

// NewMaterializer creates a Materializer that parses text dates with
// layouts, or DefaultDateLayouts when layouts is empty.
func NewMaterializer(layouts []string) *Materializer {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return &Materializer{layouts: layouts}
}

// Subject returns the identifier and name the resolver needs for row.
func Subject(row Row) (externalID, name string) {
	id, _ := row.Value(LabelIdentifier)
	n, _ := row.Value(LabelName)
	return normalizeIdentifier(id), n
}

// Build maps the row found on sheet line to a record of file linked
// according to res. Optional columns left blank, or absent from the sheet, stay unset.
// Coercion failures are returned as *RowError.
func (m *Materializer) Build(line int, row Row, res identities.Resolution, file uuid.UUID) (records.Record, error) {
	externalID, name := Subject(row)

	rec := records.Record{
		SourceFileID: file,
		ExternalID:   optional(externalID),
		Name:         name,
	}
	rec.AccountID, rec.PlaceholderID = identities.Links(res)

	amount, _ := row.Value(LabelAmount)
	a, err := parseAmount(amount)
	if err != nil {
		return records.Record{}, &RowError{Row: line, Field: LabelAmount, Err: err}
	}
	rec.Amount = a

	date, _ := row.Value(LabelDate)
	d, err := parseDate(date, m.layouts)
	if err != nil {
		return records.Record{}, &RowError{Row: line, Field: LabelDate, Err: err}
	}
	rec.Date = d

	if v, ok := row.Value(LabelDescription); ok {
		rec.Description = optional(v)
	}

	if v, ok := row.Value(LabelEmail); ok {
		rec.Email = optional(v)
	}

	if v, ok := row.Value(LabelSalary); ok && strings.TrimSpace(v) != "" {
		s, err := parseAmount(v)
		if err != nil {
			return records.Record{}, &RowError{Row: line, Field: LabelSalary, Err: err}
		}
		rec.Salary = decimal.NewNullDecimal(s)
	}

	if v, ok := row.Value(LabelPaidAt); ok && strings.TrimSpace(v) != "" {
		t, err := parseTime(v, m.layouts)
		if err != nil {
			return records.Record{}, &RowError{Row: line, Field: LabelPaidAt, Err: err}
		}
		paid := t.In(time.UTC)
		rec.PaidAt = &paid
	}

	return rec, nil
}
