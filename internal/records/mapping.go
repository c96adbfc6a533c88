package records

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/pkg/query"
	"github.com/JaimeStill/tally/pkg/repository"
)

// DateLayout is the layout of date query parameters.
const DateLayout = "2006-01-02"

const columns = `id, source_file_id, account_id, placeholder_id, external_id, name,
	record_date, amount, description, salary, paid_at, email, created_at`

var projection = query.
	NewProjectionMap("public", "accounting_records", "r").
	Project("id", "ID").
	Project("source_file_id", "SourceFileID").
	Project("account_id", "AccountID").
	Project("placeholder_id", "PlaceholderID").
	Project("external_id", "ExternalID").
	Project("name", "Name").
	Project("record_date", "Date").
	Project("amount", "Amount").
	Project("description", "Description").
	Project("salary", "Salary").
	Project("paid_at", "PaidAt").
	Project("email", "Email").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "Date",
	Descending: true,
}

// Filters contains optional filtering criteria for record queries.
// DateFrom and DateTo bound the record date inclusively. Name uses
// case-insensitive contains matching; the remaining fields match exactly.
type Filters struct {
	SourceFileID  *uuid.UUID `json:"source_file_id,omitempty"`
	AccountID     *uuid.UUID `json:"account_id,omitempty"`
	PlaceholderID *uuid.UUID `json:"placeholder_id,omitempty"`
	ExternalID    *string    `json:"external_id,omitempty"`
	Name          *string    `json:"name,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SourceFileID", f.SourceFileID).
		WhereEquals("AccountID", f.AccountID).
		WhereEquals("PlaceholderID", f.PlaceholderID).
		WhereEquals("ExternalID", f.ExternalID).
		WhereContains("Name", f.Name).
		WhereRange("Date", f.DateFrom, f.DateTo)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Malformed UUIDs and dates are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	f.SourceFileID = parseUUID(values.Get("source_file_id"))
	f.AccountID = parseUUID(values.Get("account_id"))
	f.PlaceholderID = parseUUID(values.Get("placeholder_id"))

	if eid := strings.TrimSpace(values.Get("external_id")); eid != "" {
		f.ExternalID = &eid
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	f.DateFrom = parseDate(values.Get("date_from"))
	f.DateTo = parseDate(values.Get("date_to"))

	return f
}

func parseUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(
		&r.ID,
		&r.SourceFileID,
		&r.AccountID,
		&r.PlaceholderID,
		&r.ExternalID,
		&r.Name,
		&r.Date,
		&r.Amount,
		&r.Description,
		&r.Salary,
		&r.PaidAt,
		&r.Email,
		&r.CreatedAt,
	)
	return r, err
}
