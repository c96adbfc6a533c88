package records_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/internal/records"
	"github.com/JaimeStill/tally/pkg/query"
)

func TestFiltersFromQuery(t *testing.T) {
	fileID := uuid.New()
	values := url.Values{
		"source_file_id": {fileID.String()},
		"account_id":     {"not-a-uuid"},
		"external_id":    {" 111 "},
		"name":           {"juan"},
		"date_from":      {"2024-01-01"},
		"date_to":        {"01/31/2024"},
	}

	f := records.FiltersFromQuery(values)

	if f.SourceFileID == nil || *f.SourceFileID != fileID {
		t.Errorf("SourceFileID = %v, want %s", f.SourceFileID, fileID)
	}
	if f.AccountID != nil {
		t.Errorf("AccountID = %v, want nil for malformed uuid", f.AccountID)
	}
	if f.ExternalID == nil || *f.ExternalID != "111" {
		t.Errorf("ExternalID = %v, want 111", f.ExternalID)
	}
	if f.Name == nil || *f.Name != "juan" {
		t.Errorf("Name = %v, want juan", f.Name)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if f.DateFrom == nil || !f.DateFrom.Equal(want) {
		t.Errorf("DateFrom = %v, want %v", f.DateFrom, want)
	}
	if f.DateTo != nil {
		t.Errorf("DateTo = %v, want nil for malformed date", f.DateTo)
	}
}

func TestFiltersApplyDateRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	fileID := uuid.New()

	proj := query.NewProjectionMap("public", "accounting_records", "r").
		Project("source_file_id", "SourceFileID").
		Project("account_id", "AccountID").
		Project("placeholder_id", "PlaceholderID").
		Project("external_id", "ExternalID").
		Project("name", "Name").
		Project("record_date", "Date")

	f := records.Filters{SourceFileID: &fileID, DateFrom: &from, DateTo: &to}
	sql, args := f.Apply(query.NewBuilder(proj)).Build()

	for _, want := range []string{
		"r.source_file_id = $1",
		"r.record_date >= $2",
		"r.record_date <= $3",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("sql %q missing %q", sql, want)
		}
	}
	if len(args) != 3 {
		t.Fatalf("args = %d, want 3", len(args))
	}
	if args[0] != fileID {
		t.Errorf("args[0] = %v, want dereferenced %s", args[0], fileID)
	}
}

func TestInsertRejectsDoubleLink(t *testing.T) {
	account := uuid.New()
	placeholder := uuid.New()

	_, err := records.Insert(context.Background(), nil, records.Record{
		AccountID:     &account,
		PlaceholderID: &placeholder,
	})
	if !errors.Is(err, records.ErrLinkConflict) {
		t.Errorf("Insert error = %v, want %v", err, records.ErrLinkConflict)
	}
}
