package sourcefiles_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/JaimeStill/tally/internal/sourcefiles"
)

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{
		"filename":      {"pagos"},
		"processed":     {"false"},
		"uploaded_by":   {"bogus"},
		"uploaded_from": {"2024-01-01"},
		"uploaded_to":   {"2024-01-31"},
	}

	f := sourcefiles.FiltersFromQuery(values)

	if f.Filename == nil || *f.Filename != "pagos" {
		t.Errorf("Filename = %v, want pagos", f.Filename)
	}
	if f.Processed == nil || *f.Processed {
		t.Errorf("Processed = %v, want false", f.Processed)
	}
	if f.UploadedBy != nil {
		t.Errorf("UploadedBy = %v, want nil", f.UploadedBy)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if f.UploadedFrom == nil || !f.UploadedFrom.Equal(from) {
		t.Errorf("UploadedFrom = %v, want %v", f.UploadedFrom, from)
	}

	to := time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC)
	if f.UploadedTo == nil || !f.UploadedTo.Equal(to) {
		t.Errorf("UploadedTo = %v, want %v", f.UploadedTo, to)
	}
}

func TestFiltersFromQueryTimestamp(t *testing.T) {
	f := sourcefiles.FiltersFromQuery(url.Values{
		"uploaded_to": {"2024-01-31T12:00:00Z"},
		"processed":   {"maybe"},
	})

	want := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	if f.UploadedTo == nil || !f.UploadedTo.Equal(want) {
		t.Errorf("UploadedTo = %v, want %v", f.UploadedTo, want)
	}
	if f.Processed != nil {
		t.Errorf("Processed = %v, want nil", f.Processed)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", sourcefiles.ErrNotFound, http.StatusNotFound},
		{"duplicate", sourcefiles.ErrDuplicate, http.StatusConflict},
		{"already processed", sourcefiles.ErrAlreadyProcessed, http.StatusConflict},
		{"too large", sourcefiles.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid", sourcefiles.ErrInvalidFile, http.StatusBadRequest},
		{"other", http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sourcefiles.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
