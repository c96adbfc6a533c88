package sourcefiles

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/pkg/query"
	"github.com/JaimeStill/tally/pkg/repository"
)

const columns = `id, filename, content_type, size_bytes, storage_key, uploaded_by,
	uploaded_at, processed, records_created, processed_at`

var projection = query.
	NewProjectionMap("public", "source_files", "f").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("storage_key", "StorageKey").
	Project("uploaded_by", "UploadedBy").
	Project("uploaded_at", "UploadedAt").
	Project("processed", "Processed").
	Project("records_created", "RecordsCreated").
	Project("processed_at", "ProcessedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for source file queries.
// UploadedFrom and UploadedTo bound the upload timestamp inclusively.
// Filename uses case-insensitive contains matching.
type Filters struct {
	Filename     *string    `json:"filename,omitempty"`
	ContentType  *string    `json:"content_type,omitempty"`
	Processed    *bool      `json:"processed,omitempty"`
	UploadedBy   *uuid.UUID `json:"uploaded_by,omitempty"`
	UploadedFrom *time.Time `json:"uploaded_from,omitempty"`
	UploadedTo   *time.Time `json:"uploaded_to,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("Processed", f.Processed).
		WhereEquals("UploadedBy", f.UploadedBy).
		WhereRange("UploadedAt", f.UploadedFrom, f.UploadedTo)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// uploaded_from and uploaded_to accept RFC 3339 timestamps or plain dates;
// a plain uploaded_to date covers the whole day.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if p := values.Get("processed"); p != "" {
		if v, err := strconv.ParseBool(p); err == nil {
			f.Processed = &v
		}
	}

	if ub := values.Get("uploaded_by"); ub != "" {
		if id, err := uuid.Parse(ub); err == nil {
			f.UploadedBy = &id
		}
	}

	if t, ok := parseBound(values.Get("uploaded_from"), false); ok {
		f.UploadedFrom = &t
	}

	if t, ok := parseBound(values.Get("uploaded_to"), true); ok {
		f.UploadedTo = &t
	}

	return f
}

func parseBound(s string, endOfDay bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}

func scanSourceFile(s repository.Scanner) (SourceFile, error) {
	var f SourceFile
	err := s.Scan(
		&f.ID,
		&f.Filename,
		&f.ContentType,
		&f.SizeBytes,
		&f.StorageKey,
		&f.UploadedBy,
		&f.UploadedAt,
		&f.Processed,
		&f.RecordsCreated,
		&f.ProcessedAt,
	)
	return f, err
}
