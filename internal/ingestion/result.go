package ingestion

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/tally/internal/identities"
)

// Result summarizes a committed ingestion run.
type Result struct {
	FileID              uuid.UUID `json:"file_id"`
	RecordsCreated      int       `json:"records_created"`
	Registered          int       `json:"registered"`
	Provisional         int       `json:"provisional"`
	Unidentified        int       `json:"unidentified"`
	PlaceholdersCreated int       `json:"placeholders_created"`
	DurationMS          int64     `json:"duration_ms"`
}

func (r *Result) add(res identities.Resolution) {
	r.RecordsCreated++
	switch v := res.(type) {
	case identities.Registered:
		r.Registered++
	case identities.Provisional:
		r.Provisional++
		if v.Created {
			r.PlaceholdersCreated++
		}
	case identities.Unidentified:
		r.Unidentified++
	}
}

// BatchItem is the outcome of one file in IngestBatch. Exactly one of
// Result and Error is set.
type BatchItem struct {
	FileID uuid.UUID `json:"file_id"`
	Result *Result   `json:"result,omitempty"`
	Error  string    `json:"error,omitempty"`
	Status int       `json:"status"`
	err    error
}

// Err returns the failure behind Error.
func (b BatchItem) Err() error {
	return b.err
}
