// Package sourcefiles registers uploaded spreadsheets and tracks their
// ingestion state. The raw payload lives in blob storage under StorageKey;
// the database row carries metadata and the ingestion ledger.
package sourcefiles

import (
	"time"

	"github.com/google/uuid"
)

// SourceFile is an uploaded spreadsheet. Processed and RecordsCreated are
// written once, by the ingestion run that commits the file's records.
type SourceFile struct {
	ID             uuid.UUID  `json:"id"`
	Filename       string     `json:"filename"`
	ContentType    string     `json:"content_type"`
	SizeBytes      int64      `json:"size_bytes"`
	StorageKey     string     `json:"storage_key"`
	UploadedBy     *uuid.UUID `json:"uploaded_by"`
	UploadedAt     time.Time  `json:"uploaded_at"`
	Processed      bool       `json:"processed"`
	RecordsCreated int        `json:"records_created"`
	ProcessedAt    *time.Time `json:"processed_at"`
}

// CreateCommand carries an upload into Create. UploadedBy references the
// acting account and may be nil.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	UploadedBy  *uuid.UUID
}
