// Package ingestion turns uploaded spreadsheets into accounting records.
// An ingestion run decodes the stored payload, canonicalizes its header,
// validates required columns, resolves each row's subject, and writes every
// record together with the source file's ledger in one transaction.
package ingestion

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/internal/sourcefiles"
)

// System defines the public contract for ingestion.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Upload registers a payload as a source file after checking that its
	// format is supported. It does not ingest.
	Upload(ctx context.Context, cmd sourcefiles.CreateCommand) (*sourcefiles.SourceFile, error)

	// Ingest runs ingestion for one unprocessed source file.
	Ingest(ctx context.Context, file uuid.UUID) (*Result, error)

	// IngestBatch ingests independent files concurrently. Each file commits
	// or fails on its own.
	IngestBatch(ctx context.Context, files []uuid.UUID) []BatchItem
}
