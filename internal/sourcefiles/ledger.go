package sourcefiles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/pkg/repository"
)

// Claim locks the source file row for the rest of the transaction behind q
// and returns it. A concurrent run against the same file blocks until this
// transaction ends and then observes the committed ledger. Claim fails with
// ErrAlreadyProcessed once the file has been ingested.
func Claim(ctx context.Context, q repository.Querier, id uuid.UUID) (*SourceFile, error) {
	stmt := "SELECT " + columns + " FROM source_files WHERE id = $1 FOR UPDATE"

	f, err := repository.QueryOne(ctx, q, stmt, []any{id}, scanSourceFile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	if f.Processed {
		return nil, ErrAlreadyProcessed
	}
	return &f, nil
}

// MarkProcessed records the outcome of a successful ingestion run. It only
// transitions an unprocessed file, so the ledger is written exactly once.
func MarkProcessed(ctx context.Context, e repository.Executor, id uuid.UUID, count int) error {
	err := repository.ExecExpectOne(
		ctx, e,
		`UPDATE source_files
		SET processed = true, records_created = $2, processed_at = NOW()
		WHERE id = $1 AND processed = false`,
		id, count,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAlreadyProcessed
	}
	return err
}
