package records

import (
	"context"

	"github.com/JaimeStill/tally/pkg/repository"
)

// Insert writes rec using q and returns the stored record. q is normally
// the transaction of an ingestion run, so the insert commits or rolls back
// with the rest of the file.
func Insert(ctx context.Context, q repository.Querier, rec Record) (Record, error) {
	if rec.AccountID != nil && rec.PlaceholderID != nil {
		return Record{}, ErrLinkConflict
	}

	stmt := `
		INSERT INTO accounting_records(
			source_file_id, account_id, placeholder_id, external_id, name,
			record_date, amount, description, salary, paid_at, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + columns

	args := []any{
		rec.SourceFileID,
		rec.AccountID,
		rec.PlaceholderID,
		rec.ExternalID,
		rec.Name,
		rec.Date,
		rec.Amount,
		rec.Description,
		rec.Salary,
		rec.PaidAt,
		rec.Email,
	}

	stored, err := repository.QueryOne(ctx, q, stmt, args, scanRecord)
	if err != nil {
		return Record{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return stored, nil
}
