package identities

import (
	"context"

	"github.com/JaimeStill/tally/pkg/repository"
)

// DefaultConflictRetries bounds placeholder get-or-create attempts.
const DefaultConflictRetries = 3

type lookup struct {
	q       repository.Querier
	retries int
}

// NewLookup returns a Lookup that runs against q, typically the *sql.Tx of an
// ingestion run. retries bounds the insert/re-read cycle of placeholder
// provisioning; values below one select DefaultConflictRetries.
func NewLookup(q repository.Querier, retries int) Lookup {
	if retries < 1 {
		retries = DefaultConflictRetries
	}
	return &lookup{q: q, retries: retries}
}

func (l *lookup) FindAccount(ctx context.Context, externalID string) (*Account, error) {
	q := "SELECT " + accountColumns + " FROM accounts WHERE external_id = $1"

	a, err := repository.QueryOne(ctx, l.q, q, []any{externalID}, scanAccount)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (l *lookup) GetOrCreatePlaceholder(ctx context.Context, externalID, name string) (*Placeholder, bool, error) {
	insertQ := `
		INSERT INTO placeholders(name, external_id)
		VALUES ($1, $2)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING ` + placeholderColumns

	findQ := "SELECT " + placeholderColumns + " FROM placeholders WHERE external_id = $1"

	p, created, err := repository.GetOrCreate(
		ctx, l.retries,
		func(ctx context.Context) (Placeholder, error) {
			return repository.QueryOne(ctx, l.q, insertQ, []any{name, externalID}, scanPlaceholder)
		},
		func(ctx context.Context) (Placeholder, error) {
			return repository.QueryOne(ctx, l.q, findQ, []any{externalID}, scanPlaceholder)
		},
	)
	if err != nil {
		return nil, false, err
	}
	return &p, created, nil
}
