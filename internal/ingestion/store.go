package ingestion

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/internal/identities"
	"github.com/JaimeStill/tally/internal/records"
	"github.com/JaimeStill/tally/internal/sourcefiles"
	"github.com/JaimeStill/tally/pkg/repository"
)

// Store opens the transactional scope of an ingestion run.
type Store interface {
	// InTx runs fn in one transaction. Every write made through the Session
	// commits when fn returns nil and is discarded otherwise.
	InTx(ctx context.Context, fn func(Session) error) error
}

// Session is the set of writes an ingestion run performs inside its
// transaction.
type Session interface {
	Claim(ctx context.Context, file uuid.UUID) (*sourcefiles.SourceFile, error)
	Identities() identities.Lookup
	InsertRecord(ctx context.Context, rec records.Record) (records.Record, error)
	MarkProcessed(ctx context.Context, file uuid.UUID, count int) error
}

type pgStore struct {
	db      *sql.DB
	retries int
}

// NewStore returns a Store backed by db. retries bounds placeholder
// get-or-create attempts within each run.
func NewStore(db *sql.DB, retries int) Store {
	return &pgStore{db: db, retries: retries}
}

func (s *pgStore) InTx(ctx context.Context, fn func(Session) error) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, fn(&pgSession{
			tx:     tx,
			lookup: identities.NewLookup(tx, s.retries),
		})
	})
	return err
}

type pgSession struct {
	tx     *sql.Tx
	lookup identities.Lookup
}

func (s *pgSession) Claim(ctx context.Context, file uuid.UUID) (*sourcefiles.SourceFile, error) {
	return sourcefiles.Claim(ctx, s.tx, file)
}

func (s *pgSession) Identities() identities.Lookup {
	return s.lookup
}

func (s *pgSession) InsertRecord(ctx context.Context, rec records.Record) (records.Record, error) {
	return records.Insert(ctx, s.tx, rec)
}

func (s *pgSession) MarkProcessed(ctx context.Context, file uuid.UUID, count int) error {
	return sourcefiles.MarkProcessed(ctx, s.tx, file, count)
}
