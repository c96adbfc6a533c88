package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/tally/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("some other error")
	fk := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key passthrough", fk, fk},
		{"other passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if got != tt.want {
				t.Errorf("MapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestViolationHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	if !repository.IsUniqueViolation(unique) {
		t.Error("IsUniqueViolation(wrapped 23505) = false, want true")
	}
	if repository.IsUniqueViolation(fk) {
		t.Error("IsUniqueViolation(23503) = true, want false")
	}
	if !repository.IsForeignKeyViolation(fk) {
		t.Error("IsForeignKeyViolation(23503) = false, want true")
	}
	if repository.IsForeignKeyViolation(errors.New("plain")) {
		t.Error("IsForeignKeyViolation(plain) = true, want false")
	}
}

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	ok := func(v string) func(context.Context) (string, error) {
		return func(context.Context) (string, error) { return v, nil }
	}
	fail := func(err error) func(context.Context) (string, error) {
		return func(context.Context) (string, error) { return "", err }
	}

	t.Run("insert wins", func(t *testing.T) {
		got, created, err := repository.GetOrCreate(ctx, 3, ok("new"), fail(boom))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "new" || !created {
			t.Errorf("got (%q, %v), want (new, true)", got, created)
		}
	})

	t.Run("conflict reads existing", func(t *testing.T) {
		got, created, err := repository.GetOrCreate(ctx, 3, fail(sql.ErrNoRows), ok("existing"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "existing" || created {
			t.Errorf("got (%q, %v), want (existing, false)", got, created)
		}
	})

	t.Run("unique violation reads existing", func(t *testing.T) {
		_, created, err := repository.GetOrCreate(ctx, 3, fail(&pgconn.PgError{Code: "23505"}), ok("existing"))
		if err != nil || created {
			t.Errorf("got (created=%v, err=%v), want (false, nil)", created, err)
		}
	})

	t.Run("insert failure", func(t *testing.T) {
		_, _, err := repository.GetOrCreate(ctx, 3, fail(boom), ok("unused"))
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want wrapping %v", err, boom)
		}
	})

	t.Run("find failure", func(t *testing.T) {
		_, _, err := repository.GetOrCreate(ctx, 3, fail(sql.ErrNoRows), fail(boom))
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want wrapping %v", err, boom)
		}
	})

	t.Run("retries until resolved", func(t *testing.T) {
		inserts := 0
		insert := func(context.Context) (string, error) {
			inserts++
			if inserts < 3 {
				return "", sql.ErrNoRows
			}
			return "third", nil
		}

		got, created, err := repository.GetOrCreate(ctx, 3, insert, fail(sql.ErrNoRows))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "third" || !created || inserts != 3 {
			t.Errorf("got (%q, %v) after %d inserts, want (third, true) after 3", got, created, inserts)
		}
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		_, _, err := repository.GetOrCreate(ctx, 2, fail(sql.ErrNoRows), fail(sql.ErrNoRows))
		if !errors.Is(err, repository.ErrConflictUnresolved) {
			t.Errorf("err = %v, want %v", err, repository.ErrConflictUnresolved)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := repository.GetOrCreate(cctx, 3, ok("unused"), ok("unused"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want %v", err, context.Canceled)
		}
	})
}
