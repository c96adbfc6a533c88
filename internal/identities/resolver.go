package identities

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultPlaceholderName seeds placeholders created from rows with a blank name.
const DefaultPlaceholderName = "Desconocido"

// Lookup is the storage surface the resolver needs. Implementations are
// usually bound to the ingestion transaction.
type Lookup interface {
	// FindAccount returns the account with the given external identifier,
	// or ErrNotFound.
	FindAccount(ctx context.Context, externalID string) (*Account, error)
	// GetOrCreatePlaceholder atomically returns the placeholder keyed by
	// externalID, creating it with name when absent.
	GetOrCreatePlaceholder(ctx context.Context, externalID, name string) (*Placeholder, bool, error)
}

// Resolver maps a row's subject to a Resolution.
type Resolver struct {
	lookup       Lookup
	fallbackName string
}

// NewResolver creates a Resolver over lookup. A blank fallbackName selects
// DefaultPlaceholderName.
func NewResolver(lookup Lookup, fallbackName string) *Resolver {
	if strings.TrimSpace(fallbackName) == "" {
		fallbackName = DefaultPlaceholderName
	}
	return &Resolver{
		lookup:       lookup,
		fallbackName: fallbackName,
	}
}

// Resolve returns Unidentified for a blank identifier, Registered when an
// account carries the identifier, and otherwise the placeholder for it.
// Accounts always take priority: no placeholder is read or written when an
// account matches.
func (r *Resolver) Resolve(ctx context.Context, externalID, name string) (Resolution, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return Unidentified{}, nil
	}

	account, err := r.lookup.FindAccount(ctx, externalID)
	switch {
	case err == nil:
		return Registered{Account: *account}, nil
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("find account %q: %w", externalID, err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = r.fallbackName
	}

	p, created, err := r.lookup.GetOrCreatePlaceholder(ctx, externalID, name)
	if err != nil {
		return nil, fmt.Errorf("placeholder %q: %w", externalID, err)
	}

	return Provisional{Placeholder: *p, Created: created}, nil
}
