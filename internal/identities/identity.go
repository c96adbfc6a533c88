// Package identities implements identity resolution for ingested records.
// Registered accounts are owned by the account subsystem and only read here.
// Placeholders are minimal identities provisioned lazily, one per external
// identifier, for subjects that have no account.
package identities

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered platform account. ExternalID is the subject's
// unique national or tax identifier and is nil for accounts that never
// supplied one.
type Account struct {
	ID         uuid.UUID `json:"id"`
	ExternalID *string   `json:"external_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Placeholder is an identity for a subject without an account, keyed
// uniquely by ExternalID.
type Placeholder struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ExternalID string    `json:"external_id"`
	Email      *string   `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// Resolution is the outcome of resolving a row's subject. It is one of
// Registered, Provisional, or Unidentified.
type Resolution interface {
	resolution()
}

// Registered links the subject to an existing account.
type Registered struct {
	Account Account
}

// Provisional links the subject to a placeholder. Created reports whether
// this resolution provisioned the placeholder.
type Provisional struct {
	Placeholder Placeholder
	Created     bool
}

// Unidentified is the outcome for rows that carry no identifier.
type Unidentified struct{}

func (Registered) resolution()   {}
func (Provisional) resolution()  {}
func (Unidentified) resolution() {}

// Links returns the account and placeholder foreign keys for a resolution.
// At most one of the two is non-nil.
func Links(r Resolution) (account, placeholder *uuid.UUID) {
	switch v := r.(type) {
	case Registered:
		id := v.Account.ID
		return &id, nil
	case Provisional:
		id := v.Placeholder.ID
		return nil, &id
	default:
		return nil, nil
	}
}
