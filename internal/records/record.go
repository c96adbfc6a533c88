// Package records stores the accounting records produced by ingestion and
// exposes them for querying.
package records

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is one accounting entry derived from a row of an uploaded file.
// At most one of AccountID and PlaceholderID is set; both are nil for rows
// that carried no identifier.
type Record struct {
	ID            uuid.UUID           `json:"id"`
	SourceFileID  uuid.UUID           `json:"source_file_id"`
	AccountID     *uuid.UUID          `json:"account_id"`
	PlaceholderID *uuid.UUID          `json:"placeholder_id"`
	ExternalID    *string             `json:"external_id"`
	Name          string              `json:"name"`
	Date          time.Time           `json:"date"`
	Amount        decimal.Decimal     `json:"amount"`
	Description   *string             `json:"description"`
	Salary        decimal.NullDecimal `json:"salary"`
	PaidAt        *time.Time          `json:"paid_at"`
	Email         *string             `json:"email"`
	CreatedAt     time.Time           `json:"created_at"`
}
