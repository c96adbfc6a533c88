package identities

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/pkg/pagination"
)

// System defines the public contract for identity read operations.
type System interface {
	Handler() *Handler

	ListPlaceholders(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Placeholder], error)

	FindPlaceholder(ctx context.Context, id uuid.UUID) (*Placeholder, error)
	FindAccount(ctx context.Context, externalID string) (*Account, error)
}
