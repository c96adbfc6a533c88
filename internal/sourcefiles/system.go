package sourcefiles

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/pkg/pagination"
)

// System defines the public contract for source file operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[SourceFile], error)

	Find(ctx context.Context, id uuid.UUID) (*SourceFile, error)
	Create(ctx context.Context, cmd CreateCommand) (*SourceFile, error)
	Payload(ctx context.Context, file *SourceFile) ([]byte, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
