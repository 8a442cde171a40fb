package verifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/pkg/pagination"
)

// System defines the public contract for the verification queue.
type System interface {
	Handler() *Handler

	Enqueue(ctx context.Context, cmd EnqueueCommand) (*Verification, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Verification], error)

	Find(ctx context.Context, id uuid.UUID) (*Verification, error)

	// Resolve links a pending entry to a car. Returns ErrNotPending for closed entries.
	Resolve(ctx context.Context, id uuid.UUID, cmd ResolveCommand) (*Verification, error)
	// Dismiss closes a pending entry. Returns ErrNotPending for closed entries.
	Dismiss(ctx context.Context, id uuid.UUID, cmd DismissCommand) (*Verification, error)
}
