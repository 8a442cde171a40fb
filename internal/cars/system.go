package cars

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/pagination"
)

// System defines the public contract for inventory operations.
// It also serves as the identify.Store for the identification cascade.
type System interface {
	identify.Store

	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Car], error)

	Find(ctx context.Context, id uuid.UUID) (*Car, error)
	Create(ctx context.Context, cmd CreateCommand) (*Car, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Car, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ApplySighting records a car seen again in a chat message.
	ApplySighting(ctx context.Context, id uuid.UUID, cmd SightingCommand) (*Car, error)
	// AddPhoto stores a photo blob and appends its key to the car.
	AddPhoto(ctx context.Context, id uuid.UUID, cmd PhotoCommand) (*Car, error)
}
