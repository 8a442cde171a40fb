package audit

import (
	"context"

	"github.com/JaimeStill/forecourt/pkg/pagination"
)

// System defines the contract for the identification log. Entries are never updated
// or deleted.
type System interface {
	Handler() *Handler

	Record(ctx context.Context, cmd RecordCommand) (*Entry, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error)
}
