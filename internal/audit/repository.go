package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/pagination"
	"github.com/JaimeStill/forecourt/pkg/query"
	"github.com/JaimeStill/forecourt/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an identification log implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "audit"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Entry, error) {
	q := fmt.Sprintf(`
		INSERT INTO identifications(id, source, descriptor, status, stage, car_id, trace)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, projection.Returning())

	args := []any{
		uuid.New(),
		cmd.Source,
		repository.JSON[identify.Descriptor]{V: cmd.Descriptor},
		cmd.Outcome.Status.String(),
		cmd.Outcome.Stage,
		cmd.carID(),
		repository.JSON[identify.Trace]{V: cmd.Outcome.Trace},
	}

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("record identification: %w", err)
	}

	r.logger.Debug("identification recorded", "id", e.ID, "status", e.Status, "stage", e.Stage)
	return &e, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Source", "Stage")
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count identifications: %w", err)
	}

	pageSQL, pageArgs := page.Select(qb)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query identifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
