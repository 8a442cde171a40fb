package verifications

import (
	"context"
	"database/sql"
	"errors"
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

// New creates a verification repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "verifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Enqueue(ctx context.Context, cmd EnqueueCommand) (*Verification, error) {
	if cmd.Outcome.Status == identify.Found {
		return nil, fmt.Errorf("%w: found outcomes are not queued", ErrInvalid)
	}

	q := fmt.Sprintf(`
		INSERT INTO verifications(id, source, descriptor, reason, stage, trace)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, projection.Returning())

	args := []any{
		uuid.New(),
		cmd.Source,
		repository.JSON[identify.Descriptor]{V: cmd.Descriptor},
		reason(cmd.Outcome),
		cmd.Outcome.Stage,
		repository.JSON[identify.Trace]{V: cmd.Outcome.Trace},
	}

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVerification)
	if err != nil {
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("verification queued", "id", v.ID, "source", v.Source, "reason", v.Reason, "stage", v.Stage)
	return &v, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Verification], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Source")
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count verifications: %w", err)
	}

	pageSQL, pageArgs := page.Select(qb)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanVerification)
	if err != nil {
		return nil, fmt.Errorf("query verifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Verification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVerification)
	if err != nil {
		return nil, repoErrors.Map(err)
	}
	return &v, nil
}

func (r *repo) Resolve(ctx context.Context, id uuid.UUID, cmd ResolveCommand) (*Verification, error) {
	if cmd.CarID == uuid.Nil {
		return nil, fmt.Errorf("%w: car_id required", ErrInvalid)
	}

	v, err := r.close(ctx, id, StatusResolved, &cmd.CarID, cmd.By)
	if err != nil {
		return nil, err
	}

	r.logger.Info("verification resolved", "id", id, "car_id", cmd.CarID, "by", v.ResolvedBy)
	return v, nil
}

func (r *repo) Dismiss(ctx context.Context, id uuid.UUID, cmd DismissCommand) (*Verification, error) {
	v, err := r.close(ctx, id, StatusDismissed, nil, cmd.By)
	if err != nil {
		return nil, err
	}

	r.logger.Info("verification dismissed", "id", id, "by", v.ResolvedBy)
	return v, nil
}

// close moves a pending entry to status. A missing row is ErrNotFound and a row in
// any other state is ErrNotPending.
func (r *repo) close(ctx context.Context, id uuid.UUID, status string, carID *uuid.UUID, by string) (*Verification, error) {
	q := fmt.Sprintf(`
		UPDATE verifications
		SET status = $2, car_id = $3, resolved_by = $4, resolved_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING %s`, projection.Returning())

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Verification, error) {
		v, err := repository.QueryOne(ctx, tx, q, []any{id, status, carID, by}, scanVerification)
		if !errors.Is(err, sql.ErrNoRows) {
			return v, err
		}

		var current string
		if err := tx.QueryRowContext(ctx, "SELECT status FROM verifications WHERE id = $1", id).Scan(&current); err != nil {
			return Verification{}, err
		}
		return Verification{}, fmt.Errorf("%w: status is %s", ErrNotPending, current)
	})
	if err != nil {
		return nil, repoErrors.Map(err)
	}
	return &v, nil
}
