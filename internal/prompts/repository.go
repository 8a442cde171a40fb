package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/pkg/pagination"
	"github.com/JaimeStill/forecourt/pkg/query"
	"github.com/JaimeStill/forecourt/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	fallback   string
}

// New creates a prompt repository implementing the System interface.
// fallback is returned by Instructions while no prompt is active.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	fallback string,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
		fallback:   fallback,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	pageSQL, pageArgs := page.Select(qb)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repoErrors.Map(err)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Prompt, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO prompts(id, name, instructions, description)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, projection.Returning())

	args := []any{uuid.New(), cmd.Name, cmd.Instructions, cmd.Description}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("prompt created", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE prompts
		SET name = $2, instructions = $3, description = $4, updated_at = now()
		WHERE id = $1
		RETURNING %s`, projection.Returning())

	args := []any{id, cmd.Name, cmd.Instructions, cmd.Description}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("prompt updated", "id", p.ID, "name", p.Name, "active", p.Active)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM prompts WHERE id = $1", id); err != nil {
		return repoErrors.Map(err)
	}

	r.logger.Info("prompt deleted", "id", id)
	return nil
}

func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q := fmt.Sprintf(`
		UPDATE prompts SET active = true, updated_at = now()
		WHERE id = $1
		RETURNING %s`, projection.Returning())

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		_, err := tx.ExecContext(
			ctx,
			"UPDATE prompts SET active = false, updated_at = now() WHERE active AND id <> $1",
			id,
		)
		if err != nil {
			return Prompt{}, fmt.Errorf("deactivate current: %w", err)
		}

		return repository.QueryOne(ctx, tx, q, []any{id}, scanPrompt)
	})
	if err != nil {
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("prompt activated", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q := fmt.Sprintf(`
		UPDATE prompts SET active = false, updated_at = now()
		WHERE id = $1
		RETURNING %s`, projection.Returning())

	p, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanPrompt)
	if err != nil {
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("prompt deactivated", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) Instructions(ctx context.Context) (string, error) {
	var instructions string
	err := r.db.QueryRowContext(ctx, "SELECT instructions FROM prompts WHERE active LIMIT 1").Scan(&instructions)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return r.fallback, nil
	case err != nil:
		return "", fmt.Errorf("active prompt: %w", err)
	}
	return instructions, nil
}
