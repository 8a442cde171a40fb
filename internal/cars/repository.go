package cars

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/pagination"
	"github.com/JaimeStill/forecourt/pkg/query"
	"github.com/JaimeStill/forecourt/pkg/repository"
	"github.com/JaimeStill/forecourt/pkg/storage"
)

type repo struct {
	db            *sql.DB
	storage       storage.System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// New creates a car repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) System {
	return &repo{
		db:            db,
		storage:       store,
		logger:        logger.With("system", "cars"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Car], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Make", "Model", "Badge", "Rego", "Description")

	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count cars: %w", err)
	}

	pageSQL, pageArgs := page.Select(qb)
	cars, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCar)
	if err != nil {
		return nil, fmt.Errorf("query cars: %w", err)
	}

	result := pagination.NewPageResult(cars, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Car, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCar)
	if err != nil {
		return nil, repoErrors.Map(err)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Car, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO cars(id, make, model, badge, rego, description, location, status, stage, checklist, next_locations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s`, projection.Returning())

	args := []any{
		uuid.New(),
		cmd.Make,
		cmd.Model,
		cmd.Badge,
		cmd.Rego,
		cmd.Description,
		cmd.Location,
		cmd.Status,
		cmd.Stage,
		repository.JSON[[]string]{V: cmd.Checklist},
		repository.JSON[[]string]{V: cmd.NextLocations},
	}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCar)
	if err != nil {
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("car created", "id", c.ID, "make", c.Make, "model", c.Model, "rego", c.Rego)
	return &c, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Car, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE cars SET
			make = $2, model = $3, badge = $4, rego = $5, description = $6, location = $7,
			status = $8, stage = $9, checklist = $10, next_locations = $11, updated_at = now()
		WHERE id = $1
		RETURNING %s`, projection.Returning())

	args := []any{
		id,
		cmd.Make,
		cmd.Model,
		cmd.Badge,
		cmd.Rego,
		cmd.Description,
		cmd.Location,
		cmd.Status,
		cmd.Stage,
		repository.JSON[[]string]{V: cmd.Checklist},
		repository.JSON[[]string]{V: cmd.NextLocations},
	}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCar)
	if err != nil {
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("car updated", "id", c.ID)
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM cars WHERE id = $1", id); err != nil {
		return repoErrors.Map(err)
	}

	for _, key := range c.Photos {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("photo delete failed after car delete", "key", key, "error", delErr)
		}
	}

	r.logger.Info("car deleted", "id", id)
	return nil
}

func (r *repo) ApplySighting(ctx context.Context, id uuid.UUID, cmd SightingCommand) (*Car, error) {
	selectQ, selectArgs := query.NewBuilder(projection).BuildSingle("ID", id)
	selectQ += " FOR UPDATE"

	updateQ := fmt.Sprintf(`
		UPDATE cars SET location = $2, description = $3, next_locations = $4, updated_at = now()
		WHERE id = $1
		RETURNING %s`, projection.Returning())

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Car, error) {
		current, err := repository.QueryOne(ctx, tx, selectQ, selectArgs, scanCar)
		if err != nil {
			return Car{}, err
		}

		next, changed := cmd.apply(current)
		if !changed {
			return current, nil
		}

		return repository.QueryOne(ctx, tx, updateQ, []any{
			id,
			next.Location,
			next.Description,
			repository.JSON[[]string]{V: next.NextLocations},
		}, scanCar)
	})
	if err != nil {
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("sighting applied", "id", id, "location", c.Location)
	return &c, nil
}

func (r *repo) AddPhoto(ctx context.Context, id uuid.UUID, cmd PhotoCommand) (*Car, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrInvalidFile
	}
	if r.maxUploadSize > 0 && int64(len(cmd.Data)) > r.maxUploadSize {
		return nil, ErrFileTooLarge
	}

	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	key := photoKey(id, cmd.Filename)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	q := fmt.Sprintf(`
		UPDATE cars SET photos = photos || jsonb_build_array($2::text), updated_at = now()
		WHERE id = $1
		RETURNING %s`, projection.Returning())

	c, err := repository.QueryOne(ctx, r.db, q, []any{id, key}, scanCar)
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating photo delete failed", "key", key, "error", delErr)
		}
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("photo added", "id", id, "key", key)
	return &c, nil
}

// Match implements identify.Store.
func (r *repo) Match(ctx context.Context, c identify.Criteria) ([]identify.Record, error) {
	q, args := matchQuery(c)
	recs, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("match cars: %w", err)
	}
	return recs, nil
}

func photoKey(id uuid.UUID, filename string) string {
	name := filepath.Base(filename)
	if name == "." || name == "/" || name == "" {
		name = "photo"
	}
	return fmt.Sprintf("cars/%s/%s-%s", id, uuid.NewString()[:8], url.PathEscape(name))
}
