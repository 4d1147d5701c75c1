package plans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfarer/internal/progress"
	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/internal/workflow"
	"github.com/JaimeStill/wayfarer/pkg/pagination"
	"github.com/JaimeStill/wayfarer/pkg/query"
	"github.com/JaimeStill/wayfarer/pkg/repository"
	"github.com/JaimeStill/wayfarer/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	rt         *workflow.Runtime
	logger     *slog.Logger
	pagination pagination.Config
	prefix     string
}

// New creates a plan repository implementing System. Artifacts of each plan
// are stored under prefix/<plan id>.
func New(
	db *sql.DB,
	store storage.System,
	rt *workflow.Runtime,
	logger *slog.Logger,
	pagination pagination.Config,
	prefix string,
) System {
	return &repo{
		db:         db,
		storage:    store,
		rt:         rt,
		logger:     logger.With("system", "plans"),
		pagination: pagination,
		prefix:     prefix,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Plan], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Origin", "Destination")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count plans: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPlan)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Plan, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPlan)
	if err != nil {
		return nil, errs.Map(err)
	}
	return &p, nil
}

func (r *repo) Plan(ctx context.Context, cmd CreateCommand, display progress.Display) (*Plan, error) {
	params, err := cmd.Params()
	if err != nil {
		return nil, err
	}

	p, err := r.insert(ctx, params)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "plan started", "id", p.ID, "destination", p.Destination)

	sink := progress.NewSink(display)
	run, runErr := workflow.Execute(ctx, r.rt.WithProgress(sink), params)
	sink.Flush()

	// The outcome is recorded even when the caller has gone away.
	rctx := context.WithoutCancel(ctx)

	if runErr != nil {
		failed, err := r.fail(rctx, p.ID, runErr)
		if err != nil {
			r.logger.ErrorContext(ctx, "record plan failure", "id", p.ID, "error", err)
			return p, runErr
		}
		return failed, runErr
	}

	if err := workflow.PersistArtifacts(rctx, r.storage, r.rt.Stages(), p.ArtifactPrefix, run); err != nil {
		r.logger.WarnContext(ctx, "artifact persistence failed", "id", p.ID, "error", err)
	}

	done, err := r.complete(rctx, p.ID, run)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "plan completed", "id", done.ID)
	return done, nil
}

func (r *repo) insert(ctx context.Context, params workflow.TripParameters) (*Plan, error) {
	id := uuid.New()

	q := `
		INSERT INTO plans AS p (id, origin, destination, interests, start_date, end_date, artifact_prefix)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + projection.Columns()

	args := []any{
		id,
		params.Origin,
		params.Destination,
		Interests(params.Interests),
		params.StartDate,
		params.EndDate,
		storage.Key(r.prefix, id.String()),
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Plan, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPlan)
	})
	if err != nil {
		return nil, errs.Map(err)
	}
	return &p, nil
}

func (r *repo) complete(ctx context.Context, id uuid.UUID, run *workflow.PipelineRun) (*Plan, error) {
	q := `
		UPDATE plans AS p
		SET status = $2, itinerary = $3, completed_at = $4
		WHERE p.id = $1
		RETURNING ` + projection.Columns()

	args := []any{id, StatusCompleted, run.Final(), run.CompletedAt}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPlan)
	if err != nil {
		return nil, errs.Map(err)
	}
	return &p, nil
}

func (r *repo) fail(ctx context.Context, id uuid.UUID, cause error) (*Plan, error) {
	stage, kind := failureDetail(cause)

	q := `
		UPDATE plans AS p
		SET status = $2, failure = $3, failure_stage = $4, failure_kind = $5, completed_at = $6
		WHERE p.id = $1
		RETURNING ` + projection.Columns()

	args := []any{id, StatusFailed, cause.Error(), stage, kind, time.Now()}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPlan)
	if err != nil {
		return nil, errs.Map(err)
	}
	return &p, nil
}

// failureDetail returns the failing stage (nil when none ran) and the kind
// label of a pipeline error.
func failureDetail(err error) (*string, string) {
	var se *workflow.StageError
	if errors.As(err, &se) {
		kind := workflow.KindName(se.Kind)
		if se.Stage == "" {
			return nil, kind
		}
		stage := string(se.Stage)
		return &stage, kind
	}
	return nil, workflow.KindName(workflow.Classify(err))
}

func (r *repo) Artifact(ctx context.Context, id uuid.UUID, stage prompts.Stage) (io.ReadCloser, error) {
	def, err := r.rt.Stages().Lookup(stage)
	if err != nil {
		return nil, err
	}

	p, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusCompleted {
		return nil, ErrNotReady
	}

	rc, err := r.storage.Download(ctx, workflow.ArtifactKey(p.ArtifactPrefix, def))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s artifact", ErrNotFound, stage)
	}
	return rc, err
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecOne(ctx, tx, "DELETE FROM plans WHERE id = $1", id)
	})
	if err != nil {
		return errs.Map(err)
	}

	for _, def := range r.rt.Stages() {
		key := workflow.ArtifactKey(p.ArtifactPrefix, def)
		if err := r.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.WarnContext(ctx, "artifact delete failed after plan delete", "key", key, "error", err)
		}
	}

	r.logger.InfoContext(ctx, "plan deleted", "id", id)
	return nil
}
