package cases

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/pkg/pagination"
	"github.com/praxislaw/docket/pkg/query"
	"github.com/praxislaw/docket/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a case repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "cases"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Case], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Case, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if c.Actors, err = r.actorsFor(ctx, c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Case, error) {
	keywords, err := encodeList(cmd.Keywords)
	if err != nil {
		return nil, fmt.Errorf("marshal keywords: %w", err)
	}
	references, err := encodeList(cmd.ReferenceNumbers)
	if err != nil {
		return nil, fmt.Errorf("marshal reference_numbers: %w", err)
	}
	patterns, err := encodeList(cmd.SubjectPatterns)
	if err != nil {
		return nil, fmt.Errorf("marshal subject_patterns: %w", err)
	}

	insertQ := `
		INSERT INTO cases(
			client_id, title, case_type, status, description,
			keywords, reference_numbers, subject_patterns, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, client_id, title, case_type, status, description,
				  keywords, reference_numbers, subject_patterns, notes,
				  created_at, updated_at`

	insertArgs := []any{
		cmd.ClientID,
		cmd.Title,
		cmd.CaseType,
		StatusActive,
		cmd.Description,
		keywords,
		references,
		patterns,
		cmd.Notes,
	}

	c, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	c.Actors = []Actor{}

	r.logger.Info("case created",
		"id", c.ID,
		"client_id", c.ClientID,
		"title", c.Title,
	)
	return &c, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Case, error) {
	keywords, err := encodeList(cmd.Keywords)
	if err != nil {
		return nil, fmt.Errorf("marshal keywords: %w", err)
	}
	references, err := encodeList(cmd.ReferenceNumbers)
	if err != nil {
		return nil, fmt.Errorf("marshal reference_numbers: %w", err)
	}
	patterns, err := encodeList(cmd.SubjectPatterns)
	if err != nil {
		return nil, fmt.Errorf("marshal subject_patterns: %w", err)
	}

	updateQ := `
		UPDATE cases
		SET title = $1, case_type = $2, description = $3, keywords = $4,
			reference_numbers = $5, subject_patterns = $6, notes = $7,
			updated_at = NOW()
		WHERE id = $8
		RETURNING id, client_id, title, case_type, status, description,
				  keywords, reference_numbers, subject_patterns, notes,
				  created_at, updated_at`

	updateArgs := []any{
		cmd.Title,
		cmd.CaseType,
		cmd.Description,
		keywords,
		references,
		patterns,
		cmd.Notes,
		id,
	}

	c, err := repository.QueryOne(ctx, r.db, updateQ, updateArgs, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if c.Actors, err = r.actorsFor(ctx, c.ID); err != nil {
		return nil, err
	}

	r.logger.Info("case updated", "id", c.ID)
	return &c, nil
}

func (r *repo) Archive(ctx context.Context, id uuid.UUID) (*Case, error) {
	archiveQ := `
		UPDATE cases
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, client_id, title, case_type, status, description,
				  keywords, reference_numbers, subject_patterns, notes,
				  created_at, updated_at`

	c, err := repository.QueryOne(ctx, r.db, archiveQ, []any{StatusArchived, id}, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("case archived", "id", c.ID)
	return &c, nil
}

func (r *repo) AddActor(ctx context.Context, caseID uuid.UUID, cmd AddActorCommand) (*Actor, error) {
	patterns, err := encodeList(cmd.DomainPatterns)
	if err != nil {
		return nil, fmt.Errorf("marshal domain_patterns: %w", err)
	}

	insertQ := `
		INSERT INTO case_actors(case_id, name, email, domain_patterns)
		VALUES ($1, $2, $3, $4)
		RETURNING id, case_id, name, email, domain_patterns`

	a, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{caseID, cmd.Name, cmd.Email, patterns},
		scanActor,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("actor added", "case_id", caseID, "actor_id", a.ID, "email", a.Email)
	return &a, nil
}

func (r *repo) RemoveActor(ctx context.Context, caseID, actorID uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM case_actors WHERE id = $1 AND case_id = $2",
		actorID, caseID,
	)
	if err != nil {
		return repository.MapError(err, ErrActorNotFound, ErrDuplicate)
	}

	r.logger.Info("actor removed", "case_id", caseID, "actor_id", actorID)
	return nil
}

func (r *repo) ActiveForClient(ctx context.Context, clientID uuid.UUID) ([]Case, error) {
	status := StatusActive
	qb := query.
		NewBuilder(projection, query.SortField{Field: "CreatedAt"}).
		WhereEquals("ClientID", &clientID).
		WhereEquals("Status", &status)

	listSQL, listArgs := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, listSQL, listArgs, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query active cases: %w", err)
	}

	for i := range items {
		if items[i].Actors, err = r.actorsFor(ctx, items[i].ID); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (r *repo) ListSources(ctx context.Context, firmID string) ([]GlobalSource, error) {
	qb := query.NewBuilder(sourceProjection, sourceSort)
	if firmID != "" {
		qb.WhereEquals("FirmID", firmID)
	}

	listSQL, listArgs := qb.Build()

	items, err := repository.QueryMany(ctx, r.db, listSQL, listArgs, scanSource)
	if err != nil {
		return nil, fmt.Errorf("query global sources: %w", err)
	}
	return items, nil
}

func (r *repo) CreateSource(ctx context.Context, cmd CreateSourceCommand) (*GlobalSource, error) {
	emails, err := encodeList(cmd.Emails)
	if err != nil {
		return nil, fmt.Errorf("marshal emails: %w", err)
	}
	patterns, err := encodeList(cmd.DomainPatterns)
	if err != nil {
		return nil, fmt.Errorf("marshal domain_patterns: %w", err)
	}

	insertQ := `
		INSERT INTO global_sources(firm_id, name, category, emails, domain_patterns)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, firm_id, name, category, emails, domain_patterns, created_at`

	gs, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{cmd.FirmID, cmd.Name, cmd.Category, emails, patterns},
		scanSource,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrSourceNotFound, ErrDuplicate)
	}

	r.logger.Info("global source created", "id", gs.ID, "name", gs.Name, "category", gs.Category)
	return &gs, nil
}

func (r *repo) DeleteSource(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM global_sources WHERE id = $1",
		id,
	)
	if err != nil {
		return repository.MapError(err, ErrSourceNotFound, ErrDuplicate)
	}

	r.logger.Info("global source deleted", "id", id)
	return nil
}

func (r *repo) actorsFor(ctx context.Context, caseID uuid.UUID) ([]Actor, error) {
	actors, err := repository.QueryMany(
		ctx, r.db,
		`SELECT id, case_id, name, email, domain_patterns
		 FROM case_actors
		 WHERE case_id = $1
		 ORDER BY name`,
		[]any{caseID},
		scanActor,
	)
	if err != nil {
		return nil, fmt.Errorf("query case actors: %w", err)
	}
	return actors, nil
}
