package emails

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

// New creates an email repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "emails"),
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
) (*pagination.PageResult[Email], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Subject", "SenderAddress", "BodyPreview")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count emails: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEmail)
	if err != nil {
		return nil, fmt.Errorf("query emails: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Email, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEmail)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Import(ctx context.Context, cmd ImportCommand) (*Email, error) {
	insertQ := `
		INSERT INTO emails(
			client_id, firm_id, subject, sender_name, sender_address,
			body_text, body_preview, received_at, has_attachments
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, client_id, firm_id, case_id, subject, sender_name,
				  sender_address, body_text, body_preview, received_at,
				  has_attachments, assigned_at, created_at`

	insertArgs := []any{
		cmd.ClientID,
		cmd.FirmID,
		cmd.Subject,
		cmd.SenderName,
		cmd.SenderAddress,
		cmd.BodyText,
		cmd.BodyPreview,
		cmd.ReceivedAt,
		cmd.HasAttachments,
	}

	e, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanEmail)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("email imported",
		"id", e.ID,
		"client_id", e.ClientID,
		"sender", e.SenderAddress,
	)
	return &e, nil
}

func (r *repo) ByParticipants(ctx context.Context, addresses []string) ([]Email, error) {
	values := make([]any, 0, len(addresses))
	for _, a := range addresses {
		values = append(values, a)
	}

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereIn("SenderAddress", values)

	listSQL, listArgs := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, listSQL, listArgs, scanEmail)
	if err != nil {
		return nil, fmt.Errorf("query emails by participants: %w", err)
	}

	return items, nil
}

func (r *repo) UnassignedForClient(ctx context.Context, clientID uuid.UUID) ([]Email, error) {
	qb := query.
		NewBuilder(projection, query.SortField{Field: "ReceivedAt"}).
		WhereEquals("ClientID", &clientID).
		WhereNullable("CaseID", nil)

	listSQL, listArgs := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, listSQL, listArgs, scanEmail)
	if err != nil {
		return nil, fmt.Errorf("query unassigned emails: %w", err)
	}

	return items, nil
}
