package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/pkg/repository"
)

const logColumns = `id, email_id, case_id, action, actor, was_automatic,
	confidence, match_type, detail, created_at`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a classification log repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "audit"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Append(ctx context.Context, cmd AppendCommand) (*LogEntry, error) {
	insertQ := `
		INSERT INTO classification_log(
			email_id, case_id, action, actor, was_automatic,
			confidence, match_type, detail
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + logColumns

	insertArgs := []any{
		cmd.EmailID,
		cmd.CaseID,
		cmd.Action,
		cmd.Actor,
		cmd.WasAutomatic,
		cmd.Confidence,
		cmd.MatchType,
		cmd.Detail,
	}

	entry, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("append log entry: %w", err)
	}

	return &entry, nil
}

func (r *repo) ListByEmail(ctx context.Context, emailID uuid.UUID) ([]LogEntry, error) {
	entries, err := repository.QueryMany(
		ctx, r.db,
		`SELECT `+logColumns+`
		 FROM classification_log
		 WHERE email_id = $1
		 ORDER BY created_at`,
		[]any{emailID},
		scanEntry,
	)
	if err != nil {
		return nil, fmt.Errorf("query log by email: %w", err)
	}
	return entries, nil
}

func (r *repo) ListByCase(ctx context.Context, caseID uuid.UUID) ([]LogEntry, error) {
	entries, err := repository.QueryMany(
		ctx, r.db,
		`SELECT `+logColumns+`
		 FROM classification_log
		 WHERE case_id = $1
		 ORDER BY created_at`,
		[]any{caseID},
		scanEntry,
	)
	if err != nil {
		return nil, fmt.Errorf("query log by case: %w", err)
	}
	return entries, nil
}

func scanEntry(s repository.Scanner) (LogEntry, error) {
	var e LogEntry

	err := s.Scan(
		&e.ID,
		&e.EmailID,
		&e.CaseID,
		&e.Action,
		&e.Actor,
		&e.WasAutomatic,
		&e.Confidence,
		&e.MatchType,
		&e.Detail,
		&e.CreatedAt,
	)

	return e, err
}
