package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/audit"
	"github.com/praxislaw/docket/pkg/pagination"
	"github.com/praxislaw/docket/pkg/query"
	"github.com/praxislaw/docket/pkg/repository"
)

const pendingColumns = `id, email_id, firm_id, suggested_case_id, confidence,
	match_type, review_reason, reasons, alternatives, created_at, resolved_at,
	resolution, resolved_by`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a review queue repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "review"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Enqueue(ctx context.Context, cmd EnqueueCommand) (*PendingClassification, error) {
	reasons, err := json.Marshal(orEmpty(cmd.Reasons))
	if err != nil {
		return nil, fmt.Errorf("marshal reasons: %w", err)
	}

	alternatives, err := json.Marshal(cmd.Alternatives)
	if err != nil {
		return nil, fmt.Errorf("marshal alternatives: %w", err)
	}

	// One unresolved entry per email; a fresh classification replaces the
	// stale suggestion rather than queueing alongside it.
	upsertQ := `
		INSERT INTO pending_classifications(
			email_id, firm_id, suggested_case_id, confidence, match_type,
			review_reason, reasons, alternatives
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email_id) WHERE resolved_at IS NULL
		DO UPDATE SET
			firm_id = EXCLUDED.firm_id,
			suggested_case_id = EXCLUDED.suggested_case_id,
			confidence = EXCLUDED.confidence,
			match_type = EXCLUDED.match_type,
			review_reason = EXCLUDED.review_reason,
			reasons = EXCLUDED.reasons,
			alternatives = EXCLUDED.alternatives,
			created_at = NOW()
		RETURNING ` + pendingColumns

	upsertArgs := []any{
		cmd.EmailID,
		cmd.FirmID,
		cmd.SuggestedCaseID,
		cmd.Confidence,
		cmd.MatchType,
		cmd.ReviewReason,
		reasons,
		alternatives,
	}

	p, err := repository.QueryOne(ctx, r.db, upsertQ, upsertArgs, scanPending)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("classification queued",
		"id", p.ID,
		"email_id", p.EmailID,
		"reason", p.ReviewReason,
		"confidence", p.Confidence,
	)
	return &p, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[PendingClassification], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count pending classifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPending)
	if err != nil {
		return nil, fmt.Errorf("query pending classifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*PendingClassification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPending)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Assign(ctx context.Context, id uuid.UUID, cmd AssignCommand) (*PendingClassification, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (PendingClassification, error) {
		pending, err := lockPending(ctx, tx, id)
		if err != nil {
			return PendingClassification{}, err
		}

		if err := checkFirm(pending, cmd.FirmID); err != nil {
			return PendingClassification{}, err
		}

		var previousCaseID *uuid.UUID
		row := tx.QueryRowContext(ctx, "SELECT case_id FROM emails WHERE id = $1 FOR UPDATE", pending.EmailID)
		if err := row.Scan(&previousCaseID); err != nil {
			if err == sql.ErrNoRows {
				return PendingClassification{}, ErrEmailNotFound
			}
			return PendingClassification{}, fmt.Errorf("load email: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE emails SET case_id = $1, assigned_at = NOW() WHERE id = $2",
			cmd.CaseID, pending.EmailID,
		); err != nil {
			return PendingClassification{}, fmt.Errorf("assign email: %w", err)
		}

		resolved, err := resolvePending(ctx, tx, id, ResolutionAssigned, cmd.ResolvedBy)
		if err != nil {
			return PendingClassification{}, err
		}

		if err := appendLog(ctx, tx, assignLogEntry(pending, cmd, previousCaseID)); err != nil {
			return PendingClassification{}, err
		}

		return resolved, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("pending classification assigned",
		"id", p.ID,
		"email_id", p.EmailID,
		"case_id", cmd.CaseID,
		"resolved_by", cmd.ResolvedBy,
	)
	return &p, nil
}

func (r *repo) BulkAssign(ctx context.Context, cmd BulkAssignCommand) (*BulkResult, error) {
	result := runBulkAssign(cmd, func(item BulkAssignItem) error {
		_, err := r.Assign(ctx, item.ID, AssignCommand{
			CaseID:     item.CaseID,
			ResolvedBy: cmd.ResolvedBy,
			FirmID:     cmd.FirmID,
		})
		return err
	})

	r.logger.Info("bulk assignment finished",
		"requested", len(cmd.Items),
		"assigned", result.Assigned,
		"failed", len(result.Failures),
	)
	return result, nil
}

func (r *repo) Dismiss(ctx context.Context, id uuid.UUID, cmd DismissCommand) (*PendingClassification, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (PendingClassification, error) {
		pending, err := lockPending(ctx, tx, id)
		if err != nil {
			return PendingClassification{}, err
		}

		if err := checkFirm(pending, cmd.FirmID); err != nil {
			return PendingClassification{}, err
		}

		resolved, err := resolvePending(ctx, tx, id, ResolutionDismissed, cmd.ResolvedBy)
		if err != nil {
			return PendingClassification{}, err
		}

		if err := appendLog(ctx, tx, dismissLogEntry(pending, cmd)); err != nil {
			return PendingClassification{}, err
		}

		return resolved, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("pending classification dismissed",
		"id", p.ID,
		"email_id", p.EmailID,
		"resolved_by", cmd.ResolvedBy,
	)
	return &p, nil
}

// runBulkAssign resolves each item independently. One bad entry must not
// roll back the rest of the batch.
func runBulkAssign(cmd BulkAssignCommand, assign func(BulkAssignItem) error) *BulkResult {
	result := &BulkResult{Failures: []BulkFailure{}}

	for _, item := range cmd.Items {
		if err := assign(item); err != nil {
			result.Failures = append(result.Failures, BulkFailure{
				ID:    item.ID,
				Error: err.Error(),
			})
			continue
		}
		result.Assigned++
	}

	return result
}

// checkFirm rejects a mutation when the caller's firm does not own the
// entry. An empty firmID means the deployment runs without tenancy claims.
func checkFirm(pending PendingClassification, firmID string) error {
	if firmID != "" && pending.FirmID != "" && pending.FirmID != firmID {
		return ErrForbidden
	}
	return nil
}

// assignLogEntry builds the audit record for a manual assignment. A move is
// recorded when the email already belonged to a case.
func assignLogEntry(pending PendingClassification, cmd AssignCommand, previousCaseID *uuid.UUID) audit.AppendCommand {
	action := audit.ActionAssigned
	if previousCaseID != nil {
		action = audit.ActionMoved
	}

	return audit.AppendCommand{
		EmailID:      pending.EmailID,
		CaseID:       &cmd.CaseID,
		Action:       action,
		Actor:        cmd.ResolvedBy,
		WasAutomatic: false,
		Confidence:   pending.Confidence,
		MatchType:    pending.MatchType,
		Detail:       "resolved from review queue",
	}
}

// dismissLogEntry builds the audit record for a dismissal. The email keeps
// no case association, so the action is unassigned.
func dismissLogEntry(pending PendingClassification, cmd DismissCommand) audit.AppendCommand {
	return audit.AppendCommand{
		EmailID:      pending.EmailID,
		Action:       audit.ActionUnassigned,
		Actor:        cmd.ResolvedBy,
		WasAutomatic: false,
		Confidence:   pending.Confidence,
		MatchType:    pending.MatchType,
		Detail:       "dismissed from review queue",
	}
}

// lockPending loads a queue entry for update, rejecting entries that are
// already resolved.
func lockPending(ctx context.Context, tx *sql.Tx, id uuid.UUID) (PendingClassification, error) {
	lockQ := `
		SELECT ` + pendingColumns + `
		FROM pending_classifications
		WHERE id = $1
		FOR UPDATE`

	p, err := repository.QueryOne(ctx, tx, lockQ, []any{id}, scanPending)
	if err != nil {
		return PendingClassification{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if p.ResolvedAt != nil {
		return PendingClassification{}, ErrAlreadyResolved
	}
	return p, nil
}

func resolvePending(
	ctx context.Context,
	tx *sql.Tx,
	id uuid.UUID,
	resolution, resolvedBy string,
) (PendingClassification, error) {
	resolveQ := `
		UPDATE pending_classifications
		SET resolved_at = NOW(), resolution = $1, resolved_by = $2
		WHERE id = $3
		RETURNING ` + pendingColumns

	p, err := repository.QueryOne(ctx, tx, resolveQ, []any{resolution, resolvedBy, id}, scanPending)
	if err != nil {
		return PendingClassification{}, fmt.Errorf("resolve pending classification: %w", err)
	}
	return p, nil
}

func appendLog(ctx context.Context, tx *sql.Tx, cmd audit.AppendCommand) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO classification_log(
			email_id, case_id, action, actor, was_automatic,
			confidence, match_type, detail
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		cmd.EmailID,
		cmd.CaseID,
		cmd.Action,
		cmd.Actor,
		cmd.WasAutomatic,
		cmd.Confidence,
		cmd.MatchType,
		cmd.Detail,
	)
	if err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	return nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
