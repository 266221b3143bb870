package triage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/audit"
	"github.com/praxislaw/docket/internal/cases"
	"github.com/praxislaw/docket/internal/classify"
	"github.com/praxislaw/docket/internal/emails"
	"github.com/praxislaw/docket/internal/review"
	"github.com/praxislaw/docket/pkg/middleware"
	"github.com/praxislaw/docket/pkg/repository"
)

type service struct {
	db     *sql.DB
	engine *classify.Engine
	emails emails.System
	cases  cases.System
	review review.System
	logger *slog.Logger
}

// New creates a triage service implementing the System interface.
func New(
	db *sql.DB,
	engine *classify.Engine,
	emailSys emails.System,
	caseSys cases.System,
	reviewSys review.System,
	logger *slog.Logger,
) System {
	return &service{
		db:     db,
		engine: engine,
		emails: emailSys,
		cases:  caseSys,
		review: reviewSys,
		logger: logger.With("system", "triage"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) ClassifyEmail(ctx context.Context, emailID uuid.UUID) (*classify.Result, error) {
	email, err := s.emails.Find(ctx, emailID)
	if err != nil {
		return nil, err
	}

	// Tenancy rejection happens before any scoring or mutation.
	if !firmAllowed(ctx, email.FirmID) {
		return nil, ErrForbidden
	}

	candidates, sources, err := s.loadContext(ctx, email.ClientID, email.FirmID)
	if err != nil {
		return nil, err
	}

	result := s.engine.Classify(ctx, email.ClassificationView(), candidates, sources)

	if err := s.applyResult(ctx, &result, email.FirmID); err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *service) ClassifyClient(ctx context.Context, clientID uuid.UUID) (*classify.BatchResult, error) {
	unassigned, err := s.emails.UnassignedForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	// Tenancy rejection happens before any scoring or mutation.
	var firm string
	firms := make(map[uuid.UUID]string, len(unassigned))
	for i := range unassigned {
		if !firmAllowed(ctx, unassigned[i].FirmID) {
			return nil, ErrForbidden
		}
		firm = unassigned[i].FirmID
		firms[unassigned[i].ID] = unassigned[i].FirmID
	}

	candidates, sources, err := s.loadContext(ctx, clientID, firm)
	if err != nil {
		return nil, err
	}

	views := make([]classify.Email, 0, len(unassigned))
	for i := range unassigned {
		views = append(views, unassigned[i].ClassificationView())
	}

	batch := s.engine.ClassifyBatch(ctx, views, candidates, sources)

	for i := range batch.Results {
		result := &batch.Results[i]
		if err := s.applyResult(ctx, result, firms[result.EmailID]); err != nil {
			// Persisting one outcome must not discard the rest of the run.
			s.logger.Error("apply classification outcome",
				"email_id", result.EmailID,
				"error", err,
			)
		}
	}

	s.logger.Info("client mailbox classified",
		"client_id", clientID,
		"emails", len(unassigned),
		"unclassified", batch.Unclassified,
	)
	return &batch, nil
}

func (s *service) loadContext(ctx context.Context, clientID uuid.UUID, firmID string) ([]classify.Case, []classify.GlobalSource, error) {
	activeCases, err := s.cases.ActiveForClient(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}

	registered, err := s.cases.ListSources(ctx, firmID)
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]classify.Case, 0, len(activeCases))
	for i := range activeCases {
		candidates = append(candidates, activeCases[i].ClassificationView())
	}

	sources := make([]classify.GlobalSource, 0, len(registered))
	for i := range registered {
		sources = append(sources, registered[i].ClassificationView())
	}

	return candidates, sources, nil
}

// firmAllowed verifies the caller may touch mail owned by firmID. Requests
// without a tenant claim and mail without a recorded firm pass through.
func firmAllowed(ctx context.Context, firmID string) bool {
	caller := middleware.FirmFromContext(ctx)
	return caller == "" || firmID == "" || caller == firmID
}

// applyResult persists an engine outcome: a confident suggestion becomes a
// case assignment, anything needing review is queued.
func (s *service) applyResult(ctx context.Context, result *classify.Result, firmID string) error {
	if result.NeedsReview {
		_, err := s.review.Enqueue(ctx, review.EnqueueFromResult(result, firmID))
		return err
	}

	if result.SuggestedCaseID == nil {
		return nil
	}

	return s.autoAssign(ctx, result)
}

func (s *service) autoAssign(ctx context.Context, result *classify.Result) error {
	caseID := *result.SuggestedCaseID

	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE emails SET case_id = $1, assigned_at = NOW() WHERE id = $2",
			caseID, result.EmailID,
		); err != nil {
			return struct{}{}, fmt.Errorf("assign email: %w", err)
		}

		// A fresh confident classification closes any stale review entry.
		if _, err := tx.ExecContext(ctx,
			`UPDATE pending_classifications
			 SET resolved_at = NOW(), resolution = $1, resolved_by = 'system'
			 WHERE email_id = $2 AND resolved_at IS NULL`,
			review.ResolutionAssigned, result.EmailID,
		); err != nil {
			return struct{}{}, fmt.Errorf("close stale review entries: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO classification_log(
				email_id, case_id, action, actor, was_automatic,
				confidence, match_type, detail
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			result.EmailID,
			caseID,
			audit.ActionAssigned,
			"system",
			true,
			result.Confidence,
			string(result.MatchType),
			strings.Join(result.Reasons, "; "),
		); err != nil {
			return struct{}{}, fmt.Errorf("append log entry: %w", err)
		}

		return struct{}{}, nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("email auto-assigned",
		"email_id", result.EmailID,
		"case_id", caseID,
		"confidence", result.Confidence,
		"match_type", result.MatchType,
	)
	return nil
}
