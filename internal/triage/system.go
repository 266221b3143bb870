// Package triage runs the classification engine against stored data and
// persists its outcomes: confident suggestions become case assignments,
// everything else lands in the review queue.
package triage

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/classify"
)

// System defines the public contract for triage operations.
type System interface {
	Handler() *Handler

	// ClassifyEmail classifies a single stored email against its client's
	// active cases and persists the outcome.
	ClassifyEmail(ctx context.Context, emailID uuid.UUID) (*classify.Result, error)

	// ClassifyClient classifies every unassigned email in a client's mailbox
	// and persists each outcome.
	ClassifyClient(ctx context.Context, clientID uuid.UUID) (*classify.BatchResult, error)
}
