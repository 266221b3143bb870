package audit

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for the classification log.
type System interface {
	Handler() *Handler

	Append(ctx context.Context, cmd AppendCommand) (*LogEntry, error)
	ListByEmail(ctx context.Context, emailID uuid.UUID) ([]LogEntry, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]LogEntry, error)
}
