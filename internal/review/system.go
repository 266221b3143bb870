package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/pkg/pagination"
)

// System defines the public contract for review queue operations.
type System interface {
	Handler() *Handler

	// Enqueue records an engine outcome for review. An existing unresolved
	// entry for the same email is superseded in place.
	Enqueue(ctx context.Context, cmd EnqueueCommand) (*PendingClassification, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[PendingClassification], error)

	Find(ctx context.Context, id uuid.UUID) (*PendingClassification, error)
	Assign(ctx context.Context, id uuid.UUID, cmd AssignCommand) (*PendingClassification, error)
	BulkAssign(ctx context.Context, cmd BulkAssignCommand) (*BulkResult, error)
	Dismiss(ctx context.Context, id uuid.UUID, cmd DismissCommand) (*PendingClassification, error)
}
