package emails

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/pkg/pagination"
)

// System defines the public contract for email domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Email], error)

	Find(ctx context.Context, id uuid.UUID) (*Email, error)
	Import(ctx context.Context, cmd ImportCommand) (*Email, error)

	// ByParticipants returns emails whose sender matches any of the given
	// addresses, newest first.
	ByParticipants(ctx context.Context, addresses []string) ([]Email, error)

	// UnassignedForClient returns the client's emails awaiting a case
	// assignment, oldest first.
	UnassignedForClient(ctx context.Context, clientID uuid.UUID) ([]Email, error)
}
