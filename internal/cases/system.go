package cases

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/pkg/pagination"
)

// System defines the public contract for case domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Case], error)

	Find(ctx context.Context, id uuid.UUID) (*Case, error)
	Create(ctx context.Context, cmd CreateCommand) (*Case, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Case, error)
	Archive(ctx context.Context, id uuid.UUID) (*Case, error)

	AddActor(ctx context.Context, caseID uuid.UUID, cmd AddActorCommand) (*Actor, error)
	RemoveActor(ctx context.Context, caseID, actorID uuid.UUID) error

	// ActiveForClient returns the client's active cases with actors loaded,
	// ready for classification.
	ActiveForClient(ctx context.Context, clientID uuid.UUID) ([]Case, error)

	// ListSources returns the firm's registered global sources. An empty
	// firm ID returns every registration.
	ListSources(ctx context.Context, firmID string) ([]GlobalSource, error)
	CreateSource(ctx context.Context, cmd CreateSourceCommand) (*GlobalSource, error)
	DeleteSource(ctx context.Context, id uuid.UUID) error
}
