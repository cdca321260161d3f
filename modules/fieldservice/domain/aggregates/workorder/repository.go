package workorder

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("work order not found")

type FindParams struct {
	Status   Status
	Priority Priority
	Assignee uuid.UUID
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (WorkOrder, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]WorkOrder, int64, error)
	// NextNumber reserves the next sequential work order number for the tenant.
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, wo WorkOrder) (WorkOrder, error)
	Update(ctx context.Context, wo WorkOrder) error
	// UpdateProgressSnapshot persists only the aggregator-owned fields.
	UpdateProgressSnapshot(ctx context.Context, wo WorkOrder) error
	UpdateAssignees(ctx context.Context, id uuid.UUID, assigneeIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
