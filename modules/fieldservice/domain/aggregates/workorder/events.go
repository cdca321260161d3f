package workorder

import (
	"context"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/pkg/composables"
)

type CreatedEvent struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
	Result   WorkOrder
}

type UpdatedEvent struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
	Previous WorkOrder
	Result   WorkOrder
}

type DeletedEvent struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
	Result   WorkOrder
}

// AssignmentsChangedEvent fires after a work order's personnel set has been
// committed, before downstream propagation runs.
type AssignmentsChangedEvent struct {
	TenantID    uuid.UUID
	ActorID     uuid.UUID
	WorkOrderID uuid.UUID
	Added       []uuid.UUID
	Removed     []uuid.UUID
}

func NewCreatedEvent(ctx context.Context, result WorkOrder) CreatedEvent {
	return CreatedEvent{
		TenantID: result.TenantID(),
		ActorID:  actorFromContext(ctx),
		Result:   result,
	}
}

func NewUpdatedEvent(ctx context.Context, previous, result WorkOrder) UpdatedEvent {
	return UpdatedEvent{
		TenantID: result.TenantID(),
		ActorID:  actorFromContext(ctx),
		Previous: previous,
		Result:   result,
	}
}

func NewDeletedEvent(ctx context.Context, result WorkOrder) DeletedEvent {
	return DeletedEvent{
		TenantID: result.TenantID(),
		ActorID:  actorFromContext(ctx),
		Result:   result,
	}
}

func actorFromContext(ctx context.Context) uuid.UUID {
	actorID, err := composables.UseActorID(ctx)
	if err != nil {
		return uuid.Nil
	}
	return actorID
}
