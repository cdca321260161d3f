package task

import (
	"github.com/google/uuid"
)

type CreatedEvent struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
	Result   Task
}

type StatusChangedEvent struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
	Previous Status
	Result   Task
}

type DeletedEvent struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
	Result   Task
}
