package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ResourceType string

const (
	ResourceWorkOrder ResourceType = "work_order"
	ResourceTask      ResourceType = "task"
)

// Permission is a derived, resource-scoped grant tying a personnel to a work
// order or task for the duration of the assignment. Its lifecycle is driven
// entirely by assignment diffs.
type Permission struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	PersonnelID  uuid.UUID
	ResourceType ResourceType
	ResourceID   uuid.UUID
	GrantedAt    time.Time
}

type Repository interface {
	ListForResource(ctx context.Context, resourceType ResourceType, resourceID uuid.UUID) ([]*Permission, error)
	// Upsert inserts the grant if absent. It reports whether a row was
	// actually written, so reconciliation can stay idempotent.
	Upsert(ctx context.Context, p *Permission) (bool, error)
	Revoke(ctx context.Context, personnelID uuid.UUID, resourceType ResourceType, resourceID uuid.UUID) error
	RevokeForResource(ctx context.Context, resourceType ResourceType, resourceID uuid.UUID) (int64, error)
}
