package timeline

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("timeline entry not found")

type EventType string

const (
	EventCreated         EventType = "created"
	EventStatusChanged   EventType = "status_changed"
	EventAssigned        EventType = "assigned"
	EventPriorityChanged EventType = "priority_changed"
	EventProgressUpdated EventType = "progress_updated"
	EventCompleted       EventType = "completed"
	EventUpdated         EventType = "updated"
)

type EntityType string

const (
	EntityWorkOrder EntityType = "work_order"
	EntityTask      EntityType = "task"
	EntitySubtask   EntityType = "subtask"
)

// Entry is an immutable audit record. ActorName is denormalized at write time
// so later renames never rewrite history.
type Entry struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	WorkOrderID uuid.UUID
	EntityType  EntityType
	EntityID    *uuid.UUID
	EventType   EventType
	Title       string
	Metadata    map[string]interface{}
	ActorID     uuid.UUID
	ActorName   string
	CreatedAt   time.Time
}

type FindParams struct {
	EntityType EntityType
	Limit      int
	Offset     int
}

type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	// ListForWorkOrder returns entries newest first.
	ListForWorkOrder(ctx context.Context, workOrderID uuid.UUID, params *FindParams) ([]*Entry, error)
	CountForWorkOrder(ctx context.Context, workOrderID uuid.UUID, params *FindParams) (int64, error)
	DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error)
	DeleteForTask(ctx context.Context, taskID uuid.UUID) (int64, error)
}
