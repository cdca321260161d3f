package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	}
	return false
}

// Task is a unit of work inside a work order. The work order is the logical
// parent; the task holds the back-reference and never the inverse.
type Task struct {
	tenantID    uuid.UUID
	id          uuid.UUID
	workOrderID uuid.UUID
	title       string
	status      Status
	assigneeIDs []uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

func New(tenantID, workOrderID uuid.UUID, title string) Task {
	return Task{
		tenantID:    tenantID,
		workOrderID: workOrderID,
		title:       strings.TrimSpace(title),
		status:      StatusPending,
	}
}

func Hydrate(
	tenantID uuid.UUID,
	id uuid.UUID,
	workOrderID uuid.UUID,
	title string,
	status Status,
	assigneeIDs []uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Task {
	return Task{
		tenantID:    tenantID,
		id:          id,
		workOrderID: workOrderID,
		title:       title,
		status:      status,
		assigneeIDs: assigneeIDs,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (t Task) TenantID() uuid.UUID      { return t.tenantID }
func (t Task) ID() uuid.UUID            { return t.id }
func (t Task) WorkOrderID() uuid.UUID   { return t.workOrderID }
func (t Task) Title() string            { return t.title }
func (t Task) Status() Status           { return t.status }
func (t Task) AssigneeIDs() []uuid.UUID { return t.assigneeIDs }
func (t Task) CreatedAt() time.Time     { return t.createdAt }
func (t Task) UpdatedAt() time.Time     { return t.updatedAt }
func (t Task) IsZero() bool             { return t.id == uuid.Nil }

func (t Task) WithTitle(title string) Task {
	t.title = strings.TrimSpace(title)
	return t
}

func (t Task) WithStatus(status Status) Task {
	t.status = status
	return t
}

func (t Task) WithAssigneeIDs(ids []uuid.UUID) Task {
	t.assigneeIDs = ids
	return t
}

// HasAssignee reports whether the given personnel is already on the task.
func (t Task) HasAssignee(personnelID uuid.UUID) bool {
	for _, id := range t.assigneeIDs {
		if id == personnelID {
			return true
		}
	}
	return false
}
