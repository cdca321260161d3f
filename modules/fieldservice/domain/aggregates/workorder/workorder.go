package workorder

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type ProgressMode string

const (
	ProgressModeManual  ProgressMode = "manual"
	ProgressModeDerived ProgressMode = "derived-from-tasks"
)

// TaskCounters is the aggregate view of a work order's tasks by status.
type TaskCounters struct {
	Total      int
	Completed  int
	InProgress int
	Blocked    int
}

// Valid reports whether the counted statuses fit inside the total.
func (c TaskCounters) Valid() bool {
	return c.Completed >= 0 && c.InProgress >= 0 && c.Blocked >= 0 &&
		c.Completed+c.InProgress+c.Blocked <= c.Total
}

type WorkOrder struct {
	tenantID     uuid.UUID
	id           uuid.UUID
	number       int64
	title        string
	description  string
	status       Status
	priority     Priority
	progressMode ProgressMode
	progress     int
	counters     TaskCounters
	assigneeIDs  []uuid.UUID
	startedAt    *time.Time
	completedAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func New(tenantID uuid.UUID, title string, priority Priority, progressMode ProgressMode) WorkOrder {
	if priority == "" {
		priority = PriorityMedium
	}
	if progressMode == "" {
		progressMode = ProgressModeDerived
	}
	return WorkOrder{
		tenantID:     tenantID,
		title:        strings.TrimSpace(title),
		status:       StatusOpen,
		priority:     priority,
		progressMode: progressMode,
	}
}

func Hydrate(
	tenantID uuid.UUID,
	id uuid.UUID,
	number int64,
	title string,
	description string,
	status Status,
	priority Priority,
	progressMode ProgressMode,
	progress int,
	counters TaskCounters,
	assigneeIDs []uuid.UUID,
	startedAt *time.Time,
	completedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) WorkOrder {
	return WorkOrder{
		tenantID:     tenantID,
		id:           id,
		number:       number,
		title:        title,
		description:  description,
		status:       status,
		priority:     priority,
		progressMode: progressMode,
		progress:     progress,
		counters:     counters,
		assigneeIDs:  assigneeIDs,
		startedAt:    startedAt,
		completedAt:  completedAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (w WorkOrder) TenantID() uuid.UUID         { return w.tenantID }
func (w WorkOrder) ID() uuid.UUID               { return w.id }
func (w WorkOrder) Number() int64               { return w.number }
func (w WorkOrder) Title() string               { return w.title }
func (w WorkOrder) Description() string         { return w.description }
func (w WorkOrder) Status() Status              { return w.status }
func (w WorkOrder) Priority() Priority          { return w.priority }
func (w WorkOrder) ProgressMode() ProgressMode  { return w.progressMode }
func (w WorkOrder) Progress() int               { return w.progress }
func (w WorkOrder) Counters() TaskCounters      { return w.counters }
func (w WorkOrder) AssigneeIDs() []uuid.UUID    { return w.assigneeIDs }
func (w WorkOrder) StartedAt() *time.Time       { return w.startedAt }
func (w WorkOrder) CompletedAt() *time.Time     { return w.completedAt }
func (w WorkOrder) CreatedAt() time.Time        { return w.createdAt }
func (w WorkOrder) UpdatedAt() time.Time        { return w.updatedAt }
func (w WorkOrder) IsZero() bool                { return w.id == uuid.Nil }
func (w WorkOrder) IsDerived() bool             { return w.progressMode == ProgressModeDerived }

func (w WorkOrder) WithTitle(title string) WorkOrder {
	w.title = strings.TrimSpace(title)
	return w
}

func (w WorkOrder) WithDescription(description string) WorkOrder {
	w.description = description
	return w
}

func (w WorkOrder) WithStatus(status Status) WorkOrder {
	w.status = status
	return w
}

func (w WorkOrder) WithPriority(priority Priority) WorkOrder {
	w.priority = priority
	return w
}

func (w WorkOrder) WithProgressMode(mode ProgressMode) WorkOrder {
	w.progressMode = mode
	return w
}

// WithManualProgress sets the progress percentage directly. It has no effect
// when the work order derives progress from its tasks.
func (w WorkOrder) WithManualProgress(progress int) WorkOrder {
	if w.progressMode != ProgressModeManual {
		return w
	}
	w.progress = clampProgress(progress)
	return w
}

func (w WorkOrder) WithAssigneeIDs(ids []uuid.UUID) WorkOrder {
	w.assigneeIDs = ids
	return w
}

// WithProgressSnapshot replaces the derived aggregate fields in one step.
// Only the progress aggregator calls this.
func (w WorkOrder) WithProgressSnapshot(counters TaskCounters, progress int, startedAt, completedAt *time.Time) WorkOrder {
	w.counters = counters
	w.progress = clampProgress(progress)
	w.startedAt = startedAt
	w.completedAt = completedAt
	return w
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
