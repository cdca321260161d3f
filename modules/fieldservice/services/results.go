package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
)

// RecomputeResult reports what the progress aggregator derived and whether it
// had to write anything.
type RecomputeResult struct {
	WorkOrderID uuid.UUID
	Counters    workorder.TaskCounters
	Progress    int
	StartedAt   *time.Time
	CompletedAt *time.Time
	Changed     bool
}

// TaskFailure is one task the propagator could not update. The run continues
// past it.
type TaskFailure struct {
	TaskID uuid.UUID
	Err    error
}

// PropagationResult summarizes one assignment propagation run.
type PropagationResult struct {
	Added        []uuid.UUID
	Removed      []uuid.UUID
	TasksUpdated int
	Failures     []TaskFailure
}

// CleanupPolicy selects which dependent records a cleanup run removes.
type CleanupPolicy struct {
	DeleteFiles       bool
	DeleteComments    bool
	DeletePermissions bool
	DeleteTasks       bool
	DeleteTimeline    bool
}

// FullCleanupPolicy enables every cleanup action.
func FullCleanupPolicy() CleanupPolicy {
	return CleanupPolicy{
		DeleteFiles:       true,
		DeleteComments:    true,
		DeletePermissions: true,
		DeleteTasks:       true,
		DeleteTimeline:    true,
	}
}

// CleanupActionDetail is the outcome of a single cleanup action.
type CleanupActionDetail struct {
	Removed int64
	Err     error
}

// CleanupResult maps each executed action to its outcome. A failed action is
// present with a non-nil Err; skipped actions are absent.
type CleanupResult struct {
	WorkOrderID uuid.UUID
	Actions     map[string]CleanupActionDetail
}

// Failed reports whether any executed action errored.
func (r *CleanupResult) Failed() bool {
	for _, d := range r.Actions {
		if d.Err != nil {
			return true
		}
	}
	return false
}
