package task

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = gerrors.New("task not found")
	ErrSubtaskNotFound = gerrors.New("subtask not found")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Task, error)
	ListForWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]Task, error)
	Create(ctx context.Context, t Task) (Task, error)
	Update(ctx context.Context, t Task) error
	UpdateAssignees(ctx context.Context, id uuid.UUID, assigneeIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteForWorkOrder removes all tasks of the work order along with their
	// subtasks, returning the number of tasks removed.
	DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error)

	ListSubtasks(ctx context.Context, taskID uuid.UUID) ([]*Subtask, error)
	CreateSubtask(ctx context.Context, st *Subtask) error
	UpdateSubtask(ctx context.Context, st *Subtask) error
	DeleteSubtask(ctx context.Context, id uuid.UUID) error
}
