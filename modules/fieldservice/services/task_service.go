package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/pkg/composables"
	"github.com/aristech/fieldservice/pkg/eventbus"
	"github.com/aristech/fieldservice/pkg/serrors"
)

// TaskService manages tasks and subtasks. Status changes are published on the
// bus; the event handlers turn them into progress recomputes on the parent
// work order.
type TaskService struct {
	repo              task.Repository
	workOrderRepo     workorder.Repository
	permissionService *AssignmentPermissionService
	timelineService   *TimelineService
	publisher         eventbus.EventBus
}

func NewTaskService(
	repo task.Repository,
	workOrderRepo workorder.Repository,
	permissionService *AssignmentPermissionService,
	timelineService *TimelineService,
	publisher eventbus.EventBus,
) *TaskService {
	return &TaskService{
		repo:              repo,
		workOrderRepo:     workOrderRepo,
		permissionService: permissionService,
		timelineService:   timelineService,
		publisher:         publisher,
	}
}

func (s *TaskService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (task.Task, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "read"); err != nil {
		return task.Task{}, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (task.Task, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *TaskService) ListForWorkOrder(ctx context.Context, tenantID, workOrderID uuid.UUID) ([]task.Task, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "read"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]task.Task, error) {
		return s.repo.ListForWorkOrder(txCtx, workOrderID)
	})
}

// Create adds a task under an existing work order.
func (s *TaskService) Create(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	t task.Task,
) (task.Task, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "create"); err != nil {
		return task.Task{}, err
	}
	if t.Title() == "" {
		return task.Task{}, serrors.NewFieldRequiredError("title", "Tasks.Errors.TitleRequired")
	}

	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (task.Task, error) {
		if _, err := s.workOrderRepo.GetByID(txCtx, t.WorkOrderID()); err != nil {
			return task.Task{}, err
		}
		return s.repo.Create(txCtx, t)
	})
	if err != nil {
		return task.Task{}, err
	}

	taskID := created.ID()
	s.timelineService.AddTimelineEntry(ctx, &timeline.Entry{
		TenantID:    tenantID,
		WorkOrderID: created.WorkOrderID(),
		EntityType:  timeline.EntityTask,
		EntityID:    &taskID,
		EventType:   timeline.EventCreated,
		Title:       "Task created",
		ActorID:     actorID,
	})
	s.publisher.Publish(task.CreatedEvent{
		TenantID: tenantID,
		ActorID:  actorID,
		Result:   created,
	})
	return created, nil
}

// Update persists the task. A status change is published for the progress
// aggregator and recorded on the timeline.
func (s *TaskService) Update(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	t task.Task,
) (task.Task, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "update"); err != nil {
		return task.Task{}, err
	}
	if !t.Status().Valid() {
		return task.Task{}, serrors.NewValidationError("status", "unknown task status")
	}

	type updateOut struct {
		previous task.Task
		result   task.Task
	}
	out, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (updateOut, error) {
		previous, err := s.repo.GetByID(txCtx, t.ID())
		if err != nil {
			return updateOut{}, err
		}
		if err := s.repo.Update(txCtx, t); err != nil {
			return updateOut{}, err
		}
		result, err := s.repo.GetByID(txCtx, t.ID())
		if err != nil {
			return updateOut{}, err
		}
		return updateOut{previous: previous, result: result}, nil
	})
	if err != nil {
		return task.Task{}, err
	}

	if out.previous.Status() != out.result.Status() {
		taskID := out.result.ID()
		s.timelineService.AddTimelineEntry(ctx, &timeline.Entry{
			TenantID:    tenantID,
			WorkOrderID: out.result.WorkOrderID(),
			EntityType:  timeline.EntityTask,
			EntityID:    &taskID,
			EventType:   timeline.EventStatusChanged,
			Title:       "Task status changed",
			Metadata: map[string]interface{}{
				"from": string(out.previous.Status()),
				"to":   string(out.result.Status()),
			},
			ActorID: actorID,
		})
		s.publisher.Publish(task.StatusChangedEvent{
			TenantID: tenantID,
			ActorID:  actorID,
			Previous: out.previous.Status(),
			Result:   out.result,
		})
	}
	return out.result, nil
}

// UpdateAssignees replaces the task's personnel set and keeps the task-scoped
// grants in step.
func (s *TaskService) UpdateAssignees(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	taskID uuid.UUID,
	assigneeIDs []uuid.UUID,
) (task.Task, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "update"); err != nil {
		return task.Task{}, err
	}

	type updateOut struct {
		previous task.Task
		result   task.Task
	}
	out, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (updateOut, error) {
		previous, err := s.repo.GetByID(txCtx, taskID)
		if err != nil {
			return updateOut{}, err
		}
		if err := s.repo.UpdateAssignees(txCtx, taskID, assigneeIDs); err != nil {
			return updateOut{}, err
		}
		result, err := s.repo.GetByID(txCtx, taskID)
		if err != nil {
			return updateOut{}, err
		}
		return updateOut{previous: previous, result: result}, nil
	})
	if err != nil {
		return task.Task{}, err
	}

	added, _ := diffAssignees(out.previous.AssigneeIDs(), out.result.AssigneeIDs())
	for _, personnelID := range added {
		if err := s.permissionService.GrantTaskAssignment(ctx, taskID, personnelID, tenantID); err != nil {
			composables.UseLogger(ctx).WithError(err).WithFields(map[string]interface{}{
				"taskId":      taskID,
				"personnelId": personnelID,
			}).Warn("failed to grant task assignment permission")
		}
	}
	return out.result, nil
}

// Delete removes the task along with its subtasks and timeline entries, then
// publishes the deletion for the progress aggregator.
func (s *TaskService) Delete(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	id uuid.UUID,
) (task.Task, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "delete"); err != nil {
		return task.Task{}, err
	}

	existing, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (task.Task, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return task.Task{}, err
		}
		return existing, s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return task.Task{}, err
	}

	s.timelineService.DeleteTaskTimeline(ctx, id)
	s.publisher.Publish(task.DeletedEvent{
		TenantID: tenantID,
		ActorID:  actorID,
		Result:   existing,
	})
	return existing, nil
}

func (s *TaskService) ListSubtasks(ctx context.Context, tenantID, taskID uuid.UUID) ([]*task.Subtask, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "read"); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*task.Subtask, error) {
		return s.repo.ListSubtasks(txCtx, taskID)
	})
}

func (s *TaskService) CreateSubtask(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	st *task.Subtask,
) (*task.Subtask, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "update"); err != nil {
		return nil, err
	}
	if st.Title == "" {
		return nil, serrors.NewFieldRequiredError("title", "Tasks.Errors.SubtaskTitleRequired")
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*task.Subtask, error) {
		if _, err := s.repo.GetByID(txCtx, st.TaskID); err != nil {
			return nil, err
		}
		if err := s.repo.CreateSubtask(txCtx, st); err != nil {
			return nil, err
		}
		return st, nil
	})
}

func (s *TaskService) UpdateSubtask(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	st *task.Subtask,
) (*task.Subtask, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "update"); err != nil {
		return nil, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*task.Subtask, error) {
		if err := s.repo.UpdateSubtask(txCtx, st); err != nil {
			return nil, err
		}
		return st, nil
	})
}

func (s *TaskService) DeleteSubtask(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	id uuid.UUID,
) error {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, TaskAuthzObject, "update"); err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteSubtask(txCtx, id)
	})
}
