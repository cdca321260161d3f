package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/assignment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/attachment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/comment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/pkg/composables"
)

const (
	cleanupActionFiles       = "files"
	cleanupActionComments    = "comments"
	cleanupActionPermissions = "permissions"
	cleanupActionTasks       = "tasks"
	cleanupActionTimeline    = "timeline"
)

// CleanupService removes a work order's dependent records. Each enabled action
// runs in its own transaction; a failed action is recorded in the result and
// the remaining actions still run.
type CleanupService struct {
	workOrderRepo  workorder.Repository
	taskRepo       task.Repository
	attachmentRepo attachment.Repository
	commentRepo    comment.Repository
	permissionRepo assignment.Repository
	timelineRepo   timeline.Repository
}

func NewCleanupService(
	workOrderRepo workorder.Repository,
	taskRepo task.Repository,
	attachmentRepo attachment.Repository,
	commentRepo comment.Repository,
	permissionRepo assignment.Repository,
	timelineRepo timeline.Repository,
) *CleanupService {
	return &CleanupService{
		workOrderRepo:  workOrderRepo,
		taskRepo:       taskRepo,
		attachmentRepo: attachmentRepo,
		commentRepo:    commentRepo,
		permissionRepo: permissionRepo,
		timelineRepo:   timelineRepo,
	}
}

// CleanupWorkOrder runs the cleanup cascade. The work order must exist; a
// missing one fails the whole call before any action runs.
func (s *CleanupService) CleanupWorkOrder(
	ctx context.Context,
	workOrderID uuid.UUID,
	tenantID uuid.UUID,
	policy CleanupPolicy,
) (*CleanupResult, error) {
	ctx = composables.WithTenantID(ctx, tenantID)

	err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		_, err := s.workOrderRepo.GetByID(txCtx, workOrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{
		WorkOrderID: workOrderID,
		Actions:     map[string]CleanupActionDetail{},
	}

	if policy.DeleteFiles {
		s.runAction(ctx, result, cleanupActionFiles, func(txCtx context.Context) (int64, error) {
			return s.attachmentRepo.DeleteForWorkOrder(txCtx, workOrderID)
		})
	}
	if policy.DeleteComments {
		s.runAction(ctx, result, cleanupActionComments, func(txCtx context.Context) (int64, error) {
			return s.commentRepo.DeleteForWorkOrder(txCtx, workOrderID)
		})
	}
	if policy.DeletePermissions {
		s.runAction(ctx, result, cleanupActionPermissions, func(txCtx context.Context) (int64, error) {
			return s.revokeAllGrants(txCtx, workOrderID)
		})
	}
	if policy.DeleteTasks {
		s.runAction(ctx, result, cleanupActionTasks, func(txCtx context.Context) (int64, error) {
			return s.taskRepo.DeleteForWorkOrder(txCtx, workOrderID)
		})
	}
	if policy.DeleteTimeline {
		s.runAction(ctx, result, cleanupActionTimeline, func(txCtx context.Context) (int64, error) {
			return s.timelineRepo.DeleteForWorkOrder(txCtx, workOrderID)
		})
	}
	return result, nil
}

func (s *CleanupService) runAction(
	ctx context.Context,
	result *CleanupResult,
	name string,
	fn func(context.Context) (int64, error),
) {
	count, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return fn(txCtx)
	})
	if err != nil {
		cleanupActions.WithLabelValues(name, "error").Inc()
		composables.UseLogger(ctx).WithError(err).WithFields(map[string]interface{}{
			"workOrderId": result.WorkOrderID,
			"action":      name,
		}).Warn("cleanup action failed")
		result.Actions[name] = CleanupActionDetail{Err: err}
		return
	}
	cleanupActions.WithLabelValues(name, "ok").Inc()
	result.Actions[name] = CleanupActionDetail{Removed: count}
}

// revokeAllGrants removes the work-order-scoped grants plus the task-scoped
// grants of every task still linked to the work order.
func (s *CleanupService) revokeAllGrants(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	total, err := s.permissionRepo.RevokeForResource(ctx, assignment.ResourceWorkOrder, workOrderID)
	if err != nil {
		return 0, err
	}

	tasks, err := s.taskRepo.ListForWorkOrder(ctx, workOrderID)
	if err != nil {
		return total, err
	}
	for _, t := range tasks {
		n, err := s.permissionRepo.RevokeForResource(ctx, assignment.ResourceTask, t.ID())
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
