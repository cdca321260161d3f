package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/pkg/composables"
)

// AssignmentService pushes work-order-level personnel changes down to the
// linked tasks. Additions propagate; removals are recorded but left on the
// tasks, since a task assignment may have been made deliberately and narrower
// than the work order's crew.
type AssignmentService struct {
	taskRepo          task.Repository
	permissionService *AssignmentPermissionService
	timelineService   *TimelineService
}

func NewAssignmentService(
	taskRepo task.Repository,
	permissionService *AssignmentPermissionService,
	timelineService *TimelineService,
) *AssignmentService {
	return &AssignmentService{
		taskRepo:          taskRepo,
		permissionService: permissionService,
		timelineService:   timelineService,
	}
}

// PropagateWorkOrderAssignments diffs the personnel sets and appends every
// added person to each linked task that does not already carry them. Each task
// is updated in its own transaction; one failing task never stops the rest.
// An empty diff performs no writes at all.
func (s *AssignmentService) PropagateWorkOrderAssignments(
	ctx context.Context,
	workOrderID uuid.UUID,
	newIDs []uuid.UUID,
	previousIDs []uuid.UUID,
	tenantID uuid.UUID,
	actorID uuid.UUID,
) (*PropagationResult, error) {
	added, removed := diffAssignees(previousIDs, newIDs)
	result := &PropagationResult{Added: added, Removed: removed}
	if len(added) == 0 && len(removed) == 0 {
		return result, nil
	}

	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	propagationRuns.Inc()

	if len(added) > 0 {
		tasks, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]task.Task, error) {
			return s.taskRepo.ListForWorkOrder(txCtx, workOrderID)
		})
		if err != nil {
			return nil, err
		}

		for _, t := range tasks {
			missing := missingAssignees(t, added)
			if len(missing) == 0 {
				continue
			}

			updated := append(append([]uuid.UUID{}, t.AssigneeIDs()...), missing...)
			err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
				return s.taskRepo.UpdateAssignees(txCtx, t.ID(), updated)
			})
			if err != nil {
				propagationTaskFailures.Inc()
				result.Failures = append(result.Failures, TaskFailure{TaskID: t.ID(), Err: err})
				composables.UseLogger(ctx).WithError(err).WithField("taskId", t.ID()).
					Warn("failed to propagate assignment to task")
				continue
			}
			result.TasksUpdated++

			for _, personnelID := range missing {
				if err := s.permissionService.GrantTaskAssignment(ctx, t.ID(), personnelID, tenantID); err != nil {
					composables.UseLogger(ctx).WithError(err).WithFields(map[string]interface{}{
						"taskId":      t.ID(),
						"personnelId": personnelID,
					}).Warn("failed to grant task assignment permission")
				}
			}
		}
	}

	// A removal-only diff is recorded by HandleWorkOrderPersonnelRemoval;
	// writing here as well would log the same change twice.
	if len(added) > 0 {
		s.timelineService.AddTimelineEntry(ctx, &timeline.Entry{
			TenantID:    tenantID,
			WorkOrderID: workOrderID,
			EntityType:  timeline.EntityWorkOrder,
			EventType:   timeline.EventAssigned,
			Title:       "Assignments changed",
			Metadata: map[string]interface{}{
				"added":   uuidStrings(added),
				"removed": uuidStrings(removed),
			},
			ActorID: actorID,
		})
	}
	return result, nil
}

// HandleWorkOrderPersonnelRemoval revokes the work-order-scoped grants of the
// removed personnel and records the removal. Task-level assignments are left
// in place.
func (s *AssignmentService) HandleWorkOrderPersonnelRemoval(
	ctx context.Context,
	workOrderID uuid.UUID,
	removedIDs []uuid.UUID,
	tenantID uuid.UUID,
	actorID uuid.UUID,
) error {
	if len(removedIDs) == 0 {
		return nil
	}
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)

	if err := s.permissionService.RevokeWorkOrderGrants(ctx, workOrderID, removedIDs, tenantID); err != nil {
		return err
	}

	s.timelineService.AddTimelineEntry(ctx, &timeline.Entry{
		TenantID:    tenantID,
		WorkOrderID: workOrderID,
		EntityType:  timeline.EntityWorkOrder,
		EventType:   timeline.EventAssigned,
		Title:       "Personnel removed",
		Metadata: map[string]interface{}{
			"removed": uuidStrings(removedIDs),
		},
		ActorID: actorID,
	})
	return nil
}

// diffAssignees computes the set difference in both directions. Order and
// duplicates in the inputs are irrelevant.
func diffAssignees(previous, current []uuid.UUID) (added, removed []uuid.UUID) {
	prevSet := make(map[uuid.UUID]struct{}, len(previous))
	for _, id := range previous {
		prevSet[id] = struct{}{}
	}
	curSet := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		if _, seen := curSet[id]; seen {
			continue
		}
		curSet[id] = struct{}{}
		if _, ok := prevSet[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range previous {
		if _, ok := curSet[id]; !ok {
			if _, seen := prevSet[id]; seen {
				delete(prevSet, id)
				removed = append(removed, id)
			}
		}
	}
	return added, removed
}

func missingAssignees(t task.Task, candidates []uuid.UUID) []uuid.UUID {
	var missing []uuid.UUID
	for _, id := range candidates {
		if !t.HasAssignee(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
