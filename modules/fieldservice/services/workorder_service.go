package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/personnel"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/pkg/composables"
	"github.com/aristech/fieldservice/pkg/eventbus"
	"github.com/aristech/fieldservice/pkg/serrors"
)

// WorkOrderService orchestrates the work order lifecycle and triggers the
// consistency machinery on every write: assignment propagation, permission
// reconciliation, cleanup and audit.
type WorkOrderService struct {
	repo              workorder.Repository
	personnelRepo     personnel.Repository
	assignmentService *AssignmentService
	permissionService *AssignmentPermissionService
	cleanupService    *CleanupService
	timelineService   *TimelineService
	publisher         eventbus.EventBus
}

func NewWorkOrderService(
	repo workorder.Repository,
	personnelRepo personnel.Repository,
	assignmentService *AssignmentService,
	permissionService *AssignmentPermissionService,
	cleanupService *CleanupService,
	timelineService *TimelineService,
	publisher eventbus.EventBus,
) *WorkOrderService {
	return &WorkOrderService{
		repo:              repo,
		personnelRepo:     personnelRepo,
		assignmentService: assignmentService,
		permissionService: permissionService,
		cleanupService:    cleanupService,
		timelineService:   timelineService,
		publisher:         publisher,
	}
}

func (s *WorkOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (workorder.WorkOrder, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	if err := authorizeFieldService(ctx, WorkOrderAuthzObject, "read"); err != nil {
		return workorder.WorkOrder{}, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (workorder.WorkOrder, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *WorkOrderService) GetPaginated(
	ctx context.Context,
	tenantID uuid.UUID,
	params *workorder.FindParams,
) ([]workorder.WorkOrder, int64, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	if err := authorizeFieldService(ctx, WorkOrderAuthzObject, "read"); err != nil {
		return nil, 0, err
	}

	type page struct {
		orders []workorder.WorkOrder
		total  int64
	}
	out, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (page, error) {
		orders, total, err := s.repo.GetPaginated(txCtx, params)
		return page{orders: orders, total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return out.orders, out.total, nil
}

// Create persists a new work order, assigning it the tenant's next sequential
// number. Every referenced assignee must exist and be eligible.
func (s *WorkOrderService) Create(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	wo workorder.WorkOrder,
) (workorder.WorkOrder, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, WorkOrderAuthzObject, "create"); err != nil {
		return workorder.WorkOrder{}, err
	}
	if wo.Title() == "" {
		return workorder.WorkOrder{}, serrors.NewFieldRequiredError("title", "WorkOrders.Errors.TitleRequired")
	}

	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (workorder.WorkOrder, error) {
		if err := s.validateAssignees(txCtx, wo.AssigneeIDs()); err != nil {
			return workorder.WorkOrder{}, err
		}
		return s.repo.Create(txCtx, wo)
	})
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	if len(created.AssigneeIDs()) > 0 {
		if err := s.permissionService.HandleWorkOrderAssignment(ctx, created.ID(), created.AssigneeIDs(), tenantID); err != nil {
			composables.UseLogger(ctx).WithError(err).WithField("workOrderId", created.ID()).
				Warn("failed to reconcile assignment permissions")
		}
	}

	s.timelineService.AddTimelineEntry(ctx, &timeline.Entry{
		TenantID:    tenantID,
		WorkOrderID: created.ID(),
		EntityType:  timeline.EntityWorkOrder,
		EventType:   timeline.EventCreated,
		Title:       "Work order created",
		ActorID:     actorID,
	})
	s.publisher.Publish(workorder.NewCreatedEvent(ctx, created))
	return created, nil
}

// Update persists the changed work order and runs the downstream consistency
// steps for whatever actually changed. Assignment propagation and permission
// reconciliation are best effort; their failures are logged, not returned.
func (s *WorkOrderService) Update(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	wo workorder.WorkOrder,
) (workorder.WorkOrder, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, WorkOrderAuthzObject, "update"); err != nil {
		return workorder.WorkOrder{}, err
	}
	if wo.Title() == "" {
		return workorder.WorkOrder{}, serrors.NewFieldRequiredError("title", "WorkOrders.Errors.TitleRequired")
	}

	type updateOut struct {
		previous workorder.WorkOrder
		result   workorder.WorkOrder
	}
	out, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (updateOut, error) {
		previous, err := s.repo.GetByID(txCtx, wo.ID())
		if err != nil {
			return updateOut{}, err
		}
		if err := s.validateAssignees(txCtx, wo.AssigneeIDs()); err != nil {
			return updateOut{}, err
		}
		// Update rewrites the assignee join table as well.
		if err := s.repo.Update(txCtx, wo); err != nil {
			return updateOut{}, err
		}
		result, err := s.repo.GetByID(txCtx, wo.ID())
		if err != nil {
			return updateOut{}, err
		}
		return updateOut{previous: previous, result: result}, nil
	})
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	s.afterUpdate(ctx, tenantID, actorID, out.previous, out.result)
	s.publisher.Publish(workorder.NewUpdatedEvent(ctx, out.previous, out.result))
	return out.result, nil
}

func (s *WorkOrderService) afterUpdate(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	previous workorder.WorkOrder,
	result workorder.WorkOrder,
) {
	log := composables.UseLogger(ctx).WithField("workOrderId", result.ID())

	added, removed := diffAssignees(previous.AssigneeIDs(), result.AssigneeIDs())
	if len(added) > 0 || len(removed) > 0 {
		if _, err := s.assignmentService.PropagateWorkOrderAssignments(
			ctx, result.ID(), result.AssigneeIDs(), previous.AssigneeIDs(), tenantID, actorID,
		); err != nil {
			log.WithError(err).Warn("failed to propagate assignments")
		}
		if err := s.assignmentService.HandleWorkOrderPersonnelRemoval(
			ctx, result.ID(), removed, tenantID, actorID,
		); err != nil {
			log.WithError(err).Warn("failed to handle personnel removal")
		}
		if err := s.permissionService.HandleWorkOrderAssignment(
			ctx, result.ID(), result.AssigneeIDs(), tenantID,
		); err != nil {
			log.WithError(err).Warn("failed to reconcile assignment permissions")
		}
		s.publisher.Publish(workorder.AssignmentsChangedEvent{
			TenantID:    tenantID,
			ActorID:     actorID,
			WorkOrderID: result.ID(),
			Added:       added,
			Removed:     removed,
		})
	}

	if previous.Status() != result.Status() {
		s.timelineService.AddTimelineEntry(ctx, &timeline.Entry{
			TenantID:    tenantID,
			WorkOrderID: result.ID(),
			EntityType:  timeline.EntityWorkOrder,
			EventType:   timeline.EventStatusChanged,
			Title:       "Status changed",
			Metadata: map[string]interface{}{
				"from": string(previous.Status()),
				"to":   string(result.Status()),
			},
			ActorID: actorID,
		})
	}
	if previous.Priority() != result.Priority() {
		s.timelineService.AddTimelineEntry(ctx, &timeline.Entry{
			TenantID:    tenantID,
			WorkOrderID: result.ID(),
			EntityType:  timeline.EntityWorkOrder,
			EventType:   timeline.EventPriorityChanged,
			Title:       "Priority changed",
			Metadata: map[string]interface{}{
				"from": string(previous.Priority()),
				"to":   string(result.Priority()),
			},
			ActorID: actorID,
		})
	}
}

// Delete runs the full cleanup cascade, then removes the work order itself.
// Cleanup failures on individual actions are logged; the delete proceeds.
func (s *WorkOrderService) Delete(
	ctx context.Context,
	tenantID uuid.UUID,
	actorID uuid.UUID,
	id uuid.UUID,
) (workorder.WorkOrder, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithActorID(ctx, actorID)
	if err := authorizeFieldService(ctx, WorkOrderAuthzObject, "delete"); err != nil {
		return workorder.WorkOrder{}, err
	}

	existing, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (workorder.WorkOrder, error) {
		return s.repo.GetByID(txCtx, id)
	})
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	result, err := s.cleanupService.CleanupWorkOrder(ctx, id, tenantID, FullCleanupPolicy())
	if err != nil {
		return workorder.WorkOrder{}, err
	}
	if result.Failed() {
		composables.UseLogger(ctx).WithField("workOrderId", id).
			Warn("cleanup finished with failed actions, deleting work order anyway")
	}

	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	}); err != nil {
		return workorder.WorkOrder{}, err
	}

	s.publisher.Publish(workorder.NewDeletedEvent(ctx, existing))
	return existing, nil
}

// validateAssignees ensures every referenced personnel exists in the tenant
// and may receive assignments.
func (s *WorkOrderService) validateAssignees(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.personnelRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]personnel.Personnel, len(found))
	for _, p := range found {
		byID[p.ID()] = p
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return serrors.NewError("PERSONNEL_NOT_FOUND", "assignee does not exist: "+id.String(), "WorkOrders.Errors.AssigneeNotFound")
		}
		if !p.Eligible() {
			return serrors.NewError("PERSONNEL_NOT_ELIGIBLE", "assignee is not eligible: "+id.String(), "WorkOrders.Errors.AssigneeNotEligible")
		}
	}
	return nil
}
