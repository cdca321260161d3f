package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/assignment"
	"github.com/aristech/fieldservice/pkg/composables"
)

// AssignmentPermissionService keeps the derived resource-scoped grants in step
// with assignment state. All operations reconcile toward a target set, so a
// redundant call performs zero writes.
type AssignmentPermissionService struct {
	repo assignment.Repository
}

func NewAssignmentPermissionService(repo assignment.Repository) *AssignmentPermissionService {
	return &AssignmentPermissionService{repo: repo}
}

// HandleWorkOrderAssignment reconciles the work order's grants to exactly the
// given personnel set: missing grants are created, grants outside the set are
// revoked.
func (s *AssignmentPermissionService) HandleWorkOrderAssignment(
	ctx context.Context,
	workOrderID uuid.UUID,
	currentIDs []uuid.UUID,
	tenantID uuid.UUID,
) error {
	ctx = composables.WithTenantID(ctx, tenantID)
	target := make(map[uuid.UUID]struct{}, len(currentIDs))
	for _, id := range currentIDs {
		target[id] = struct{}{}
	}

	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.ListForResource(txCtx, assignment.ResourceWorkOrder, workOrderID)
		if err != nil {
			return err
		}

		granted := make(map[uuid.UUID]struct{}, len(existing))
		for _, grant := range existing {
			granted[grant.PersonnelID] = struct{}{}
			if _, keep := target[grant.PersonnelID]; keep {
				continue
			}
			if err := s.repo.Revoke(txCtx, grant.PersonnelID, assignment.ResourceWorkOrder, workOrderID); err != nil {
				return err
			}
			permissionWrites.WithLabelValues("revoke").Inc()
		}

		for id := range target {
			if _, ok := granted[id]; ok {
				continue
			}
			created, err := s.repo.Upsert(txCtx, &assignment.Permission{
				TenantID:     tenantID,
				PersonnelID:  id,
				ResourceType: assignment.ResourceWorkOrder,
				ResourceID:   workOrderID,
			})
			if err != nil {
				return err
			}
			if created {
				permissionWrites.WithLabelValues("grant").Inc()
			}
		}
		return nil
	})
}

// GrantTaskAssignment ensures a task-scoped grant exists for the personnel.
// Idempotent: an existing grant is left untouched.
func (s *AssignmentPermissionService) GrantTaskAssignment(
	ctx context.Context,
	taskID uuid.UUID,
	personnelID uuid.UUID,
	tenantID uuid.UUID,
) error {
	ctx = composables.WithTenantID(ctx, tenantID)
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		created, err := s.repo.Upsert(txCtx, &assignment.Permission{
			TenantID:     tenantID,
			PersonnelID:  personnelID,
			ResourceType: assignment.ResourceTask,
			ResourceID:   taskID,
		})
		if err != nil {
			return err
		}
		if created {
			permissionWrites.WithLabelValues("grant").Inc()
		}
		return nil
	})
}

// RevokeWorkOrderGrants removes the work-order-scoped grants of the given
// personnel. Missing grants are ignored.
func (s *AssignmentPermissionService) RevokeWorkOrderGrants(
	ctx context.Context,
	workOrderID uuid.UUID,
	personnelIDs []uuid.UUID,
	tenantID uuid.UUID,
) error {
	if len(personnelIDs) == 0 {
		return nil
	}
	ctx = composables.WithTenantID(ctx, tenantID)
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		for _, id := range personnelIDs {
			if err := s.repo.Revoke(txCtx, id, assignment.ResourceWorkOrder, workOrderID); err != nil {
				return err
			}
			permissionWrites.WithLabelValues("revoke").Inc()
		}
		return nil
	})
}
