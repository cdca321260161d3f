package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/assignment"
)

func TestHandleWorkOrderAssignment_ReconcilesToTarget(t *testing.T) {
	permRepo := &mockAssignmentRepo{}
	svc := NewAssignmentPermissionService(permRepo)
	tenantID := uuid.New()
	woID := uuid.New()
	keep, drop, add := uuid.New(), uuid.New(), uuid.New()

	permRepo.grants = []*assignment.Permission{
		{ID: uuid.New(), TenantID: tenantID, PersonnelID: keep, ResourceType: assignment.ResourceWorkOrder, ResourceID: woID},
		{ID: uuid.New(), TenantID: tenantID, PersonnelID: drop, ResourceType: assignment.ResourceWorkOrder, ResourceID: woID},
	}

	err := svc.HandleWorkOrderAssignment(testContext(tenantID), woID, []uuid.UUID{keep, add}, tenantID)
	require.NoError(t, err)
	require.True(t, permRepo.has(keep, assignment.ResourceWorkOrder, woID))
	require.True(t, permRepo.has(add, assignment.ResourceWorkOrder, woID))
	require.False(t, permRepo.has(drop, assignment.ResourceWorkOrder, woID))
}

func TestHandleWorkOrderAssignment_RedundantCallWritesNothing(t *testing.T) {
	permRepo := &mockAssignmentRepo{}
	svc := NewAssignmentPermissionService(permRepo)
	tenantID := uuid.New()
	woID := uuid.New()
	member := uuid.New()

	permRepo.grants = []*assignment.Permission{
		{ID: uuid.New(), TenantID: tenantID, PersonnelID: member, ResourceType: assignment.ResourceWorkOrder, ResourceID: woID},
	}

	err := svc.HandleWorkOrderAssignment(testContext(tenantID), woID, []uuid.UUID{member}, tenantID)
	require.NoError(t, err)
	require.Len(t, permRepo.grants, 1)
	require.Empty(t, permRepo.revoked)
}

func TestHandleWorkOrderAssignment_EmptyTargetRevokesAll(t *testing.T) {
	permRepo := &mockAssignmentRepo{}
	svc := NewAssignmentPermissionService(permRepo)
	tenantID := uuid.New()
	woID := uuid.New()

	permRepo.grants = []*assignment.Permission{
		{ID: uuid.New(), TenantID: tenantID, PersonnelID: uuid.New(), ResourceType: assignment.ResourceWorkOrder, ResourceID: woID},
		{ID: uuid.New(), TenantID: tenantID, PersonnelID: uuid.New(), ResourceType: assignment.ResourceWorkOrder, ResourceID: woID},
	}

	err := svc.HandleWorkOrderAssignment(testContext(tenantID), woID, nil, tenantID)
	require.NoError(t, err)
	require.Empty(t, permRepo.grants)
}

func TestHandleWorkOrderAssignment_LeavesOtherResourcesAlone(t *testing.T) {
	permRepo := &mockAssignmentRepo{}
	svc := NewAssignmentPermissionService(permRepo)
	tenantID := uuid.New()
	woID, otherWoID := uuid.New(), uuid.New()
	member := uuid.New()

	permRepo.grants = []*assignment.Permission{
		{ID: uuid.New(), TenantID: tenantID, PersonnelID: member, ResourceType: assignment.ResourceWorkOrder, ResourceID: otherWoID},
	}

	err := svc.HandleWorkOrderAssignment(testContext(tenantID), woID, []uuid.UUID{member}, tenantID)
	require.NoError(t, err)
	require.True(t, permRepo.has(member, assignment.ResourceWorkOrder, otherWoID))
	require.True(t, permRepo.has(member, assignment.ResourceWorkOrder, woID))
}

func TestGrantTaskAssignment_Idempotent(t *testing.T) {
	permRepo := &mockAssignmentRepo{}
	svc := NewAssignmentPermissionService(permRepo)
	tenantID := uuid.New()
	taskID := uuid.New()
	member := uuid.New()

	require.NoError(t, svc.GrantTaskAssignment(testContext(tenantID), taskID, member, tenantID))
	require.NoError(t, svc.GrantTaskAssignment(testContext(tenantID), taskID, member, tenantID))
	require.Len(t, permRepo.grants, 1)
	require.True(t, permRepo.has(member, assignment.ResourceTask, taskID))
}

func TestRevokeWorkOrderGrants_MissingGrantIgnored(t *testing.T) {
	permRepo := &mockAssignmentRepo{}
	svc := NewAssignmentPermissionService(permRepo)
	tenantID := uuid.New()

	err := svc.RevokeWorkOrderGrants(testContext(tenantID), uuid.New(), []uuid.UUID{uuid.New()}, tenantID)
	require.NoError(t, err)
	require.Empty(t, permRepo.grants)
}
