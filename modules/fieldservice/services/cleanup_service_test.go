package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/assignment"
)

type cleanupFixture struct {
	svc            *CleanupService
	workOrderRepo  *mockWorkOrderRepo
	taskRepo       *mockTaskRepo
	attachmentRepo *mockAttachmentRepo
	commentRepo    *mockCommentRepo
	permissionRepo *mockAssignmentRepo
	timelineRepo   *mockTimelineRepo
}

func newCleanupFixture() *cleanupFixture {
	f := &cleanupFixture{
		workOrderRepo:  newMockWorkOrderRepo(),
		taskRepo:       newMockTaskRepo(),
		attachmentRepo: &mockAttachmentRepo{},
		commentRepo:    &mockCommentRepo{},
		permissionRepo: &mockAssignmentRepo{},
		timelineRepo:   &mockTimelineRepo{},
	}
	f.svc = NewCleanupService(
		f.workOrderRepo, f.taskRepo, f.attachmentRepo, f.commentRepo,
		f.permissionRepo, f.timelineRepo,
	)
	return f
}

func (f *cleanupFixture) seedWorkOrder(tenantID uuid.UUID) workorder.WorkOrder {
	wo := workorder.Hydrate(
		tenantID, uuid.New(), 1, "Teardown site", "",
		workorder.StatusCancelled, workorder.PriorityLow, workorder.ProgressModeDerived,
		0, workorder.TaskCounters{}, nil, nil, nil, time.Now(), time.Now(),
	)
	f.workOrderRepo.byID[wo.ID()] = wo
	return wo
}

func TestCleanupWorkOrder_MissingWorkOrderFailsFast(t *testing.T) {
	f := newCleanupFixture()
	tenantID := uuid.New()

	_, err := f.svc.CleanupWorkOrder(testContext(tenantID), uuid.New(), tenantID, FullCleanupPolicy())
	require.ErrorIs(t, err, workorder.ErrNotFound)
	require.Empty(t, f.attachmentRepo.deleted)
	require.Empty(t, f.commentRepo.deleted)
	require.Empty(t, f.taskRepo.deletedForWO)
	require.Empty(t, f.timelineRepo.deleted)
}

func TestCleanupWorkOrder_FullPolicyRunsAllActions(t *testing.T) {
	f := newCleanupFixture()
	tenantID := uuid.New()
	wo := f.seedWorkOrder(tenantID)
	f.attachmentRepo.count = 3
	f.commentRepo.count = 2
	f.taskRepo.byWorkOrder[wo.ID()] = []task.Task{
		task.Hydrate(tenantID, uuid.New(), wo.ID(), "t1", task.StatusPending, nil, time.Now(), time.Now()),
	}
	f.permissionRepo.grants = []*assignment.Permission{
		{ID: uuid.New(), TenantID: tenantID, PersonnelID: uuid.New(), ResourceType: assignment.ResourceWorkOrder, ResourceID: wo.ID()},
	}

	result, err := f.svc.CleanupWorkOrder(testContext(tenantID), wo.ID(), tenantID, FullCleanupPolicy())
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Len(t, result.Actions, 5)
	require.Equal(t, int64(3), result.Actions["files"].Removed)
	require.Equal(t, int64(2), result.Actions["comments"].Removed)
	require.Equal(t, int64(1), result.Actions["permissions"].Removed)
	require.Equal(t, int64(1), result.Actions["tasks"].Removed)
}

func TestCleanupWorkOrder_OneFailureDoesNotAbortOthers(t *testing.T) {
	f := newCleanupFixture()
	tenantID := uuid.New()
	wo := f.seedWorkOrder(tenantID)
	f.commentRepo.deleteErr = errors.New("relation locked")

	result, err := f.svc.CleanupWorkOrder(testContext(tenantID), wo.ID(), tenantID, FullCleanupPolicy())
	require.NoError(t, err)
	require.True(t, result.Failed())
	require.Error(t, result.Actions["comments"].Err)
	require.NoError(t, result.Actions["files"].Err)
	require.NoError(t, result.Actions["tasks"].Err)
	require.NoError(t, result.Actions["timeline"].Err)
	require.Contains(t, f.taskRepo.deletedForWO, wo.ID())
	require.Contains(t, f.timelineRepo.deleted, wo.ID())
}

func TestCleanupWorkOrder_SelectivePolicy(t *testing.T) {
	f := newCleanupFixture()
	tenantID := uuid.New()
	wo := f.seedWorkOrder(tenantID)

	result, err := f.svc.CleanupWorkOrder(
		testContext(tenantID), wo.ID(), tenantID, CleanupPolicy{DeleteTasks: true},
	)
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	require.Contains(t, result.Actions, "tasks")
	require.Empty(t, f.attachmentRepo.deleted)
	require.Empty(t, f.commentRepo.deleted)
	require.Empty(t, f.timelineRepo.deleted)
}

func TestCleanupWorkOrder_RevokesTaskScopedGrants(t *testing.T) {
	f := newCleanupFixture()
	tenantID := uuid.New()
	wo := f.seedWorkOrder(tenantID)
	linked := task.Hydrate(tenantID, uuid.New(), wo.ID(), "t1", task.StatusPending, nil, time.Now(), time.Now())
	f.taskRepo.byWorkOrder[wo.ID()] = []task.Task{linked}
	f.permissionRepo.grants = []*assignment.Permission{
		{ID: uuid.New(), TenantID: tenantID, PersonnelID: uuid.New(), ResourceType: assignment.ResourceTask, ResourceID: linked.ID()},
	}

	result, err := f.svc.CleanupWorkOrder(
		testContext(tenantID), wo.ID(), tenantID, CleanupPolicy{DeletePermissions: true},
	)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Actions["permissions"].Removed)
	require.Empty(t, f.permissionRepo.grants)
}
