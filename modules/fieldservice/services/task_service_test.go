package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/assignment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/pkg/eventbus"
	"github.com/aristech/fieldservice/pkg/serrors"
)

type taskFixture struct {
	svc            *TaskService
	taskRepo       *mockTaskRepo
	workOrderRepo  *mockWorkOrderRepo
	permissionRepo *mockAssignmentRepo
	timelineRepo   *mockTimelineRepo
	bus            eventbus.EventBus
}

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		taskRepo:       newMockTaskRepo(),
		workOrderRepo:  newMockWorkOrderRepo(),
		permissionRepo: &mockAssignmentRepo{},
		timelineRepo:   &mockTimelineRepo{},
		bus:            eventbus.NewEventPublisher(logrus.New()),
	}
	f.svc = NewTaskService(
		f.taskRepo,
		f.workOrderRepo,
		NewAssignmentPermissionService(f.permissionRepo),
		NewTimelineService(f.timelineRepo, newMockPersonnelRepo()),
		f.bus,
	)
	return f
}

func (f *taskFixture) seedWorkOrder(tenantID uuid.UUID) workorder.WorkOrder {
	wo := workorder.Hydrate(
		tenantID, uuid.New(), 1, "Parent", "",
		workorder.StatusOpen, workorder.PriorityMedium, workorder.ProgressModeDerived,
		0, workorder.TaskCounters{}, nil, nil, nil, time.Now(), time.Now(),
	)
	f.workOrderRepo.byID[wo.ID()] = wo
	return wo
}

func TestTaskCreate_RequiresExistingWorkOrder(t *testing.T) {
	allowAllAuthz(t)
	f := newTaskFixture()
	tenantID, actorID := uuid.New(), uuid.New()

	_, err := f.svc.Create(testContext(tenantID), tenantID, actorID,
		task.New(tenantID, uuid.New(), "Orphan task"))
	require.ErrorIs(t, err, workorder.ErrNotFound)
}

func TestTaskCreate_PublishesEventAndTimeline(t *testing.T) {
	allowAllAuthz(t)
	f := newTaskFixture()
	tenantID, actorID := uuid.New(), uuid.New()
	wo := f.seedWorkOrder(tenantID)

	var published []task.CreatedEvent
	f.bus.Subscribe(func(event task.CreatedEvent) {
		published = append(published, event)
	})

	created, err := f.svc.Create(testContext(tenantID), tenantID, actorID,
		task.New(tenantID, wo.ID(), "Check voltage"))
	require.NoError(t, err)
	require.Equal(t, wo.ID(), created.WorkOrderID())
	require.Len(t, published, 1)
	require.Equal(t, created.ID(), published[0].Result.ID())
	require.Len(t, f.timelineRepo.entries, 1)
	require.Equal(t, created.ID(), *f.timelineRepo.entries[0].EntityID)
}

func TestTaskUpdate_StatusChangePublishesEvent(t *testing.T) {
	allowAllAuthz(t)
	f := newTaskFixture()
	tenantID, actorID := uuid.New(), uuid.New()
	wo := f.seedWorkOrder(tenantID)
	existing := task.Hydrate(tenantID, uuid.New(), wo.ID(), "Check voltage", task.StatusPending, nil, time.Now(), time.Now())
	f.taskRepo.byWorkOrder[wo.ID()] = []task.Task{existing}

	var published []task.StatusChangedEvent
	f.bus.Subscribe(func(event task.StatusChangedEvent) {
		published = append(published, event)
	})

	_, err := f.svc.Update(testContext(tenantID), tenantID, actorID,
		existing.WithStatus(task.StatusCompleted))
	require.NoError(t, err)
	require.Len(t, published, 1)
	require.Equal(t, task.StatusPending, published[0].Previous)
	require.Equal(t, task.StatusCompleted, published[0].Result.Status())
	require.Len(t, f.timelineRepo.entries, 1)
	require.Equal(t, "Task status changed", f.timelineRepo.entries[0].Title)
}

func TestTaskUpdate_NoStatusChangeNoEvent(t *testing.T) {
	allowAllAuthz(t)
	f := newTaskFixture()
	tenantID, actorID := uuid.New(), uuid.New()
	wo := f.seedWorkOrder(tenantID)
	existing := task.Hydrate(tenantID, uuid.New(), wo.ID(), "Check voltage", task.StatusPending, nil, time.Now(), time.Now())
	f.taskRepo.byWorkOrder[wo.ID()] = []task.Task{existing}

	var published []task.StatusChangedEvent
	f.bus.Subscribe(func(event task.StatusChangedEvent) {
		published = append(published, event)
	})

	_, err := f.svc.Update(testContext(tenantID), tenantID, actorID,
		existing.WithTitle("Check voltage again"))
	require.NoError(t, err)
	require.Empty(t, published)
	require.Empty(t, f.timelineRepo.entries)
}

func TestTaskUpdate_RejectsInvalidStatus(t *testing.T) {
	allowAllAuthz(t)
	f := newTaskFixture()
	tenantID, actorID := uuid.New(), uuid.New()
	wo := f.seedWorkOrder(tenantID)
	existing := task.Hydrate(tenantID, uuid.New(), wo.ID(), "Check voltage", task.StatusPending, nil, time.Now(), time.Now())
	f.taskRepo.byWorkOrder[wo.ID()] = []task.Task{existing}

	_, err := f.svc.Update(testContext(tenantID), tenantID, actorID,
		existing.WithStatus("paused"))
	var base *serrors.BaseError
	require.ErrorAs(t, err, &base)
	require.Equal(t, "VALIDATION_ERROR", base.Code)
}

func TestTaskUpdateAssignees_GrantsForAdded(t *testing.T) {
	allowAllAuthz(t)
	f := newTaskFixture()
	tenantID, actorID := uuid.New(), uuid.New()
	wo := f.seedWorkOrder(tenantID)
	existing := task.Hydrate(tenantID, uuid.New(), wo.ID(), "Check voltage", task.StatusPending, nil, time.Now(), time.Now())
	f.taskRepo.byWorkOrder[wo.ID()] = []task.Task{existing}
	member := uuid.New()

	result, err := f.svc.UpdateAssignees(testContext(tenantID), tenantID, actorID, existing.ID(), []uuid.UUID{member})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{member}, result.AssigneeIDs())
	require.True(t, f.permissionRepo.has(member, assignment.ResourceTask, existing.ID()))
}

func TestTaskDelete_PublishesDeletedEvent(t *testing.T) {
	allowAllAuthz(t)
	f := newTaskFixture()
	tenantID, actorID := uuid.New(), uuid.New()
	wo := f.seedWorkOrder(tenantID)
	existing := task.Hydrate(tenantID, uuid.New(), wo.ID(), "Check voltage", task.StatusPending, nil, time.Now(), time.Now())
	f.taskRepo.byWorkOrder[wo.ID()] = []task.Task{existing}

	var published []task.DeletedEvent
	f.bus.Subscribe(func(event task.DeletedEvent) {
		published = append(published, event)
	})

	deleted, err := f.svc.Delete(testContext(tenantID), tenantID, actorID, existing.ID())
	require.NoError(t, err)
	require.Equal(t, existing.ID(), deleted.ID())
	require.Len(t, published, 1)
	require.Empty(t, f.taskRepo.byWorkOrder[wo.ID()])
}

func TestTaskDelete_RemovesTimelineEntries(t *testing.T) {
	allowAllAuthz(t)
	f := newTaskFixture()
	tenantID, actorID := uuid.New(), uuid.New()
	wo := f.seedWorkOrder(tenantID)
	existing := task.Hydrate(tenantID, uuid.New(), wo.ID(), "Check voltage", task.StatusPending, nil, time.Now(), time.Now())
	f.taskRepo.byWorkOrder[wo.ID()] = []task.Task{existing}

	taskID := existing.ID()
	f.timelineRepo.entries = []*timeline.Entry{{
		ID:          uuid.New(),
		TenantID:    tenantID,
		WorkOrderID: wo.ID(),
		EntityType:  timeline.EntityTask,
		EntityID:    &taskID,
		EventType:   timeline.EventCreated,
		Title:       "Task created",
	}}

	_, err := f.svc.Delete(testContext(tenantID), tenantID, actorID, existing.ID())
	require.NoError(t, err)
	require.Contains(t, f.timelineRepo.deletedTasks, existing.ID())
	require.Empty(t, f.timelineRepo.entries)
}

func TestTaskDelete_TimelineFailureDoesNotBlockDelete(t *testing.T) {
	allowAllAuthz(t)
	f := newTaskFixture()
	tenantID, actorID := uuid.New(), uuid.New()
	wo := f.seedWorkOrder(tenantID)
	existing := task.Hydrate(tenantID, uuid.New(), wo.ID(), "Check voltage", task.StatusPending, nil, time.Now(), time.Now())
	f.taskRepo.byWorkOrder[wo.ID()] = []task.Task{existing}
	f.timelineRepo.deleteErr = errors.New("connection reset")

	deleted, err := f.svc.Delete(testContext(tenantID), tenantID, actorID, existing.ID())
	require.NoError(t, err)
	require.Equal(t, existing.ID(), deleted.ID())
	require.Empty(t, f.taskRepo.byWorkOrder[wo.ID()])
}
