package permissions

import (
	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/permission"
)

const (
	ResourceWorkOrder permission.Resource = "work_order"
	ResourceTask      permission.Resource = "task"
	ResourceTimeline  permission.Resource = "timeline"
)

var (
	WorkOrderCreate = &permission.Permission{
		ID:       uuid.MustParse("0d1b61a3-0486-4d3c-a9df-4d2a742dbab4"),
		Name:     "WorkOrder.Create",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionCreate,
		Modifier: permission.ModifierAll,
	}
	WorkOrderRead = &permission.Permission{
		ID:       uuid.MustParse("70a9a7b7-0b6e-4014-9e9f-f5a1f8b9cf33"),
		Name:     "WorkOrder.Read",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	WorkOrderUpdate = &permission.Permission{
		ID:       uuid.MustParse("c5b40f60-9a43-44b4-9f2d-9a79f3a6a2be"),
		Name:     "WorkOrder.Update",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
	WorkOrderDelete = &permission.Permission{
		ID:       uuid.MustParse("3ab8c6f2-44a5-4c38-b7a5-1d4d72f0b8f7"),
		Name:     "WorkOrder.Delete",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
	TaskCreate = &permission.Permission{
		ID:       uuid.MustParse("9f3d9d4f-59e3-4cb1-9f2c-35f7f7d12c0a"),
		Name:     "Task.Create",
		Resource: ResourceTask,
		Action:   permission.ActionCreate,
		Modifier: permission.ModifierAll,
	}
	TaskRead = &permission.Permission{
		ID:       uuid.MustParse("f3e0c0f0-6f3a-4d61-88a2-6bb30f9e4e3e"),
		Name:     "Task.Read",
		Resource: ResourceTask,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	TaskUpdate = &permission.Permission{
		ID:       uuid.MustParse("7f8f6a4f-20cc-4c4e-94a4-8cf3e1a9d015"),
		Name:     "Task.Update",
		Resource: ResourceTask,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
	TaskDelete = &permission.Permission{
		ID:       uuid.MustParse("1b36c9ab-2c2e-4e8a-8f69-8d8f4f2b7e91"),
		Name:     "Task.Delete",
		Resource: ResourceTask,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
	TimelineRead = &permission.Permission{
		ID:       uuid.MustParse("5d2c3f84-3e6e-49d4-b1a3-df1f6d9b0c72"),
		Name:     "Timeline.Read",
		Resource: ResourceTimeline,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
)

var Permissions = []*permission.Permission{
	WorkOrderCreate,
	WorkOrderRead,
	WorkOrderUpdate,
	WorkOrderDelete,
	TaskCreate,
	TaskRead,
	TaskUpdate,
	TaskDelete,
	TimelineRead,
}
