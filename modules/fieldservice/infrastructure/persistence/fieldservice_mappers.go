package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/assignment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/attachment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/comment"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/personnel"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/modules/fieldservice/infrastructure/persistence/models"
	"github.com/aristech/fieldservice/pkg/composables"
)

func useTenantID(ctx context.Context) (uuid.UUID, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get tenant from context: %w", err)
	}
	return tenantID, nil
}

func toDomainWorkOrder(row *models.WorkOrder, assigneeIDs []uuid.UUID) workorder.WorkOrder {
	return workorder.Hydrate(
		row.TenantID,
		row.ID,
		row.Number,
		row.Title,
		row.Description,
		workorder.Status(row.Status),
		workorder.Priority(row.Priority),
		workorder.ProgressMode(row.ProgressMode),
		row.Progress,
		workorder.TaskCounters{
			Total:      row.TasksTotal,
			Completed:  row.TasksCompleted,
			InProgress: row.TasksInProgress,
			Blocked:    row.TasksBlocked,
		},
		assigneeIDs,
		row.StartedAt,
		row.CompletedAt,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainTask(row *models.Task, assigneeIDs []uuid.UUID) task.Task {
	return task.Hydrate(
		row.TenantID,
		row.ID,
		row.WorkOrderID,
		row.Title,
		task.Status(row.Status),
		assigneeIDs,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainSubtask(row *models.Subtask) *task.Subtask {
	return &task.Subtask{
		ID:        row.ID,
		TenantID:  row.TenantID,
		TaskID:    row.TaskID,
		Seq:       row.Seq,
		Title:     row.Title,
		Done:      row.Done,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toDomainPersonnel(row *models.Personnel) personnel.Personnel {
	return personnel.Hydrate(
		row.TenantID,
		row.ID,
		row.DisplayName,
		personnel.Status(row.Status),
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainTimelineEntry(row *models.TimelineEntry) (*timeline.Entry, error) {
	var metadata map[string]interface{}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to decode timeline metadata: %w", err)
		}
	}
	return &timeline.Entry{
		ID:          row.ID,
		TenantID:    row.TenantID,
		WorkOrderID: row.WorkOrderID,
		EntityType:  timeline.EntityType(row.EntityType),
		EntityID:    row.EntityID,
		EventType:   timeline.EventType(row.EventType),
		Title:       row.Title,
		Metadata:    metadata,
		ActorID:     row.ActorID,
		ActorName:   row.ActorName,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func toDBTimelineMetadata(entry *timeline.Entry) ([]byte, error) {
	if entry.Metadata == nil {
		return nil, nil
	}
	return json.Marshal(entry.Metadata)
}

func toDomainAssignmentPermission(row *models.AssignmentPermission) *assignment.Permission {
	return &assignment.Permission{
		ID:           row.ID,
		TenantID:     row.TenantID,
		PersonnelID:  row.PersonnelID,
		ResourceType: assignment.ResourceType(row.ResourceType),
		ResourceID:   row.ResourceID,
		GrantedAt:    row.GrantedAt,
	}
}

func toDomainAttachment(row *models.Attachment) *attachment.Attachment {
	return &attachment.Attachment{
		ID:          row.ID,
		TenantID:    row.TenantID,
		WorkOrderID: row.WorkOrderID,
		Filename:    row.Filename,
		StoragePath: row.StoragePath,
		SizeBytes:   row.SizeBytes,
		UploadedBy:  row.UploadedBy,
		CreatedAt:   row.CreatedAt,
	}
}

func toDomainComment(row *models.Comment) *comment.Comment {
	return &comment.Comment{
		ID:          row.ID,
		TenantID:    row.TenantID,
		WorkOrderID: row.WorkOrderID,
		AuthorID:    row.AuthorID,
		Body:        row.Body,
		CreatedAt:   row.CreatedAt,
	}
}
