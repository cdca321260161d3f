package models

import (
	"time"

	"github.com/google/uuid"
)

type WorkOrder struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Number          int64
	Title           string
	Description     string
	Status          string
	Priority        string
	ProgressMode    string
	Progress        int
	TasksTotal      int
	TasksCompleted  int
	TasksInProgress int
	TasksBlocked    int
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Task struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	WorkOrderID uuid.UUID
	Title       string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Subtask struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	TaskID    uuid.UUID
	Seq       int
	Title     string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Personnel struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	DisplayName string
	Status      string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TimelineEntry struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	WorkOrderID uuid.UUID
	EntityType  string
	EntityID    *uuid.UUID
	EventType   string
	Title       string
	Metadata    []byte
	ActorID     uuid.UUID
	ActorName   string
	CreatedAt   time.Time
}

type AssignmentPermission struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	PersonnelID  uuid.UUID
	ResourceType string
	ResourceID   uuid.UUID
	GrantedAt    time.Time
}

type Attachment struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	WorkOrderID uuid.UUID
	Filename    string
	StoragePath string
	SizeBytes   int64
	UploadedBy  uuid.UUID
	CreatedAt   time.Time
}

type Comment struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	WorkOrderID uuid.UUID
	AuthorID    uuid.UUID
	Body        string
	CreatedAt   time.Time
}
