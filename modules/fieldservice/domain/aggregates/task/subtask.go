package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Subtask belongs to exactly one task and is ordered by Seq. Its completion
// flag does not feed work order aggregation directly.
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

func NewSubtask(tenantID, taskID uuid.UUID, seq int, title string) *Subtask {
	return &Subtask{
		TenantID: tenantID,
		TaskID:   taskID,
		Seq:      seq,
		Title:    strings.TrimSpace(title),
	}
}
