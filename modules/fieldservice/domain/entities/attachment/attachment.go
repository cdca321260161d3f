package attachment

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("attachment not found")

// Attachment is a file attached to a work order. The binary lives in blob
// storage; this record only tracks its location.
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

type Repository interface {
	ListForWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]*Attachment, error)
	Create(ctx context.Context, a *Attachment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error)
}
