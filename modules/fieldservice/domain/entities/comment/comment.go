package comment

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("comment not found")

type Comment struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	WorkOrderID uuid.UUID
	AuthorID    uuid.UUID
	Body        string
	CreatedAt   time.Time
}

type Repository interface {
	ListForWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]*Comment, error)
	Create(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error)
}
