package personnel

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("personnel not found")

type FindParams struct {
	Q      string
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Personnel, error)
	// FindByIDs returns the tenant's personnel matching the given ids. Ids
	// with no match are silently absent from the result; callers decide
	// whether that is an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Personnel, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Personnel, int64, error)
	Create(ctx context.Context, p Personnel) (Personnel, error)
	Update(ctx context.Context, p Personnel) error
}
