package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/comment"
	"github.com/aristech/fieldservice/modules/fieldservice/infrastructure/persistence/models"
	"github.com/aristech/fieldservice/pkg/composables"
)

type PgCommentRepository struct{}

func NewCommentRepository() comment.Repository {
	return &PgCommentRepository{}
}

func (r *PgCommentRepository) ListForWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]*comment.Comment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, tenant_id, work_order_id, author_id, body, created_at
		FROM comments
		WHERE work_order_id = $1 AND tenant_id = $2
		ORDER BY created_at
	`, workOrderID, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query comments")
	}
	defer rows.Close()

	var out []*comment.Comment
	for rows.Next() {
		var row models.Comment
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.WorkOrderID, &row.AuthorID,
			&row.Body, &row.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan comment")
		}
		out = append(out, toDomainComment(&row))
	}
	return out, rows.Err()
}

func (r *PgCommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}
	if c.TenantID == uuid.Nil {
		c.TenantID = tenantID
	}

	return tx.QueryRow(ctx, `
		INSERT INTO comments (tenant_id, work_order_id, author_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.TenantID, c.WorkOrderID, c.AuthorID, c.Body).Scan(&c.ID, &c.CreatedAt)
}

func (r *PgCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM comments WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete comment")
	}
	if tag.RowsAffected() == 0 {
		return comment.ErrNotFound
	}
	return nil
}

func (r *PgCommentRepository) DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM comments WHERE work_order_id = $1 AND tenant_id = $2`,
		workOrderID, tenantID,
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete comments")
	}
	return tag.RowsAffected(), nil
}
