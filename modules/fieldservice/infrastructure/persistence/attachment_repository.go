package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/attachment"
	"github.com/aristech/fieldservice/modules/fieldservice/infrastructure/persistence/models"
	"github.com/aristech/fieldservice/pkg/composables"
)

type PgAttachmentRepository struct{}

func NewAttachmentRepository() attachment.Repository {
	return &PgAttachmentRepository{}
}

func (r *PgAttachmentRepository) ListForWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]*attachment.Attachment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, tenant_id, work_order_id, filename, storage_path, size_bytes, uploaded_by, created_at
		FROM attachments
		WHERE work_order_id = $1 AND tenant_id = $2
		ORDER BY created_at
	`, workOrderID, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query attachments")
	}
	defer rows.Close()

	var out []*attachment.Attachment
	for rows.Next() {
		var row models.Attachment
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.WorkOrderID, &row.Filename,
			&row.StoragePath, &row.SizeBytes, &row.UploadedBy, &row.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan attachment")
		}
		out = append(out, toDomainAttachment(&row))
	}
	return out, rows.Err()
}

func (r *PgAttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}
	if a.TenantID == uuid.Nil {
		a.TenantID = tenantID
	}

	return tx.QueryRow(ctx, `
		INSERT INTO attachments (tenant_id, work_order_id, filename, storage_path, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, a.TenantID, a.WorkOrderID, a.Filename, a.StoragePath, a.SizeBytes, a.UploadedBy).
		Scan(&a.ID, &a.CreatedAt)
}

func (r *PgAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM attachments WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete attachment")
	}
	if tag.RowsAffected() == 0 {
		return attachment.ErrNotFound
	}
	return nil
}

func (r *PgAttachmentRepository) DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM attachments WHERE work_order_id = $1 AND tenant_id = $2`,
		workOrderID, tenantID,
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete attachments")
	}
	return tag.RowsAffected(), nil
}
