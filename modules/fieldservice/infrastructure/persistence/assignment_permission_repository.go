package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/assignment"
	"github.com/aristech/fieldservice/modules/fieldservice/infrastructure/persistence/models"
	"github.com/aristech/fieldservice/pkg/composables"
)

type PgAssignmentPermissionRepository struct{}

func NewAssignmentPermissionRepository() assignment.Repository {
	return &PgAssignmentPermissionRepository{}
}

func (r *PgAssignmentPermissionRepository) ListForResource(
	ctx context.Context,
	resourceType assignment.ResourceType,
	resourceID uuid.UUID,
) ([]*assignment.Permission, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, tenant_id, personnel_id, resource_type, resource_id, granted_at
		FROM assignment_permissions
		WHERE resource_type = $1 AND resource_id = $2 AND tenant_id = $3
		ORDER BY granted_at
	`, string(resourceType), resourceID, tenantID)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query assignment permissions")
	}
	defer rows.Close()

	var out []*assignment.Permission
	for rows.Next() {
		var row models.AssignmentPermission
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.PersonnelID, &row.ResourceType,
			&row.ResourceID, &row.GrantedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan assignment permission")
		}
		out = append(out, toDomainAssignmentPermission(&row))
	}
	return out, rows.Err()
}

func (r *PgAssignmentPermissionRepository) Upsert(ctx context.Context, p *assignment.Permission) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return false, err
	}

	if p.TenantID == uuid.Nil {
		p.TenantID = tenantID
	}
	if p.GrantedAt.IsZero() {
		p.GrantedAt = time.Now()
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO assignment_permissions (
			tenant_id, personnel_id, resource_type, resource_id, granted_at
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, personnel_id, resource_type, resource_id) DO NOTHING
	`,
		p.TenantID,
		p.PersonnelID,
		string(p.ResourceType),
		p.ResourceID,
		p.GrantedAt,
	)
	if err != nil {
		return false, gerrors.Wrap(err, "failed to upsert assignment permission")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgAssignmentPermissionRepository) Revoke(
	ctx context.Context,
	personnelID uuid.UUID,
	resourceType assignment.ResourceType,
	resourceID uuid.UUID,
) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM assignment_permissions
		WHERE personnel_id = $1 AND resource_type = $2 AND resource_id = $3 AND tenant_id = $4
	`, personnelID, string(resourceType), resourceID, tenantID); err != nil {
		return gerrors.Wrap(err, "failed to revoke assignment permission")
	}
	return nil
}

func (r *PgAssignmentPermissionRepository) RevokeForResource(
	ctx context.Context,
	resourceType assignment.ResourceType,
	resourceID uuid.UUID,
) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM assignment_permissions
		WHERE resource_type = $1 AND resource_id = $2 AND tenant_id = $3
	`, string(resourceType), resourceID, tenantID)
	if err != nil {
		return 0, gerrors.Wrap(err, "failed to revoke assignment permissions")
	}
	return tag.RowsAffected(), nil
}
