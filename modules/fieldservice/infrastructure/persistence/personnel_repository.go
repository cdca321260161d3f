package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/personnel"
	"github.com/aristech/fieldservice/modules/fieldservice/infrastructure/persistence/models"
	"github.com/aristech/fieldservice/pkg/composables"
	"github.com/aristech/fieldservice/pkg/repo"
)

const personnelColumns = `id, tenant_id, display_name, status, is_active, created_at, updated_at`

type PgPersonnelRepository struct{}

func NewPersonnelRepository() personnel.Repository {
	return &PgPersonnelRepository{}
}

func (r *PgPersonnelRepository) GetByID(ctx context.Context, id uuid.UUID) (personnel.Personnel, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Personnel{}, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return personnel.Personnel{}, err
	}

	var row models.Personnel
	err = tx.QueryRow(ctx, `
		SELECT `+personnelColumns+`
		FROM personnel
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&row.ID, &row.TenantID, &row.DisplayName, &row.Status, &row.IsActive,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return personnel.Personnel{}, personnel.ErrNotFound
		}
		return personnel.Personnel{}, gerrors.Wrap(err, "failed to query personnel")
	}
	return toDomainPersonnel(&row), nil
}

func (r *PgPersonnelRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]personnel.Personnel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+personnelColumns+`
		FROM personnel
		WHERE tenant_id = $1 AND id = ANY($2)
	`, tenantID, ids)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query personnel by ids")
	}
	defer rows.Close()

	var out []personnel.Personnel
	for rows.Next() {
		var row models.Personnel
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.DisplayName, &row.Status, &row.IsActive,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan personnel")
		}
		out = append(out, toDomainPersonnel(&row))
	}
	return out, rows.Err()
}

func (r *PgPersonnelRepository) GetPaginated(ctx context.Context, params *personnel.FindParams) ([]personnel.Personnel, int64, error) {
	if params == nil {
		params = &personnel.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argPos := 2
	if q := strings.TrimSpace(params.Q); q != "" {
		where = append(where, fmt.Sprintf("display_name ILIKE $%d", argPos))
		args = append(args, "%"+q+"%")
		argPos++
	}
	if params.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(params.Status))
	}

	var total int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM personnel WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "failed to count personnel")
	}

	rows, err := tx.Query(ctx, `
		SELECT `+personnelColumns+`
		FROM personnel
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY display_name `+repo.FormatLimitOffset(params.Limit, params.Offset),
		args...,
	)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "failed to query personnel")
	}
	defer rows.Close()

	var out []personnel.Personnel
	for rows.Next() {
		var row models.Personnel
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.DisplayName, &row.Status, &row.IsActive,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, 0, gerrors.Wrap(err, "failed to scan personnel")
		}
		out = append(out, toDomainPersonnel(&row))
	}
	return out, total, rows.Err()
}

func (r *PgPersonnelRepository) Create(ctx context.Context, p personnel.Personnel) (personnel.Personnel, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Personnel{}, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return personnel.Personnel{}, err
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO personnel (tenant_id, display_name, status, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, tenantID, p.DisplayName(), string(p.Status()), p.IsActive()).Scan(&id)
	if err != nil {
		return personnel.Personnel{}, gerrors.Wrap(err, "failed to create personnel")
	}
	return r.GetByID(ctx, id)
}

func (r *PgPersonnelRepository) Update(ctx context.Context, p personnel.Personnel) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE personnel
		SET display_name = $3, status = $4, is_active = $5, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, p.ID(), tenantID, p.DisplayName(), string(p.Status()), p.IsActive())
	if err != nil {
		return gerrors.Wrap(err, "failed to update personnel")
	}
	if tag.RowsAffected() == 0 {
		return personnel.ErrNotFound
	}
	return nil
}
