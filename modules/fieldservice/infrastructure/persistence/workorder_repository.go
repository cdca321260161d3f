package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
	"github.com/aristech/fieldservice/modules/fieldservice/infrastructure/persistence/models"
	"github.com/aristech/fieldservice/pkg/composables"
	"github.com/aristech/fieldservice/pkg/repo"
)

const workOrderColumns = `
	id, tenant_id, number, title, description, status, priority,
	progress_mode, progress, tasks_total, tasks_completed, tasks_in_progress,
	tasks_blocked, started_at, completed_at, created_at, updated_at
`

type PgWorkOrderRepository struct{}

func NewWorkOrderRepository() workorder.Repository {
	return &PgWorkOrderRepository{}
}

func (r *PgWorkOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (workorder.WorkOrder, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return workorder.WorkOrder{}, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	var row models.WorkOrder
	err = tx.QueryRow(ctx, `
		SELECT `+workOrderColumns+`
		FROM work_orders
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&row.ID, &row.TenantID, &row.Number, &row.Title, &row.Description,
		&row.Status, &row.Priority, &row.ProgressMode, &row.Progress,
		&row.TasksTotal, &row.TasksCompleted, &row.TasksInProgress,
		&row.TasksBlocked, &row.StartedAt, &row.CompletedAt,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workorder.WorkOrder{}, workorder.ErrNotFound
		}
		return workorder.WorkOrder{}, gerrors.Wrap(err, "failed to query work order")
	}

	assignees, err := r.assigneesFor(ctx, id)
	if err != nil {
		return workorder.WorkOrder{}, err
	}
	return toDomainWorkOrder(&row, assignees), nil
}

func (r *PgWorkOrderRepository) GetPaginated(ctx context.Context, params *workorder.FindParams) ([]workorder.WorkOrder, int64, error) {
	if params == nil {
		params = &workorder.FindParams{}
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
	if params.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(params.Status))
		argPos++
	}
	if params.Priority != "" {
		where = append(where, fmt.Sprintf("priority = $%d", argPos))
		args = append(args, string(params.Priority))
		argPos++
	}
	if params.Assignee != uuid.Nil {
		where = append(where, fmt.Sprintf(
			"id IN (SELECT work_order_id FROM work_order_assignees WHERE personnel_id = $%d)", argPos))
		args = append(args, params.Assignee)
	}

	var total int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM work_orders WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "failed to count work orders")
	}

	query := `
		SELECT ` + workOrderColumns + `
		FROM work_orders
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY number DESC ` + repo.FormatLimitOffset(params.Limit, params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "failed to query work orders")
	}
	defer rows.Close()

	var out []workorder.WorkOrder
	for rows.Next() {
		var row models.WorkOrder
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.Number, &row.Title, &row.Description,
			&row.Status, &row.Priority, &row.ProgressMode, &row.Progress,
			&row.TasksTotal, &row.TasksCompleted, &row.TasksInProgress,
			&row.TasksBlocked, &row.StartedAt, &row.CompletedAt,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, 0, gerrors.Wrap(err, "failed to scan work order")
		}
		out = append(out, toDomainWorkOrder(&row, nil))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i, wo := range out {
		assignees, err := r.assigneesFor(ctx, wo.ID())
		if err != nil {
			return nil, 0, err
		}
		out[i] = wo.WithAssigneeIDs(assignees)
	}
	return out, total, nil
}

func (r *PgWorkOrderRepository) NextNumber(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return 0, err
	}

	var next int64
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(number), 0) + 1 FROM work_orders WHERE tenant_id = $1`,
		tenantID,
	).Scan(&next); err != nil {
		return 0, gerrors.Wrap(err, "failed to reserve work order number")
	}
	return next, nil
}

func (r *PgWorkOrderRepository) Create(ctx context.Context, wo workorder.WorkOrder) (workorder.WorkOrder, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return workorder.WorkOrder{}, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	number := wo.Number()
	if number == 0 {
		number, err = r.NextNumber(ctx)
		if err != nil {
			return workorder.WorkOrder{}, err
		}
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO work_orders (
			tenant_id, number, title, description, status, priority,
			progress_mode, progress
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		tenantID,
		number,
		wo.Title(),
		wo.Description(),
		string(wo.Status()),
		string(wo.Priority()),
		string(wo.ProgressMode()),
		wo.Progress(),
	).Scan(&id)
	if err != nil {
		return workorder.WorkOrder{}, gerrors.Wrap(err, "failed to create work order")
	}

	if err := r.replaceAssignees(ctx, id, wo.AssigneeIDs()); err != nil {
		return workorder.WorkOrder{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PgWorkOrderRepository) Update(ctx context.Context, wo workorder.WorkOrder) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE work_orders
		SET title = $3, description = $4, status = $5, priority = $6,
			progress_mode = $7, progress = $8, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`,
		wo.ID(),
		tenantID,
		wo.Title(),
		wo.Description(),
		string(wo.Status()),
		string(wo.Priority()),
		string(wo.ProgressMode()),
		wo.Progress(),
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update work order")
	}
	if tag.RowsAffected() == 0 {
		return workorder.ErrNotFound
	}
	return r.replaceAssignees(ctx, wo.ID(), wo.AssigneeIDs())
}

func (r *PgWorkOrderRepository) UpdateProgressSnapshot(ctx context.Context, wo workorder.WorkOrder) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	counters := wo.Counters()
	tag, err := tx.Exec(ctx, `
		UPDATE work_orders
		SET progress = $3, tasks_total = $4, tasks_completed = $5,
			tasks_in_progress = $6, tasks_blocked = $7,
			started_at = $8, completed_at = $9, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`,
		wo.ID(),
		tenantID,
		wo.Progress(),
		counters.Total,
		counters.Completed,
		counters.InProgress,
		counters.Blocked,
		wo.StartedAt(),
		wo.CompletedAt(),
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update work order progress")
	}
	if tag.RowsAffected() == 0 {
		return workorder.ErrNotFound
	}
	return nil
}

func (r *PgWorkOrderRepository) UpdateAssignees(ctx context.Context, id uuid.UUID, assigneeIDs []uuid.UUID) error {
	return r.replaceAssignees(ctx, id, assigneeIDs)
}

func (r *PgWorkOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM work_order_assignees WHERE work_order_id = $1 AND tenant_id = $2`,
		id, tenantID,
	); err != nil {
		return gerrors.Wrap(err, "failed to delete work order assignees")
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM work_orders WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete work order")
	}
	if tag.RowsAffected() == 0 {
		return workorder.ErrNotFound
	}
	return nil
}

func (r *PgWorkOrderRepository) assigneesFor(ctx context.Context, workOrderID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT personnel_id FROM work_order_assignees
		WHERE work_order_id = $1
		ORDER BY personnel_id
	`, workOrderID)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query work order assignees")
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *PgWorkOrderRepository) replaceAssignees(ctx context.Context, workOrderID uuid.UUID, assigneeIDs []uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM work_order_assignees WHERE work_order_id = $1 AND tenant_id = $2`,
		workOrderID, tenantID,
	); err != nil {
		return gerrors.Wrap(err, "failed to clear work order assignees")
	}
	for _, personnelID := range assigneeIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO work_order_assignees (tenant_id, work_order_id, personnel_id)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, tenantID, workOrderID, personnelID); err != nil {
			return gerrors.Wrap(err, "failed to insert work order assignee")
		}
	}
	return nil
}
