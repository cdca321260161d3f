package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/infrastructure/persistence/models"
	"github.com/aristech/fieldservice/pkg/composables"
)

const taskColumns = `id, tenant_id, work_order_id, title, status, created_at, updated_at`

type PgTaskRepository struct{}

func NewTaskRepository() task.Repository {
	return &PgTaskRepository{}
}

func (r *PgTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (task.Task, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return task.Task{}, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return task.Task{}, err
	}

	var row models.Task
	err = tx.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID).Scan(
		&row.ID, &row.TenantID, &row.WorkOrderID, &row.Title, &row.Status,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, gerrors.Wrap(err, "failed to query task")
	}

	assignees, err := r.assigneesFor(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	return toDomainTask(&row, assignees), nil
}

func (r *PgTaskRepository) ListForWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]task.Task, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE work_order_id = $1 AND tenant_id = $2
		ORDER BY created_at
	`, workOrderID, tenantID)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query tasks")
	}
	defer rows.Close()

	var out []task.Task
	for rows.Next() {
		var row models.Task
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.WorkOrderID, &row.Title, &row.Status,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan task")
		}
		out = append(out, toDomainTask(&row, nil))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, t := range out {
		assignees, err := r.assigneesFor(ctx, t.ID())
		if err != nil {
			return nil, err
		}
		out[i] = t.WithAssigneeIDs(assignees)
	}
	return out, nil
}

func (r *PgTaskRepository) Create(ctx context.Context, t task.Task) (task.Task, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return task.Task{}, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return task.Task{}, err
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO tasks (tenant_id, work_order_id, title, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, tenantID, t.WorkOrderID(), t.Title(), string(t.Status())).Scan(&id)
	if err != nil {
		return task.Task{}, gerrors.Wrap(err, "failed to create task")
	}

	if err := r.replaceAssignees(ctx, id, t.AssigneeIDs()); err != nil {
		return task.Task{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PgTaskRepository) Update(ctx context.Context, t task.Task) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE tasks
		SET title = $3, status = $4, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, t.ID(), tenantID, t.Title(), string(t.Status()))
	if err != nil {
		return gerrors.Wrap(err, "failed to update task")
	}
	if tag.RowsAffected() == 0 {
		return task.ErrNotFound
	}
	return r.replaceAssignees(ctx, t.ID(), t.AssigneeIDs())
}

func (r *PgTaskRepository) UpdateAssignees(ctx context.Context, id uuid.UUID, assigneeIDs []uuid.UUID) error {
	return r.replaceAssignees(ctx, id, assigneeIDs)
}

func (r *PgTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM subtasks WHERE task_id = $1 AND tenant_id = $2`, id, tenantID,
	); err != nil {
		return gerrors.Wrap(err, "failed to delete subtasks")
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM task_assignees WHERE task_id = $1 AND tenant_id = $2`, id, tenantID,
	); err != nil {
		return gerrors.Wrap(err, "failed to delete task assignees")
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete task")
	}
	if tag.RowsAffected() == 0 {
		return task.ErrNotFound
	}
	return nil
}

func (r *PgTaskRepository) DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM subtasks
		WHERE tenant_id = $2
		  AND task_id IN (SELECT id FROM tasks WHERE work_order_id = $1 AND tenant_id = $2)
	`, workOrderID, tenantID); err != nil {
		return 0, gerrors.Wrap(err, "failed to delete subtasks for work order")
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM task_assignees
		WHERE tenant_id = $2
		  AND task_id IN (SELECT id FROM tasks WHERE work_order_id = $1 AND tenant_id = $2)
	`, workOrderID, tenantID); err != nil {
		return 0, gerrors.Wrap(err, "failed to delete task assignees for work order")
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM tasks WHERE work_order_id = $1 AND tenant_id = $2`,
		workOrderID, tenantID,
	)
	if err != nil {
		return 0, gerrors.Wrap(err, "failed to delete tasks for work order")
	}
	return tag.RowsAffected(), nil
}

func (r *PgTaskRepository) ListSubtasks(ctx context.Context, taskID uuid.UUID) ([]*task.Subtask, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, tenant_id, task_id, seq, title, done, created_at, updated_at
		FROM subtasks
		WHERE task_id = $1 AND tenant_id = $2
		ORDER BY seq
	`, taskID, tenantID)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query subtasks")
	}
	defer rows.Close()

	var out []*task.Subtask
	for rows.Next() {
		var row models.Subtask
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.TaskID, &row.Seq, &row.Title,
			&row.Done, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan subtask")
		}
		out = append(out, toDomainSubtask(&row))
	}
	return out, rows.Err()
}

func (r *PgTaskRepository) CreateSubtask(ctx context.Context, st *task.Subtask) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO subtasks (tenant_id, task_id, seq, title, done)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, tenantID, st.TaskID, st.Seq, st.Title, st.Done).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

func (r *PgTaskRepository) UpdateSubtask(ctx context.Context, st *task.Subtask) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE subtasks
		SET seq = $3, title = $4, done = $5, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`, st.ID, tenantID, st.Seq, st.Title, st.Done)
	if err != nil {
		return gerrors.Wrap(err, "failed to update subtask")
	}
	if tag.RowsAffected() == 0 {
		return task.ErrSubtaskNotFound
	}
	return nil
}

func (r *PgTaskRepository) DeleteSubtask(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM subtasks WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete subtask")
	}
	if tag.RowsAffected() == 0 {
		return task.ErrSubtaskNotFound
	}
	return nil
}

func (r *PgTaskRepository) assigneesFor(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT personnel_id FROM task_assignees
		WHERE task_id = $1
		ORDER BY personnel_id
	`, taskID)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query task assignees")
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

func (r *PgTaskRepository) replaceAssignees(ctx context.Context, taskID uuid.UUID, assigneeIDs []uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM task_assignees WHERE task_id = $1 AND tenant_id = $2`,
		taskID, tenantID,
	); err != nil {
		return gerrors.Wrap(err, "failed to clear task assignees")
	}
	for _, personnelID := range assigneeIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO task_assignees (tenant_id, task_id, personnel_id)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, tenantID, taskID, personnelID); err != nil {
			return gerrors.Wrap(err, "failed to insert task assignee")
		}
	}
	return nil
}
