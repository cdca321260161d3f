package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/modules/fieldservice/infrastructure/persistence/models"
	"github.com/aristech/fieldservice/pkg/composables"
	"github.com/aristech/fieldservice/pkg/repo"
)

type PgTimelineRepository struct{}

func NewTimelineRepository() timeline.Repository {
	return &PgTimelineRepository{}
}

func (r *PgTimelineRepository) Insert(ctx context.Context, entry *timeline.Entry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return err
	}

	if entry.TenantID == uuid.Nil {
		entry.TenantID = tenantID
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	metadata, err := toDBTimelineMetadata(entry)
	if err != nil {
		return errors.Wrap(err, "failed to encode timeline metadata")
	}

	return tx.QueryRow(ctx, `
		INSERT INTO timeline_entries (
			tenant_id, work_order_id, entity_type, entity_id, event_type,
			title, metadata, actor_id, actor_name, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		entry.TenantID,
		entry.WorkOrderID,
		string(entry.EntityType),
		entry.EntityID,
		string(entry.EventType),
		entry.Title,
		metadata,
		entry.ActorID,
		entry.ActorName,
		entry.CreatedAt,
	).Scan(&entry.ID)
}

func (r *PgTimelineRepository) ListForWorkOrder(
	ctx context.Context,
	workOrderID uuid.UUID,
	params *timeline.FindParams,
) ([]*timeline.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildTimelineFilters(workOrderID, tenantID, params)
	query := `
		SELECT id, tenant_id, work_order_id, entity_type, entity_id, event_type,
			title, metadata, actor_id, actor_name, created_at
		FROM timeline_entries
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query timeline entries")
	}
	defer rows.Close()

	var out []*timeline.Entry
	for rows.Next() {
		var row models.TimelineEntry
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.WorkOrderID, &row.EntityType,
			&row.EntityID, &row.EventType, &row.Title, &row.Metadata,
			&row.ActorID, &row.ActorName, &row.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan timeline entry")
		}
		entry, err := toDomainTimelineEntry(&row)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating timeline entries")
	}
	return out, nil
}

func (r *PgTimelineRepository) CountForWorkOrder(
	ctx context.Context,
	workOrderID uuid.UUID,
	params *timeline.FindParams,
) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return 0, err
	}

	where, args := buildTimelineFilters(workOrderID, tenantID, params)
	var count int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM timeline_entries WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count timeline entries")
	}
	return count, nil
}

func (r *PgTimelineRepository) DeleteForWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM timeline_entries WHERE work_order_id = $1 AND tenant_id = $2`,
		workOrderID, tenantID,
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete timeline entries")
	}
	return tag.RowsAffected(), nil
}

func (r *PgTimelineRepository) DeleteForTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	tenantID, err := useTenantID(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM timeline_entries
		WHERE entity_type = $1 AND entity_id = $2 AND tenant_id = $3
	`, string(timeline.EntityTask), taskID, tenantID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete task timeline entries")
	}
	return tag.RowsAffected(), nil
}

func buildTimelineFilters(workOrderID, tenantID uuid.UUID, params *timeline.FindParams) ([]string, []interface{}) {
	where := []string{"work_order_id = $1", "tenant_id = $2"}
	args := []interface{}{workOrderID, tenantID}
	if params != nil && params.EntityType != "" {
		where = append(where, fmt.Sprintf("entity_type = $%d", len(args)+1))
		args = append(args, string(params.EntityType))
	}
	return where, args
}
