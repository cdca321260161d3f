package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/personnel"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/pkg/composables"
)

// TimelineService records the audit history of work orders. Writes are best
// effort: a failed insert is logged and dropped so the triggering business
// write is never rolled back over audit bookkeeping.
type TimelineService struct {
	repo          timeline.Repository
	personnelRepo personnel.Repository
}

func NewTimelineService(repo timeline.Repository, personnelRepo personnel.Repository) *TimelineService {
	return &TimelineService{
		repo:          repo,
		personnelRepo: personnelRepo,
	}
}

// AddTimelineEntry persists one audit entry in its own transaction. The actor
// display name is denormalized at write time so later renames never rewrite
// history. Returns the stored entry, or nil when the write failed.
func (s *TimelineService) AddTimelineEntry(ctx context.Context, entry *timeline.Entry) *timeline.Entry {
	if entry == nil {
		return nil
	}

	if entry.ActorID == uuid.Nil {
		if actorID, err := composables.UseActorID(ctx); err == nil {
			entry.ActorID = actorID
		}
	}

	err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		if entry.ActorName == "" && entry.ActorID != uuid.Nil {
			if p, err := s.personnelRepo.GetByID(txCtx, entry.ActorID); err == nil {
				entry.ActorName = p.DisplayName()
			}
		}
		return s.repo.Insert(txCtx, entry)
	})
	if err != nil {
		timelineWriteFailures.Inc()
		composables.UseLogger(ctx).WithError(err).WithFields(map[string]interface{}{
			"workOrderId": entry.WorkOrderID,
			"eventType":   entry.EventType,
		}).Warn("failed to record timeline entry")
		return nil
	}
	return entry
}

// DeleteTaskTimeline removes the audit entries of a deleted task. Best effort
// like the writes: the task delete has already committed, so a failure here is
// logged and dropped rather than surfaced.
func (s *TimelineService) DeleteTaskTimeline(ctx context.Context, taskID uuid.UUID) {
	err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		_, err := s.repo.DeleteForTask(txCtx, taskID)
		return err
	})
	if err != nil {
		composables.UseLogger(ctx).WithError(err).WithField("taskId", taskID).
			Warn("failed to delete task timeline entries")
	}
}

// GetWorkOrderTimeline lists a work order's entries newest first.
func (s *TimelineService) GetWorkOrderTimeline(
	ctx context.Context,
	workOrderID uuid.UUID,
	tenantID uuid.UUID,
	params *timeline.FindParams,
) ([]*timeline.Entry, int64, error) {
	ctx = composables.WithTenantID(ctx, tenantID)
	if err := authorizeFieldService(ctx, TimelineAuthzObject, "read"); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &timeline.FindParams{}
	}

	type page struct {
		entries []*timeline.Entry
		total   int64
	}
	out, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (page, error) {
		entries, err := s.repo.ListForWorkOrder(txCtx, workOrderID, params)
		if err != nil {
			return page{}, err
		}
		total, err := s.repo.CountForWorkOrder(txCtx, workOrderID, params)
		if err != nil {
			return page{}, err
		}
		return page{entries: entries, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out.entries, out.total, nil
}
