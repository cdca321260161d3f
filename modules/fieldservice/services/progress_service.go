package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/workorder"
	"github.com/aristech/fieldservice/modules/fieldservice/domain/entities/timeline"
	"github.com/aristech/fieldservice/pkg/composables"
)

// ProgressService owns every derived progress field on a work order. Nothing
// else writes counters, progress, startedAt or completedAt.
type ProgressService struct {
	workOrderRepo   workorder.Repository
	taskRepo        task.Repository
	timelineService *TimelineService
}

func NewProgressService(
	workOrderRepo workorder.Repository,
	taskRepo task.Repository,
	timelineService *TimelineService,
) *ProgressService {
	return &ProgressService{
		workOrderRepo:   workOrderRepo,
		taskRepo:        taskRepo,
		timelineService: timelineService,
	}
}

// RecomputeForWorkOrder re-derives the aggregate task state of one work order
// from its current task set and persists it only when something changed. The
// operation is idempotent: running it twice in a row writes once.
func (s *ProgressService) RecomputeForWorkOrder(
	ctx context.Context,
	tenantID uuid.UUID,
	workOrderID uuid.UUID,
) (*RecomputeResult, error) {
	ctx = composables.WithTenantID(ctx, tenantID)

	type recomputed struct {
		result       *RecomputeResult
		wo           workorder.WorkOrder
		nowCompleted bool
	}

	out, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (recomputed, error) {
		wo, err := s.workOrderRepo.GetByID(txCtx, workOrderID)
		if err != nil {
			return recomputed{}, err
		}

		tasks, err := s.taskRepo.ListForWorkOrder(txCtx, workOrderID)
		if err != nil {
			return recomputed{}, err
		}

		counters := countTasks(tasks)
		progress := wo.Progress()
		if wo.IsDerived() {
			progress = deriveProgress(counters)
		}

		startedAt := wo.StartedAt()
		if startedAt == nil && counters.InProgress+counters.Completed > 0 {
			now := time.Now()
			startedAt = &now
		}

		completedAt := wo.CompletedAt()
		wasCompleted := completedAt != nil
		if counters.Total > 0 && counters.Completed == counters.Total {
			if completedAt == nil {
				now := time.Now()
				completedAt = &now
			}
		} else {
			completedAt = nil
		}

		changed := counters != wo.Counters() ||
			progress != wo.Progress() ||
			!sameTime(startedAt, wo.StartedAt()) ||
			!sameTime(completedAt, wo.CompletedAt())

		result := &RecomputeResult{
			WorkOrderID: workOrderID,
			Counters:    counters,
			Progress:    progress,
			StartedAt:   startedAt,
			CompletedAt: completedAt,
			Changed:     changed,
		}
		if !changed {
			return recomputed{result: result, wo: wo}, nil
		}

		updated := wo.WithProgressSnapshot(counters, progress, startedAt, completedAt)
		if err := s.workOrderRepo.UpdateProgressSnapshot(txCtx, updated); err != nil {
			return recomputed{}, err
		}
		return recomputed{
			result:       result,
			wo:           updated,
			nowCompleted: !wasCompleted && completedAt != nil,
		}, nil
	})
	if err != nil {
		recomputeRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	if out.result.Changed {
		recomputeRuns.WithLabelValues("changed").Inc()
		s.recordProgressEntry(ctx, out.wo, out.result, out.nowCompleted)
	} else {
		recomputeRuns.WithLabelValues("unchanged").Inc()
	}
	return out.result, nil
}

func (s *ProgressService) recordProgressEntry(
	ctx context.Context,
	wo workorder.WorkOrder,
	result *RecomputeResult,
	nowCompleted bool,
) {
	eventType := timeline.EventProgressUpdated
	title := "Progress updated"
	if nowCompleted {
		eventType = timeline.EventCompleted
		title = "All tasks completed"
	}
	s.timelineService.AddTimelineEntry(ctx, &timeline.Entry{
		TenantID:    wo.TenantID(),
		WorkOrderID: wo.ID(),
		EntityType:  timeline.EntityWorkOrder,
		EventType:   eventType,
		Title:       title,
		Metadata: map[string]interface{}{
			"progress":       result.Progress,
			"tasksTotal":     result.Counters.Total,
			"tasksCompleted": result.Counters.Completed,
		},
	})
}

func countTasks(tasks []task.Task) workorder.TaskCounters {
	counters := workorder.TaskCounters{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status() {
		case task.StatusCompleted:
			counters.Completed++
		case task.StatusInProgress:
			counters.InProgress++
		case task.StatusBlocked:
			counters.Blocked++
		}
	}
	return counters
}

func deriveProgress(c workorder.TaskCounters) int {
	if c.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(c.Completed) / float64(c.Total)))
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
