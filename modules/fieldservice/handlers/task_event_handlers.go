package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aristech/fieldservice/modules/fieldservice/domain/aggregates/task"
	"github.com/aristech/fieldservice/modules/fieldservice/services"
	"github.com/aristech/fieldservice/pkg/application"
	"github.com/aristech/fieldservice/pkg/composables"
	"github.com/aristech/fieldservice/pkg/configuration"
)

// TaskEventsHandler recomputes a work order's derived progress whenever one of
// its tasks changes.
type TaskEventsHandler struct {
	app     application.Application
	service *services.ProgressService
	logger  *logrus.Logger
}

func RegisterTaskEventHandlers(app application.Application) {
	handler := &TaskEventsHandler{
		app:     app,
		service: app.Service(services.ProgressService{}).(*services.ProgressService),
		logger:  configuration.Use().Logger(),
	}
	app.EventPublisher().Subscribe(handler.onTaskCreated)
	app.EventPublisher().Subscribe(handler.onTaskStatusChanged)
	app.EventPublisher().Subscribe(handler.onTaskDeleted)
}

func (h *TaskEventsHandler) onTaskCreated(event task.CreatedEvent) {
	h.recompute(event.TenantID, event.Result.WorkOrderID())
}

func (h *TaskEventsHandler) onTaskStatusChanged(event task.StatusChangedEvent) {
	h.recompute(event.TenantID, event.Result.WorkOrderID())
}

func (h *TaskEventsHandler) onTaskDeleted(event task.DeletedEvent) {
	h.recompute(event.TenantID, event.Result.WorkOrderID())
}

func (h *TaskEventsHandler) recompute(tenantID, workOrderID uuid.UUID) {
	if h.service == nil || h.app == nil {
		return
	}

	ctx := composables.WithPool(context.Background(), h.app.DB())
	if _, err := h.service.RecomputeForWorkOrder(ctx, tenantID, workOrderID); err != nil {
		h.logger.WithError(err).
			WithField("work_order_id", workOrderID).
			Warn("failed to recompute work order progress")
	}
}
