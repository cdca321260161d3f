package fieldservice

import (
	"github.com/aristech/fieldservice/modules/fieldservice/handlers"
	"github.com/aristech/fieldservice/modules/fieldservice/infrastructure/persistence"
	"github.com/aristech/fieldservice/modules/fieldservice/permissions"
	"github.com/aristech/fieldservice/modules/fieldservice/services"
	"github.com/aristech/fieldservice/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&persistence.SchemaFS, persistence.SchemaDir)
	app.RegisterPermissions(permissions.Permissions...)

	workOrderRepo := persistence.NewWorkOrderRepository()
	taskRepo := persistence.NewTaskRepository()
	personnelRepo := persistence.NewPersonnelRepository()
	timelineRepo := persistence.NewTimelineRepository()
	permissionRepo := persistence.NewAssignmentPermissionRepository()
	attachmentRepo := persistence.NewAttachmentRepository()
	commentRepo := persistence.NewCommentRepository()

	timelineService := services.NewTimelineService(timelineRepo, personnelRepo)
	permissionService := services.NewAssignmentPermissionService(permissionRepo)
	assignmentService := services.NewAssignmentService(taskRepo, permissionService, timelineService)
	progressService := services.NewProgressService(workOrderRepo, taskRepo, timelineService)
	cleanupService := services.NewCleanupService(
		workOrderRepo, taskRepo, attachmentRepo, commentRepo, permissionRepo, timelineRepo,
	)

	app.RegisterServices(
		timelineService,
		permissionService,
		assignmentService,
		progressService,
		cleanupService,
		services.NewWorkOrderService(
			workOrderRepo,
			personnelRepo,
			assignmentService,
			permissionService,
			cleanupService,
			timelineService,
			app.EventPublisher(),
		),
		services.NewTaskService(
			taskRepo,
			workOrderRepo,
			permissionService,
			timelineService,
			app.EventPublisher(),
		),
	)

	handlers.RegisterTaskEventHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "fieldservice"
}
