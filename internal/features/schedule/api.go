package schedule

import (
	"deskwise/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ScheduleApi struct {
	controller *ScheduleController
}

func NewScheduleApi(controller *ScheduleController) *ScheduleApi {
	return &ScheduleApi{controller: controller}
}

func (h *ScheduleApi) Setup(app *fiber.App) {
	schedules := app.Group("/api/report-schedules", middleware.TenantMiddleware())

	schedules.Post("/", h.controller.CreateSchedule)
	schedules.Get("/", h.controller.ListSchedules)
	schedules.Get("/:id", h.controller.GetSchedule)
	schedules.Put("/:id", h.controller.UpdateSchedule)
	schedules.Delete("/:id", h.controller.DeleteSchedule)

	schedules.Post("/:id/execute", h.controller.ExecuteSchedule)
	schedules.Get("/:id/executions", h.controller.GetExecutionHistory)
}
