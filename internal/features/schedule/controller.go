package schedule

import (
	"errors"

	"deskwise/internal/features/report"
	"deskwise/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ScheduleController struct {
	Service ScheduleService
}

func NewScheduleController(service ScheduleService) *ScheduleController {
	return &ScheduleController{Service: service}
}

// CreateSchedule godoc
// @Summary      Create a report schedule
// @Tags         report-schedules
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organisation"
// @Param        schedule body schedule.ReportSchedule true "Schedule"
// @Success      201  {object} schedule.ReportSchedule
// @Failure      400  {object} map[string]interface{}
// @Router       /api/report-schedules [post]
func (c *ScheduleController) CreateSchedule(ctx *fiber.Ctx) error {
	var schedule ReportSchedule
	if err := ctx.BodyParser(&schedule); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	schedule.OrgID = middleware.OrgID(ctx)
	schedule.CreatedBy = ""

	if err := c.Service.CreateSchedule(ctx.UserContext(), &schedule); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(schedule)
}

// ListSchedules godoc
// @Summary      List report schedules, newest first
// @Tags         report-schedules
// @Produce      json
// @Param        X-Org-ID header string true "Organisation"
// @Success      200  {array} schedule.ReportSchedule
// @Router       /api/report-schedules [get]
func (c *ScheduleController) ListSchedules(ctx *fiber.Ctx) error {
	schedules, err := c.Service.ListSchedules(ctx.UserContext(), middleware.OrgID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(schedules)
}

// GetSchedule godoc
// @Summary      Get a report schedule
// @Tags         report-schedules
// @Produce      json
// @Param        X-Org-ID header string true "Organisation"
// @Param        id path string true "Schedule ID"
// @Success      200  {object} schedule.ReportSchedule
// @Failure      404  {object} map[string]interface{}
// @Router       /api/report-schedules/{id} [get]
func (c *ScheduleController) GetSchedule(ctx *fiber.Ctx) error {
	schedule, err := c.Service.GetSchedule(ctx.UserContext(), middleware.OrgID(ctx), ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(schedule)
}

// UpdateSchedule godoc
// @Summary      Patch a report schedule
// @Tags         report-schedules
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organisation"
// @Param        id path string true "Schedule ID"
// @Param        patch body schedule.SchedulePatch true "Fields to change"
// @Success      200  {object} schedule.ReportSchedule
// @Failure      400  {object} map[string]interface{}
// @Failure      404  {object} map[string]interface{}
// @Router       /api/report-schedules/{id} [put]
func (c *ScheduleController) UpdateSchedule(ctx *fiber.Ctx) error {
	var patch SchedulePatch
	if err := ctx.BodyParser(&patch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	schedule, err := c.Service.UpdateSchedule(ctx.UserContext(), middleware.OrgID(ctx), ctx.Params("id"), patch)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(schedule)
}

// DeleteSchedule godoc
// @Summary      Delete a report schedule
// @Tags         report-schedules
// @Param        X-Org-ID header string true "Organisation"
// @Param        id path string true "Schedule ID"
// @Success      204
// @Failure      404  {object} map[string]interface{}
// @Router       /api/report-schedules/{id} [delete]
func (c *ScheduleController) DeleteSchedule(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteSchedule(ctx.UserContext(), middleware.OrgID(ctx), ctx.Params("id")); err != nil {
		return respondError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// ExecuteSchedule godoc
// @Summary      Run a report schedule now
// @Tags         report-schedules
// @Produce      json
// @Param        X-Org-ID header string true "Organisation"
// @Param        id path string true "Schedule ID"
// @Success      200  {object} schedule.ScheduledReportExecution
// @Failure      404  {object} map[string]interface{}
// @Failure      409  {object} map[string]interface{}
// @Router       /api/report-schedules/{id}/execute [post]
func (c *ScheduleController) ExecuteSchedule(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if _, err := c.Service.GetSchedule(ctx.UserContext(), middleware.OrgID(ctx), id); err != nil {
		return respondError(ctx, err)
	}

	execution, err := c.Service.ExecuteSchedule(ctx.UserContext(), id)
	if err != nil {
		if execution != nil {
			return ctx.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error(), "execution": execution})
		}
		return respondError(ctx, err)
	}
	return ctx.JSON(execution)
}

// GetExecutionHistory godoc
// @Summary      List past executions of a schedule, newest first
// @Tags         report-schedules
// @Produce      json
// @Param        X-Org-ID header string true "Organisation"
// @Param        id path string true "Schedule ID"
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200  {array} schedule.ScheduledReportExecution
// @Failure      404  {object} map[string]interface{}
// @Router       /api/report-schedules/{id}/executions [get]
func (c *ScheduleController) GetExecutionHistory(ctx *fiber.Ctx) error {
	limit := int64(ctx.QueryInt("limit", defaultHistoryLimit))
	executions, err := c.Service.GetExecutionHistory(ctx.UserContext(), middleware.OrgID(ctx), ctx.Params("id"), limit)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(executions)
}

func respondError(ctx *fiber.Ctx, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidSchedule.Error(), "errors": verr.Problems})
	}
	return ctx.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidSchedule):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrScheduleNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrScheduleLocked), errors.Is(err, ErrScheduleNotDue):
		return fiber.StatusConflict
	default:
		return report.StatusFor(err)
	}
}
