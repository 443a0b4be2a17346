package audit

import (
	"deskwise/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
}

func NewAuditApi(controller *AuditController) *AuditApi {
	return &AuditApi{controller: controller}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit-logs", middleware.TenantMiddleware())

	audit.Get("/", h.controller.ListLogs)
}
