package report

import (
	"deskwise/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
}

func NewReportApi(reportController *ReportController) *ReportApi {
	return &ReportApi{ReportController: reportController}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports")

	group.Get("/data-sources", api.ReportController.DataSources)
	group.Get("/data-sources/:source/fields", api.ReportController.Fields)
	group.Post("/validate", api.ReportController.Validate)
	group.Post("/analytics/:type/export", api.ReportController.ExportAnalytics)

	group.Post("/query", middleware.TenantMiddleware(), api.ReportController.Query)
	group.Post("/export", middleware.TenantMiddleware(), api.ReportController.Export)
}
