package report

import (
	"errors"
	"fmt"

	common_models "deskwise/internal/common/models"
	"deskwise/internal/config"
	"deskwise/internal/features/audit"
	"deskwise/internal/features/export"
	"deskwise/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
	ExportService export.ExportService
	AuditService  audit.AuditService
	Config        *config.Config
}

func NewReportController(reportService ReportService, exportService export.ExportService, auditService audit.AuditService, cfg *config.Config) *ReportController {
	return &ReportController{
		ReportService: reportService,
		ExportService: exportService,
		AuditService:  auditService,
		Config:        cfg,
	}
}

type ExportRequest struct {
	Query          ReportQuery   `json:"query"`
	Format         export.Format `json:"format"`
	Filename       string        `json:"filename,omitempty"`
	IncludeHeaders *bool         `json:"include_headers,omitempty"`
}

type AnalyticsExportRequest struct {
	Metrics        map[string]any `json:"metrics"`
	Filename       string         `json:"filename,omitempty"`
	IncludeHeaders *bool          `json:"include_headers,omitempty"`
}

// Query godoc
// @Summary      Run a report query
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        X-Org-ID header string true "Organisation"
// @Param        input body report.ReportQuery true "Report query"
// @Success      200  {object} report.ReportResult
// @Failure      400  {object} map[string]interface{}
// @Router       /api/reports/query [post]
func (c *ReportController) Query(ctx *fiber.Ctx) error {
	var query ReportQuery
	if err := ctx.BodyParser(&query); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if errs := c.ReportService.ValidateQuery(query); len(errs) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report query", "errors": errs})
	}
	c.capLimit(&query)

	result, err := c.ReportService.ExecuteQuery(ctx.UserContext(), middleware.OrgID(ctx), query)
	if err != nil {
		return ctx.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}

// Validate godoc
// @Summary      Validate a report query
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        strict query bool false "Check fields against the data source catalogue"
// @Param        input body report.ReportQuery true "Report query"
// @Success      200  {object} map[string]interface{}
// @Router       /api/reports/validate [post]
func (c *ReportController) Validate(ctx *fiber.Ctx) error {
	var query ReportQuery
	if err := ctx.BodyParser(&query); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var errs []string
	if ctx.QueryBool("strict") {
		errs = c.ReportService.ValidateQueryStrict(query)
	} else {
		errs = c.ReportService.ValidateQuery(query)
	}
	return ctx.JSON(fiber.Map{"valid": len(errs) == 0, "errors": errs})
}

// Export godoc
// @Summary      Run a report query and download the result
// @Tags         reports
// @Accept       json
// @Produce      text/csv
// @Param        X-Org-ID header string true "Organisation"
// @Param        input body report.ExportRequest true "Export request"
// @Success      200  {file} file
// @Failure      400  {object} map[string]interface{}
// @Failure      501  {object} map[string]interface{}
// @Router       /api/reports/export [post]
func (c *ReportController) Export(ctx *fiber.Ctx) error {
	var req ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Format == "" {
		req.Format = export.FormatCSV
	}
	if errs := c.ReportService.ValidateQuery(req.Query); len(errs) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report query", "errors": errs})
	}
	c.capLimit(&req.Query)

	result, err := c.ReportService.ExecuteQuery(ctx.UserContext(), middleware.OrgID(ctx), req.Query)
	if err != nil {
		return ctx.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	file, err := c.ExportService.Export(result.Data, labelledColumns(req.Query), export.Options{
		Format:         req.Format,
		Filename:       req.Filename,
		IncludeHeaders: req.IncludeHeaders,
	})
	if err != nil {
		return ctx.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	_ = c.AuditService.LogChange(ctx.UserContext(), common_models.AuditActionReport, "reports", string(req.Query.DataSource), map[string]common_models.Change{
		"format":   {New: req.Format},
		"filename": {New: file.Filename},
		"rows":     {New: len(result.Data)},
	})
	return sendFile(ctx, file)
}

// DataSources godoc
// @Summary      List reportable data sources
// @Tags         reports
// @Produce      json
// @Success      200  {array} report.DataSourceInfo
// @Router       /api/reports/data-sources [get]
func (c *ReportController) DataSources(ctx *fiber.Ctx) error {
	return ctx.JSON(c.ReportService.DataSources())
}

// Fields godoc
// @Summary      List the fields of a data source
// @Tags         reports
// @Produce      json
// @Param        source path string true "Data source"
// @Success      200  {array} report.Field
// @Failure      404  {object} map[string]interface{}
// @Router       /api/reports/data-sources/{source}/fields [get]
func (c *ReportController) Fields(ctx *fiber.Ctx) error {
	fields, err := c.ReportService.AvailableFields(DataSource(ctx.Params("source")))
	if err != nil {
		return ctx.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fields)
}

// ExportAnalytics godoc
// @Summary      Export a dashboard metrics object as CSV
// @Tags         reports
// @Accept       json
// @Produce      text/csv
// @Param        type path string true "tickets, incidents, assets, projects or sla"
// @Param        input body report.AnalyticsExportRequest true "Metrics"
// @Success      200  {file} file
// @Router       /api/reports/analytics/{type}/export [post]
func (c *ReportController) ExportAnalytics(ctx *fiber.Ctx) error {
	var req AnalyticsExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	analyticsType := export.AnalyticsType(ctx.Params("type"))
	rows, columns, err := export.FormatAnalyticsData(req.Metrics, analyticsType)
	if err != nil {
		return ctx.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	filename := req.Filename
	if filename == "" {
		filename = fmt.Sprintf("%s-analytics.csv", analyticsType)
	}
	file, err := c.ExportService.Export(rows, columns, export.Options{
		Format:         export.FormatCSV,
		Filename:       filename,
		IncludeHeaders: req.IncludeHeaders,
	})
	if err != nil {
		return ctx.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return sendFile(ctx, file)
}

func (c *ReportController) capLimit(query *ReportQuery) {
	if c.Config == nil || c.Config.ReportMaxLimit <= 0 {
		return
	}
	if query.Limit == 0 || query.Limit > c.Config.ReportMaxLimit {
		query.Limit = c.Config.ReportMaxLimit
	}
}

// labelledColumns uses catalogue labels where the data source knows the field.
func labelledColumns(query ReportQuery) []export.Column {
	labels := map[string]Field{}
	if fields, err := query.DataSource.Fields(); err == nil {
		for _, f := range fields {
			labels[f.Name] = f
		}
	}

	keys := query.Columns
	if len(query.GroupBy) > 0 {
		keys = append(append([]string{}, query.Columns...), "count")
	}

	columns := make([]export.Column, 0, len(keys))
	for _, key := range keys {
		col := export.Column{Key: key, Label: key}
		if f, ok := labels[key]; ok {
			col.Label = f.Label
			col.Type = string(f.Type)
		}
		columns = append(columns, col)
	}
	return columns
}

func sendFile(ctx *fiber.Ctx, file *export.ExportResult) error {
	ctx.Set(fiber.HeaderContentType, file.MimeType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return ctx.Send(file.Data)
}

// StatusFor maps report and export errors onto HTTP statuses.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownDataSource):
		return fiber.StatusNotFound
	case errors.Is(err, ErrUnknownOperator),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, export.ErrUnknownAnalyticsType):
		return fiber.StatusBadRequest
	case errors.Is(err, export.ErrNotImplemented):
		return fiber.StatusNotImplemented
	default:
		return fiber.StatusInternalServerError
	}
}
