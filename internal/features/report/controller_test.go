package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	common_models "deskwise/internal/common/models"
	"deskwise/internal/config"
	"deskwise/internal/features/export"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAudit struct {
	entries []common_models.AuditLog
}

func (a *recordingAudit) LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error {
	a.entries = append(a.entries, common_models.AuditLog{
		TenantID: common_models.TenantFromContext(ctx),
		Action:   action,
		Module:   module,
		RecordID: recordID,
		Changes:  changes,
	})
	return nil
}

func (a *recordingAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return a.entries, nil
}

func newTestApp(repo *fakeReportRepo) *fiber.App {
	return newAuditedTestApp(repo, &recordingAudit{})
}

func newAuditedTestApp(repo *fakeReportRepo, audit *recordingAudit) *fiber.App {
	ctrl := NewReportController(newTestService(repo), export.NewExportService(nil), audit, &config.Config{ReportMaxLimit: 100})
	app := fiber.New()
	NewReportApi(ctrl).Setup(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, org string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if org != "" {
		req.Header.Set("X-Org-ID", org)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestQueryEndpointCapsLimit(t *testing.T) {
	repo := &fakeReportRepo{rows: []map[string]any{{"title": "VPN down"}}, total: 1}
	app := newTestApp(repo)

	resp := postJSON(t, app, "/api/reports/query", ReportQuery{
		DataSource: DataSourceTickets,
		Columns:    []string{"title"},
		Limit:      5000,
	}, "org-1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result ReportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, "VPN down", result.Data[0]["title"])

	last := repo.aggregated[len(repo.aggregated)-1]
	assert.Equal(t, "$limit", last[0].Key)
	assert.Equal(t, int64(100), last[0].Value)
}

func TestQueryEndpointRequiresOrg(t *testing.T) {
	resp := postJSON(t, newTestApp(&fakeReportRepo{}), "/api/reports/query", ReportQuery{
		DataSource: DataSourceTickets,
		Columns:    []string{"title"},
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQueryEndpointRejectsInvalidQuery(t *testing.T) {
	resp := postJSON(t, newTestApp(&fakeReportRepo{}), "/api/reports/query", ReportQuery{DataSource: DataSourceTickets}, "org-1")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"At least one column must be selected"}, body.Errors)
}

func TestExportEndpointCSV(t *testing.T) {
	repo := &fakeReportRepo{rows: []map[string]any{{"title": "Printer, 2nd floor", "status": "open"}}, total: 1}

	audit := &recordingAudit{}

	resp := postJSON(t, newAuditedTestApp(repo, audit), "/api/reports/export", ExportRequest{
		Query:    ReportQuery{DataSource: DataSourceTickets, Columns: []string{"title", "status"}},
		Format:   export.FormatCSV,
		Filename: "tickets.csv",
	}, "org-1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Title,Status\n\"Printer, 2nd floor\",open", string(body))
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "tickets.csv")

	require.Len(t, audit.entries, 1)
	assert.Equal(t, common_models.AuditActionReport, audit.entries[0].Action)
	assert.Equal(t, "org-1", audit.entries[0].TenantID)
	assert.Equal(t, "tickets", audit.entries[0].RecordID)
	assert.Equal(t, 1, audit.entries[0].Changes["rows"].New)
}

func TestExportEndpointNotImplemented(t *testing.T) {
	resp := postJSON(t, newTestApp(&fakeReportRepo{}), "/api/reports/export", ExportRequest{
		Query:  ReportQuery{DataSource: DataSourceTickets, Columns: []string{"title"}},
		Format: export.FormatPDF,
	}, "org-1")
	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)
}

func TestValidateEndpointStrict(t *testing.T) {
	app := newTestApp(&fakeReportRepo{})
	query := ReportQuery{DataSource: DataSourceAssets, Columns: []string{"name", "colour"}}

	var body struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}

	resp := postJSON(t, app, "/api/reports/validate", query, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Valid)

	resp = postJSON(t, app, "/api/reports/validate?strict=true", query, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Valid)
	assert.Equal(t, []string{"Unknown column field for assets: colour"}, body.Errors)
}

func TestFieldsEndpointUnknownSource(t *testing.T) {
	resp, err := newTestApp(&fakeReportRepo{}).Test(httptest.NewRequest(http.MethodGet, "/api/reports/data-sources/payroll/fields", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAnalyticsExportEndpoint(t *testing.T) {
	resp := postJSON(t, newTestApp(&fakeReportRepo{}), "/api/reports/analytics/incidents/export", AnalyticsExportRequest{
		Metrics: map[string]any{"total": 3},
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Metric,Value\nTotal Incidents,3\n")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "incidents-analytics.csv")

	resp = postJSON(t, newTestApp(&fakeReportRepo{}), "/api/reports/analytics/billing/export", AnalyticsExportRequest{}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
