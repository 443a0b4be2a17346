package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleApp(f *fixture) *fiber.App {
	app := fiber.New()
	NewScheduleApi(NewScheduleController(f.svc)).Setup(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any, org string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if org != "" {
		req.Header.Set("X-Org-ID", org)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateScheduleEndpoint(t *testing.T) {
	f := newFixture()
	app := newScheduleApp(f)

	body := map[string]any{
		"org_id":      "someone-else",
		"report_name": "Daily incidents",
		"enabled":     true,
		"frequency":   "daily",
		"time":        "07:00",
		"recipients":  []string{"noc@example.com"},
		"formats":     []string{"csv"},
		"query":       map[string]any{"data_source": "incidents", "columns": []string{"title"}},
	}
	resp := doRequest(t, app, http.MethodPost, "/api/report-schedules", body, "org-1")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created ReportSchedule
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "org-1", created.OrgID)
	assert.True(t, time.Date(2024, 4, 11, 7, 0, 0, 0, time.UTC).Equal(created.NextRun))
	assert.Len(t, f.repo.schedules, 1)
}

func TestCreateScheduleEndpointRequiresTenant(t *testing.T) {
	f := newFixture()
	resp := doRequest(t, newScheduleApp(f), http.MethodPost, "/api/report-schedules", map[string]any{}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateScheduleEndpointValidation(t *testing.T) {
	f := newFixture()
	body := map[string]any{"frequency": "yearly", "time": "7am", "formats": []string{"csv"}}
	resp := doRequest(t, newScheduleApp(f), http.MethodPost, "/api/report-schedules", body, "org-1")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, ErrInvalidSchedule.Error(), payload.Error)
	assert.Contains(t, payload.Errors, "frequency must be one of: daily, weekly, monthly")
	assert.Contains(t, payload.Errors, "time must use the HH:mm format")
}

func TestScheduleEndpointsHideOtherTenants(t *testing.T) {
	f := newFixture()
	stored := f.repo.put(dueSchedule("org-1"))
	app := newScheduleApp(f)

	resp := doRequest(t, app, http.MethodGet, "/api/report-schedules/"+stored.ID.Hex(), nil, "org-2")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/report-schedules/"+stored.ID.Hex()+"/execute", nil, "org-2")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Empty(t, f.repo.executions)

	resp = doRequest(t, app, http.MethodDelete, "/api/report-schedules/"+stored.ID.Hex(), nil, "org-1")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestExecuteScheduleEndpoint(t *testing.T) {
	f := newFixture()
	stored := f.repo.put(dueSchedule("org-1"))
	app := newScheduleApp(f)

	resp := doRequest(t, app, http.MethodPost, "/api/report-schedules/"+stored.ID.Hex()+"/execute", nil, "org-1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var execution ScheduledReportExecution
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&execution))
	assert.Equal(t, ExecutionSuccess, execution.Status)

	resp = doRequest(t, app, http.MethodGet, "/api/report-schedules/"+stored.ID.Hex()+"/executions?limit=10", nil, "org-1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var history []ScheduledReportExecution
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	assert.Len(t, history, 1)
}

func TestExecuteScheduleEndpointFailureReturnsExecution(t *testing.T) {
	f := newFixture()
	f.reports.failFor["org-1"] = errors.New("aggregate tickets: timeout")
	stored := f.repo.put(dueSchedule("org-1"))

	resp := doRequest(t, newScheduleApp(f), http.MethodPost, "/api/report-schedules/"+stored.ID.Hex()+"/execute", nil, "org-1")
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var payload struct {
		Error     string                   `json:"error"`
		Execution ScheduledReportExecution `json:"execution"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload.Error, "timeout")
	assert.Equal(t, ExecutionFailed, payload.Execution.Status)
}

func TestExecuteScheduleEndpointConflict(t *testing.T) {
	f := newFixture()
	s := dueSchedule("org-1")
	until := f.clock.Add(time.Minute)
	s.LockedUntil, s.LockedBy = &until, "worker-9"
	stored := f.repo.put(s)

	resp := doRequest(t, newScheduleApp(f), http.MethodPost, "/api/report-schedules/"+stored.ID.Hex()+"/execute", nil, "org-1")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
