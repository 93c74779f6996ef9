package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *fixture) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	h := NewHandler(f.svc)

	r := gin.New()
	api := r.Group("/api/v1")
	RegisterPublicRoutes(api, h, nil)
	RegisterAdminRoutes(api.Group("/admin"), h)
	RegisterCronRoutes(api.Group("/cron"), h)
	return r, f
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestHandler_CreateAndConflict(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPost, "/api/v1/appointments", booking("2025-01-02", "10:00", "ada@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.NotContains(t, string(env.Data), "cancellation_token")

	w = do(r, http.MethodPost, "/api/v1/appointments", booking("2025-01-02", "10:00", "grace@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SLOT_NO_LONGER_AVAILABLE", decode(t, w).Error.Code)
}

func TestHandler_CreateValidation(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodPost, "/api/v1/appointments", gin.H{"name": "Ada"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "time_slot")
	assert.NotContains(t, env.Error.Details, "name")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString("{not json"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CancelLink(t *testing.T) {
	r, f := setupRouter(t)

	a, err := f.svc.CreateAppointment(context.Background(), booking("2025-01-02", "10:00", "ada@example.com"))
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/api/v1/appointments/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/appointments/cancel?token=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/v1/appointments/cancel?token="+a.CancellationToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary CancellationSummary
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &summary))
	assert.Equal(t, a.ID, summary.ID)
	assert.NotEmpty(t, summary.Message)

	w = do(r, http.MethodGet, "/api/v1/appointments/cancel?token="+a.CancellationToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ALREADY_CANCELLED", decode(t, w).Error.Code)
}

func TestHandler_AdminStatus(t *testing.T) {
	r, f := setupRouter(t)

	a, err := f.svc.CreateAppointment(context.Background(), booking("2025-01-02", "10:00", "ada@example.com"))
	require.NoError(t, err)
	statusPath := fmt.Sprintf("/api/v1/admin/appointments/%d/status", a.ID)

	w := do(r, http.MethodPatch, statusPath, gin.H{"status": "completed"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", decode(t, w).Error.Code)

	w = do(r, http.MethodPatch, statusPath, gin.H{"status": "archived"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPatch, statusPath, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/admin/appointments?status=confirmed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, a.ID, list.Items[0].ID)

	w = do(r, http.MethodGet, "/api/v1/admin/appointments/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CronReminders(t *testing.T) {
	r, f := setupRouter(t)
	ctx := context.Background()

	a, err := f.svc.CreateAppointment(ctx, booking("2025-01-01", "10:00", "ada@example.com"))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, a.ID, StatusConfirmed)
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/api/v1/cron/reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report ReminderReport
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &report))
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, "ada@example.com", report.Results[0].Email)

	w = do(r, http.MethodGet, "/api/v1/cron/expire-pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
