package schedule

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduleRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(newTestService(t))
	RegisterAdminRoutes(r.Group("/admin"), h, func(c *gin.Context) { c.Next() })
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
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

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp.Error.Code
}

func TestHandler_CreateTemplate(t *testing.T) {
	r := setupScheduleRouter(t)

	w := doJSON(r, http.MethodPost, "/admin/schedule/templates", gin.H{
		"day_of_week": 0, "start_time": "09:00", "end_time": "11:00", "duration_minutes": 60,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data WeeklyTemplateSlot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "09:00", resp.Data.StartTime.String())
	assert.Equal(t, 60, resp.Data.DurationMinutes)

	w = doJSON(r, http.MethodPost, "/admin/schedule/templates", gin.H{
		"day_of_week": 0, "start_time": "10:00", "end_time": "12:00", "duration_minutes": 60,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "TEMPLATE_OVERLAP", errorCode(t, w))
}

func TestHandler_CreateTemplate_Validation(t *testing.T) {
	r := setupScheduleRouter(t)

	w := doJSON(r, http.MethodPost, "/admin/schedule/templates", gin.H{
		"start_time": "09:00", "end_time": "11:00", "duration_minutes": 60,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	w = doJSON(r, http.MethodPost, "/admin/schedule/templates", gin.H{
		"day_of_week": 1, "start_time": "11:00", "end_time": "09:00", "duration_minutes": 60,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestHandler_BlockedDates(t *testing.T) {
	r := setupScheduleRouter(t)

	w := doJSON(r, http.MethodPost, "/admin/schedule/blocked-dates", gin.H{"date": "2099-01-01", "reason": "Closed"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/admin/schedule/blocked-dates", gin.H{"date": "2099-01-01"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DATE_ALREADY_BLOCKED", errorCode(t, w))

	w = doJSON(r, http.MethodGet, "/admin/schedule/blocked-dates?upcoming=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []BlockedDate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)

	w = doJSON(r, http.MethodDelete, "/admin/schedule/blocked-dates/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/admin/schedule/blocked-dates/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, w))
}
