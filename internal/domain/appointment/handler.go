package appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agencyhub/internal/pkg/response"
	"agencyhub/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/v1/appointments
// @Summary Book an appointment slot
// @Tags Appointments
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Booking"
// @Success 201 {object} response.Response{data=Appointment}
// @Failure 409 {object} response.Response "SLOT_NO_LONGER_AVAILABLE"
// @Failure 422 {object} response.Response
// @Router /appointments [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	a, err := h.service.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

// CancelByToken handles GET /api/v1/appointments/cancel?token=...
// @Summary Self-service cancellation link
// @Tags Appointments
// @Produce json
// @Param token query string true "Cancellation token"
// @Success 200 {object} response.Response{data=CancellationSummary}
// @Failure 400 {object} response.Response "missing token or already cancelled"
// @Failure 404 {object} response.Response
// @Router /appointments/cancel [get]
func (h *Handler) CancelByToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "token is required")
		return
	}

	summary, err := h.service.CancelByToken(c.Request.Context(), token)
	if errors.Is(err, ErrAlreadyCancelled) {
		response.CustomError(c, http.StatusBadRequest, "ALREADY_CANCELLED", "This appointment has already been cancelled")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// List handles GET /api/v1/admin/appointments?status=&date=&from=&to=&limit=&offset=
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		Status: Status(c.Query("status")),
		Date:   c.Query("date"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if f.Offset < 0 {
		f.Offset = 0
	}

	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{
		Items:  items,
		Total:  total,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

// Get handles GET /api/v1/admin/appointments/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// UpdateStatus handles PATCH /api/v1/admin/appointments/:id/status
// @Summary Move an appointment along its lifecycle
// @Tags Admin Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} response.Response{data=Appointment}
// @Failure 409 {object} response.Response "INVALID_STATUS_TRANSITION"
// @Router /admin/appointments/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	a, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// SendReminders handles GET|POST /api/v1/cron/reminders
func (h *Handler) SendReminders(c *gin.Context) {
	report, err := h.service.SendReminders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// ExpirePending handles GET|POST /api/v1/cron/expire-pending
func (h *Handler) ExpirePending(c *gin.Context) {
	report, err := h.service.ExpirePending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Missing or invalid fields", verr.Fields)
	case errors.Is(err, ErrSlotNoLongerAvailable):
		response.CustomError(c, http.StatusConflict, "SLOT_NO_LONGER_AVAILABLE", "This time slot is no longer available, please pick another")
	case errors.Is(err, ErrNotFound):
		response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
	case errors.Is(err, ErrAlreadyCancelled):
		response.CustomError(c, http.StatusConflict, "ALREADY_CANCELLED", err.Error())
	case errors.Is(err, ErrInvalidStatusTransition):
		response.CustomError(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrStatusChanged):
		response.CustomError(c, http.StatusConflict, "STATUS_CHANGED", err.Error())
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	}
}
