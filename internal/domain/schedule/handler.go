package schedule

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

// ListTemplates handles GET /api/v1/admin/schedule/templates
// @Summary List weekly templates
// @Tags Admin Schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]WeeklyTemplateSlot}
// @Router /admin/schedule/templates [get]
func (h *Handler) ListTemplates(c *gin.Context) {
	list, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// CreateTemplate handles POST /api/v1/admin/schedule/templates
// @Summary Create weekly template
// @Tags Admin Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TemplateRequest true "Template"
// @Success 201 {object} response.Response{data=WeeklyTemplateSlot}
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admin/schedule/templates [post]
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	t, err := h.service.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// UpdateTemplate handles PUT /api/v1/admin/schedule/templates/:id
func (h *Handler) UpdateTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	t, err := h.service.UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// DeleteTemplate handles DELETE /api/v1/admin/schedule/templates/:id
func (h *Handler) DeleteTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTemplate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// ListBlockedDates handles GET /api/v1/admin/schedule/blocked-dates?upcoming=true
func (h *Handler) ListBlockedDates(c *gin.Context) {
	upcoming := c.Query("upcoming") == "true"
	list, err := h.service.ListBlockedDates(c.Request.Context(), upcoming)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// BlockDate handles POST /api/v1/admin/schedule/blocked-dates
// @Summary Block a calendar date
// @Description Existing appointments on the date are left untouched.
// @Tags Admin Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BlockDateRequest true "Date"
// @Success 201 {object} response.Response{data=BlockedDate}
// @Failure 409 {object} response.Response
// @Router /admin/schedule/blocked-dates [post]
func (h *Handler) BlockDate(c *gin.Context) {
	var req BlockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	b, err := h.service.BlockDate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// UnblockDate handles DELETE /api/v1/admin/schedule/blocked-dates/:id
func (h *Handler) UnblockDate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.UnblockDate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
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
	switch {
	case errors.Is(err, ErrInvalidTemplate), errors.Is(err, ErrInvalidDate):
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrTemplateOverlap):
		response.CustomError(c, http.StatusConflict, "TEMPLATE_OVERLAP", err.Error())
	case errors.Is(err, ErrDateAlreadyBlocked):
		response.CustomError(c, http.StatusConflict, "DATE_ALREADY_BLOCKED", err.Error())
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrBlockedDateNotFound):
		response.CustomError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	}
}
