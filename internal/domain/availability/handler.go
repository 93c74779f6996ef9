package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agencyhub/internal/domain/schedule"
	"agencyhub/internal/pkg/response"
)

type Handler struct {
	resolver *Resolver
	hub      *Hub
}

func NewHandler(resolver *Resolver, hub *Hub) *Handler {
	return &Handler{resolver: resolver, hub: hub}
}

type slotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// GetAvailability handles GET /api/v1/availability?date=YYYY-MM-DD
// @Summary Bookable slots for a date
// @Description An empty list means either fully booked or a failed lookup.
// @Tags Availability
// @Produce json
// @Param date query string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} response.Response{data=slotsResponse}
// @Failure 400 {object} response.Response
// @Router /availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, slotsResponse{
		Date:  date,
		Slots: h.resolver.AvailableSlots(c.Request.Context(), date),
	})
}

// Stream handles GET /api/v1/availability/stream?date=YYYY-MM-DD (websocket).
// The first message is a snapshot; slot_taken and slot_released follow.
func (h *Handler) Stream(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	snapshot := &Event{
		Type:  EventSnapshot,
		Date:  date,
		Slots: h.resolver.AvailableSlots(c.Request.Context(), date),
	}
	if err := h.hub.Serve(c.Writer, c.Request, date, snapshot); err != nil {
		// the upgrader has already written the HTTP error
		_ = c.Error(err)
	}
}

func (h *Handler) dateParam(c *gin.Context) (string, bool) {
	raw := c.Query("date")
	if raw == "" {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date is required")
		return "", false
	}
	day, err := schedule.ParseDate(raw, h.resolver.Location())
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return "", false
	}
	return schedule.FormatDate(day), true
}
