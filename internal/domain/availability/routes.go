package availability

import "github.com/gin-gonic/gin"

func RegisterRoutes(public *gin.RouterGroup, handler *Handler) {
	public.GET("/availability", handler.GetAvailability)
	public.GET("/availability/stream", handler.Stream)
}
