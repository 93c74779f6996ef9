package message

import "github.com/gin-gonic/gin"

func RegisterPublicRoutes(public *gin.RouterGroup, handler *Handler, limit gin.HandlerFunc) {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	public.POST("/messages", limit, handler.Submit)
}

func RegisterAdminRoutes(staff *gin.RouterGroup, handler *Handler) {
	msgs := staff.Group("/messages")
	{
		msgs.GET("", handler.List)
		msgs.GET("/:id", handler.Get)
		msgs.PATCH("/:id/status", handler.UpdateStatus)
	}
}
