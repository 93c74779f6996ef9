package appointment

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts booking and the cancellation link. limit guards submissions.
func RegisterPublicRoutes(public *gin.RouterGroup, handler *Handler, limit gin.HandlerFunc) {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	appts := public.Group("/appointments")
	{
		appts.POST("", limit, handler.Create)
		appts.GET("/cancel", handler.CancelByToken)
	}
}

func RegisterAdminRoutes(staff *gin.RouterGroup, handler *Handler) {
	appts := staff.Group("/appointments")
	{
		appts.GET("", handler.List)
		appts.GET("/:id", handler.Get)
		appts.PATCH("/:id/status", handler.UpdateStatus)
	}
}

func RegisterCronRoutes(cron *gin.RouterGroup, handler *Handler) {
	cron.GET("/reminders", handler.SendReminders)
	cron.POST("/reminders", handler.SendReminders)
	cron.GET("/expire-pending", handler.ExpirePending)
	cron.POST("/expire-pending", handler.ExpirePending)
}
