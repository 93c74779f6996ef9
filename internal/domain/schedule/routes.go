package schedule

import "github.com/gin-gonic/gin"

// RegisterAdminRoutes mounts schedule management under a staff-only group.
// Template writes additionally require adminOnly.
func RegisterAdminRoutes(staff *gin.RouterGroup, handler *Handler, adminOnly gin.HandlerFunc) {
	sched := staff.Group("/schedule")
	{
		sched.GET("/templates", handler.ListTemplates)
		sched.POST("/templates", adminOnly, handler.CreateTemplate)
		sched.PUT("/templates/:id", adminOnly, handler.UpdateTemplate)
		sched.DELETE("/templates/:id", adminOnly, handler.DeleteTemplate)

		sched.GET("/blocked-dates", handler.ListBlockedDates)
		sched.POST("/blocked-dates", handler.BlockDate)
		sched.DELETE("/blocked-dates/:id", handler.UnblockDate)
	}
}
