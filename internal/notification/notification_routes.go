package notification

import (
	"go-leavelink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	notifications := r.Group("/notifications")

	notifications.Use(middleware.AuthMiddleware())
	notifications.Use(middleware.ExtractUserID())

	{
		notifications.GET("", h.GetMine)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.PUT("/:id/read", h.MarkRead)
		notifications.PUT("/read-all", h.MarkAllRead)
	}
}
