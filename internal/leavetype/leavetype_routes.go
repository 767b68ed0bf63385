package leavetype

import (
	"go-leavelink/internal/domain"
	"go-leavelink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	types := r.Group("/leave-types")

	types.Use(middleware.AuthMiddleware())

	{
		// Every signed-in role needs the catalogue to submit or triage.
		types.GET("", h.GetAll)
		types.GET("/:id", h.GetById)

		types.POST("", middleware.RequireRoles(domain.RoleAdmin), h.Create)
		types.PUT("/:id", middleware.RequireRoles(domain.RoleAdmin), h.Update)
		types.DELETE("/:id", middleware.RequireRoles(domain.RoleAdmin), h.Delete)
	}
}
