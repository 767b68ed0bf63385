package department

import (
	"go-leavelink/internal/domain"
	"go-leavelink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	departments := r.Group("/departments")

	departments.Use(middleware.AuthMiddleware())

	{
		departments.GET("", middleware.RequireRoles(domain.RoleAdmin), h.GetAll)
		departments.GET("/:id", middleware.RequireRoles(domain.RoleAdmin), h.GetById)
	}
}
