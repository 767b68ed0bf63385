package leave

import (
	"go-leavelink/internal/domain"
	"go-leavelink/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	leaves := r.Group("/leaves")

	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ExtractUserID())

	{
		create := []gin.HandlerFunc{middleware.RequireRoles(domain.RoleAcademic)}
		if rdb != nil {
			create = append(create, middleware.Idempotency(rdb))
		}
		leaves.POST("", append(create, h.Create)...)

		leaves.GET("/pending", middleware.RequireRoles(domain.RoleManagementAssistant), h.GetPendingQueue)
		leaves.PUT("/:id/check", middleware.RequireRoles(domain.RoleManagementAssistant), h.Check)

		leaves.GET("/checked", middleware.RequireRoles(domain.RoleHOD, domain.RoleDean), h.GetCheckedQueue)
		leaves.PUT("/:id/approve", middleware.RequireRoles(domain.RoleHOD, domain.RoleDean), h.Approve)
		leaves.PUT("/:id/reject", middleware.RequireRoles(domain.RoleHOD, domain.RoleDean), h.Reject)

		leaves.GET("", middleware.RequireRoles(
			domain.RoleAdmin,
			domain.RoleManagementAssistant,
			domain.RoleHOD,
			domain.RoleDean,
		), h.GetAll)

		leaves.GET("/mine", middleware.RequireRoles(domain.RoleAcademic), h.GetMine)
		leaves.GET("/:id", h.GetById)
	}
}
