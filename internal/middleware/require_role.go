package middleware

import (
	autherrors "go-leavelink/internal/auth/errors"
	"go-leavelink/internal/domain"
	"go-leavelink/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// CallerIdentity rebuilds the domain identity from the claims stored by
// AuthMiddleware. The bool is false when auth context is missing.
func CallerIdentity(c *gin.Context) (domain.Identity, bool) {
	userID := c.GetString("user_id")
	roleStr := c.GetString("role")
	if userID == "" || roleStr == "" {
		return domain.Identity{}, false
	}

	role, ok := domain.ParseRole(roleStr)
	if !ok {
		return domain.Identity{}, false
	}

	return domain.Identity{
		UserID:       userID,
		Role:         role,
		DepartmentID: c.GetString("department_id"),
		ActsAsHOD:    c.GetBool("acts_as_hod"),
	}, true
}

// RequireRoles gates an endpoint on a role set. The acts-as-HOD grant
// satisfies an HOD requirement for academic accounts (domain.Satisfies).
// Failure is terminal: 401 without identity, 403 on role mismatch.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CallerIdentity(c)
		if !ok {
			response.Error(c, autherrors.ErrInvalidToken.HTTPStatus, autherrors.ErrInvalidToken.Code, autherrors.ErrInvalidToken.Message, nil)
			c.Abort()
			return
		}

		if !identity.Satisfies(roles...) {
			response.Error(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
