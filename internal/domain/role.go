package domain

import "strings"

// Role is the primary role carried by every user account.
type Role string

const (
	RoleAdmin               Role = "ADMIN"
	RoleAcademic            Role = "ACADEMIC"
	RoleHOD                 Role = "HOD"
	RoleDean                Role = "DEAN"
	RoleManagementAssistant Role = "MANAGEMENT_ASSISTANT"
)

// Roles lists every valid role, in pipeline order.
var Roles = []Role{
	RoleAdmin,
	RoleAcademic,
	RoleHOD,
	RoleDean,
	RoleManagementAssistant,
}

// ParseRole normalises and validates a role string.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Identity is the authenticated caller as resolved from token claims.
// ActsAsHOD is a supplemental capability: an ACADEMIC account that carries
// it satisfies an HOD requirement without changing its primary role.
type Identity struct {
	UserID       string
	Role         Role
	DepartmentID string
	ActsAsHOD    bool
}

// Satisfies reports whether the identity may perform an operation gated on
// the given role set.
func (id Identity) Satisfies(required ...Role) bool {
	for _, r := range required {
		if id.Role == r {
			return true
		}
		if r == RoleHOD && id.ActsAsHOD && id.Role == RoleAcademic {
			return true
		}
	}
	return false
}

// IsReviewer reports whether the identity holds decision authority over a
// request in the given department. Deans decide anywhere; HODs (real or
// acting) only inside their own department.
func (id Identity) IsReviewer(departmentID string) bool {
	if id.Role == RoleDean {
		return true
	}
	if id.Satisfies(RoleHOD) {
		return id.DepartmentID != "" && id.DepartmentID == departmentID
	}
	return false
}
