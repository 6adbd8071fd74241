package models

// Role is a well-known member role id.
type Role int

const (
	RolePrincipal Role = 1
	RoleAdmin     Role = 2
	RoleStaff     Role = 3
	RoleStudent   Role = 4
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleStaff:
		return "Staff"
	case RoleAdmin:
		return "Admin"
	case RolePrincipal:
		return "Principal"
	default:
		return "Unknown Role"
	}
}

// IsAdminPortal reports whether the role uses the admin portal.
// Principals share it with admins.
func (r Role) IsAdminPortal() bool {
	return r == RoleAdmin || r == RolePrincipal
}
