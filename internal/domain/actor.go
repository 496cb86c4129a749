package domain

// Role is the caller's role as asserted by the gateway
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// ParseRole maps a header value to a role; unknown values become RoleUser
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleOwner, RoleAdmin:
		return Role(s)
	default:
		return RoleUser
	}
}

// Actor identifies who performs an operation
type Actor struct {
	UserID int64
	Role   Role
}

// IsElevated returns true for venue owners and admins
func (a Actor) IsElevated() bool {
	return a.Role == RoleOwner || a.Role == RoleAdmin
}

// IsAdmin returns true for admins
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
