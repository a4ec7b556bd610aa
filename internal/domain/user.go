package domain

const (
	RoleSuperuser = "superuser"
	RoleManager   = "manager"
)

// Actor is the staff member performing an operation, as identified by the
// access token.
type Actor struct {
	UserID int32    `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the actor may bypass the status transition
// table.
func (a Actor) IsPrivileged() bool {
	return a.HasRole(RoleSuperuser)
}

func (a Actor) IsStaff() bool {
	return a.IsPrivileged() || a.HasRole(RoleManager)
}
