package domain

// Role is the closed set of access levels. Kept as a typed string rather
// than bare text so a new role forces every switch over roles to be
// revisited.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role. Records read from storage pass
// through this before any authorization decision.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
