package domain

// Role represents a player's role in a room
type Role string

const (
	RoleDrawer  Role = "DRAWER"
	RoleGuesser Role = "GUESSER"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsDrawer returns true if this role holds the secret word
func (r Role) IsDrawer() bool {
	return r == RoleDrawer
}
