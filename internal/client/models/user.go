package models

// Role values understood by the route guard.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the session-scoped identity: populated from a login or register
// response, persisted to the session file, destroyed by logout or detected
// session expiry.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
