package models

type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleManager   Role = "Manager"
	RoleDeveloper Role = "Developer"
	RoleTester    Role = "Tester"
)

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Session is the authenticated user plus the opaque bearer credential
// returned by the login endpoint.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
