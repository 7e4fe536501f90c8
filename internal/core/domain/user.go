package domain

import "time"

// Role is the single role attached to a user account.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleClientMgmt   Role = "client_mgmt"
	RoleSelfEmployed Role = "self_employed"
	RoleSalary       Role = "salary"
	RoleAccountant   Role = "accountant"
	RoleViewer       Role = "viewer"
)

// Roles lists every valid role in declaration order.
var Roles = []Role{RoleAdmin, RoleClientMgmt, RoleSelfEmployed, RoleSalary, RoleAccountant, RoleViewer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User models an account that can sign in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the claim set extracted from a verified credential. It lives for
// a single request and is never persisted.
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	Email  string `json:"email"`
}
