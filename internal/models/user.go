package models

import "time"

// UserRole represents the roles recognised by the API.
type UserRole string

const (
	RoleRegistrar UserRole = "REGISTRAR"
	RoleViewer    UserRole = "VIEWER"
)

// User is a registrar-office account allowed to operate the API.
// Accounts are seeded from configuration; there is no user database.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
