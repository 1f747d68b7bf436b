package models

import "time"

// Role values stored in users.role.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is an account manager who owns clients and prospects.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	HashedPassword string    `json:"-"`
	Name           string    `json:"name"`
	City           string    `json:"city"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
