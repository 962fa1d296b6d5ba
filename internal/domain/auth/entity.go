// internal/domain/auth/entity.go
package auth

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a customer or administrator account.
type User struct {
	ID           int64      `json:"id" db:"id"`
	FullName     string     `json:"fullName" db:"full_name"`
	Email        string     `json:"email" db:"email"`
	PhoneNumber  string     `json:"phoneNumber,omitempty" db:"phone_number"`
	Role         string     `json:"role" db:"role"`
	PasswordHash string     `json:"-" db:"password_hash"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
