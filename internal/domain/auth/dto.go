// internal/domain/auth/dto.go
package auth

import "time"

// RegisterRequest for user registration
type RegisterRequest struct {
	FullName    string `json:"fullName" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,max=32"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	IPAddress   string `json:"-"`
	UserAgent   string `json:"-"`
}

// LoginRequest for user login
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse successful login response
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int       `json:"expiresIn"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        UserInfo  `json:"user"`
}

// UserInfo minimal user information
type UserInfo struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role"`
}

func NewUserInfo(u *User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}
