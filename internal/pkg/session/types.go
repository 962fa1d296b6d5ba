// internal/pkg/session/types.go
package session

import "time"

type SessionData struct {
	JTI            string    `json:"jti"`
	UserID         int64     `json:"userId"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	IPAddress      string    `json:"ipAddress"`
	UserAgent      string    `json:"userAgent"`
	LoginAt        time.Time `json:"loginAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}
