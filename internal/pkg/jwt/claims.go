// internal/pkg/jwt/claims.go
package jwt

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

const roleAdmin = "admin"

// Claims carries the user behind an access token. The registered ID (jti)
// names the Redis session the token belongs to.
type Claims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == roleAdmin
}

// validateSubject requires uid, sub and jti to be present and uid to agree with sub.
func (c *Claims) validateSubject() error {
	if c.UserID <= 0 {
		return fmt.Errorf("missing uid")
	}
	if c.ID == "" {
		return fmt.Errorf("missing jti")
	}
	if c.Subject != strconv.FormatInt(c.UserID, 10) {
		return fmt.Errorf("sub %q does not match uid %d", c.Subject, c.UserID)
	}
	if c.Role == "" {
		return fmt.Errorf("missing role")
	}
	return nil
}
