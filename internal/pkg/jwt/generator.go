// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string // key id for rotation
	ttl      time.Duration
	now      func() time.Time
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	return &Generator{
		priv:     priv,
		issuer:   issuer,
		audience: audience,
		kid:      kid,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Token is a signed access token plus the identifiers needed to track its session.
type Token struct {
	Value     string
	JTI       string
	ExpiresAt time.Time
}

func (g *Generator) TTL() time.Duration {
	return g.ttl
}

// GenerateAccessToken signs an RS256 access token for a user.
func (g *Generator) GenerateAccessToken(userID int64, email, role string) (*Token, error) {
	if g.priv == nil {
		return nil, fmt.Errorf("jwt generator has nil private key")
	}

	now := g.now()
	expiresAt := now.Add(g.ttl)
	jti := ulid.Make().String()

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.priv)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{Value: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}
