// internal/pkg/jwt/loader.go
package jwt

import (
	"fmt"
	"time"
)

const defaultTTL = 72 * time.Hour

type Config struct {
	PrivPath string
	PubPath  string
	Issuer   string
	Audience string
	TTL      time.Duration
	KID      string
}

// Manager pairs the signer used at login with the verifier used by the auth middleware.
type Manager struct {
	Generator *Generator
	Verifier  *Verifier
}

// LoadAndBuild reads both PEM files and refuses a public key that does not
// belong to the private key.
func LoadAndBuild(cfg Config) (*Manager, error) {
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, fmt.Errorf("jwt issuer and audience are required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}

	priv, err := LoadRSAPrivateKeyFromPEM(cfg.PrivPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key from %s: %w", cfg.PrivPath, err)
	}

	pub, err := LoadRSAPublicKeyFromPEM(cfg.PubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key from %s: %w", cfg.PubPath, err)
	}

	if !priv.PublicKey.Equal(pub) {
		return nil, fmt.Errorf("public key %s does not match private key %s", cfg.PubPath, cfg.PrivPath)
	}

	return &Manager{
		Generator: NewGenerator(priv, cfg.Issuer, cfg.Audience, cfg.KID, cfg.TTL),
		Verifier:  NewVerifier(pub, cfg.Issuer, cfg.Audience),
	}, nil
}
