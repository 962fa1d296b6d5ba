package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyPair(t *testing.T) (string, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "jwt_private.pem")
	pubPath := filepath.Join(dir, "jwt_public.pem")

	privBytes, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privBytes}), 0o600))

	pubBytes := x509.MarshalPKCS1PublicKey(&key.PublicKey)
	require.NoError(t, os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: pubBytes}), 0o600))

	return privPath, pubPath
}

func testConfig(t *testing.T) Config {
	priv, pub := writeKeyPair(t)
	return Config{
		PrivPath: priv,
		PubPath:  pub,
		Issuer:   "mealkit",
		Audience: "mealkit-web",
		TTL:      time.Hour,
		KID:      "test",
	}
}

func TestGenerateAndVerify(t *testing.T) {
	m, err := LoadAndBuild(testConfig(t))
	require.NoError(t, err)

	tok, err := m.Generator.GenerateAccessToken(42, "sari@example.com", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.JTI)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	claims, err := m.Verifier.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "sari@example.com", claims.Email)
	assert.Equal(t, tok.JTI, claims.ID)
	assert.True(t, claims.IsAdmin())
}

func TestVerify_Rejects(t *testing.T) {
	cfg := testConfig(t)
	m, err := LoadAndBuild(cfg)
	require.NoError(t, err)

	t.Run("wrong audience", func(t *testing.T) {
		other := NewVerifier(m.Verifier.pub, cfg.Issuer, "someone-else")
		tok, err := m.Generator.GenerateAccessToken(1, "", "user")
		require.NoError(t, err)
		_, err = other.Verify(tok.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewVerifier(m.Verifier.pub, "another-issuer", cfg.Audience)
		tok, err := m.Generator.GenerateAccessToken(1, "", "user")
		require.NoError(t, err)
		_, err = other.Verify(tok.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		m.Generator.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { m.Generator.now = time.Now }()

		tok, err := m.Generator.GenerateAccessToken(1, "", "user")
		require.NoError(t, err)
		_, err = m.Verifier.Verify(tok.Value)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verifier.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing uid", func(t *testing.T) {
		tok, err := m.Generator.GenerateAccessToken(0, "", "user")
		require.NoError(t, err)
		_, err = m.Verifier.Verify(tok.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestLoadAndBuild_MissingKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.PrivPath = filepath.Join(t.TempDir(), "missing.pem")

	_, err := LoadAndBuild(cfg)
	assert.Error(t, err)
}

func TestLoadAndBuild_MismatchedKeys(t *testing.T) {
	cfg := testConfig(t)
	_, otherPub := writeKeyPair(t)
	cfg.PubPath = otherPub

	_, err := LoadAndBuild(cfg)
	assert.ErrorContains(t, err, "does not match")
}
