package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"sync"
	"testing"
	"time"

	"mealkit-service/internal/domain/auth"
	xerrors "mealkit-service/internal/pkg/errors"
	"mealkit-service/internal/pkg/jwt"
	"mealkit-service/internal/pkg/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]*auth.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return xerrors.ErrConflict
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id int64) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

type fixture struct {
	svc   *AuthService
	users *memUserRepo
	redis *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	manager := &jwt.Manager{
		Generator: jwt.NewGenerator(key, "mealkit", "mealkit-users", "test", time.Hour),
		Verifier:  jwt.NewVerifier(&key.PublicKey, "mealkit", "mealkit-users"),
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := newMemUserRepo()
	svc := NewAuthService(users, manager, session.NewManager(client), session.NewRateLimiter(client), zaptest.NewLogger(t))

	return &fixture{svc: svc, users: users, redis: mr}
}

func registerReq() *auth.RegisterRequest {
	return &auth.RegisterRequest{
		FullName:    "Sari Wulandari",
		Email:       "Sari@Example.com ",
		PhoneNumber: "08123456789",
		Password:    "s3cret-pass",
		IPAddress:   "10.0.0.1",
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "sari@example.com", resp.User.Email)
	assert.Equal(t, auth.RoleUser, resp.User.Role)
	assert.Equal(t, 3600, resp.ExpiresIn)

	claims, err := f.svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	stored, err := f.users.FindByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)

	_, err = f.svc.Register(ctx, registerReq())
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := f.svc.Login(ctx, &auth.LoginRequest{Email: "sari@example.com", Password: "s3cret-pass", IPAddress: "10.0.0.1"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, &auth.LoginRequest{Email: "sari@example.com", Password: "nope", IPAddress: "10.0.0.2"})
		assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.svc.Login(ctx, &auth.LoginRequest{Email: "ghost@example.com", Password: "x", IPAddress: "10.0.0.3"})
		assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
	})
}

func TestLogin_Throttled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	req := &auth.LoginRequest{Email: "sari@example.com", Password: "wrong", IPAddress: "10.9.9.9"}
	for i := 0; i < session.MaxLoginAttempts; i++ {
		_, err := f.svc.Login(ctx, req)
		require.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
	}

	req.Password = "s3cret-pass"
	_, err = f.svc.Login(ctx, req)
	assert.ErrorIs(t, err, xerrors.ErrRateLimited)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	claims, err := f.svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, claims.UserID, claims.ID))

	_, err = f.svc.ValidateToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)
}

func TestValidateToken_Garbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ValidateToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	me, err := f.svc.Me(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sari Wulandari", me.FullName)

	_, err = f.svc.Me(ctx, 999)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestEnsureAdminExists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.EnsureAdminExists(ctx, "admin@mealkit.id", "adminpass1", "Admin"))
	require.NoError(t, f.svc.EnsureAdminExists(ctx, "admin@mealkit.id", "adminpass1", "Admin"))

	admin, err := f.users.FindByEmail(ctx, "admin@mealkit.id")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.Len(t, f.users.users, 1)

	resp, err := f.svc.Login(ctx, &auth.LoginRequest{Email: "admin@mealkit.id", Password: "adminpass1", IPAddress: "1.1.1.1"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, resp.User.Role)

	t.Run("not configured", func(t *testing.T) {
		assert.NoError(t, f.svc.EnsureAdminExists(ctx, "", "", ""))
	})

	t.Run("weak password", func(t *testing.T) {
		assert.Error(t, f.svc.EnsureAdminExists(ctx, "other@mealkit.id", "short", "x"))
	})

	t.Run("email owned by customer", func(t *testing.T) {
		_, err := f.svc.Register(ctx, registerReq())
		require.NoError(t, err)
		assert.Error(t, f.svc.EnsureAdminExists(ctx, "sari@example.com", "adminpass1", "x"))
	})
}
