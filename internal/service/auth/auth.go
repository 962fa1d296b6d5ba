// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mealkit-service/internal/domain/auth"
	xerrors "mealkit-service/internal/pkg/errors"
	"mealkit-service/internal/pkg/jwt"
	"mealkit-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo       auth.Repository
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	rateLimiter    *session.RateLimiter
	logger         *zap.Logger
	now            func() time.Time
}

func NewAuthService(
	userRepo auth.Repository,
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	rateLimiter *session.RateLimiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		logger:         logger,
		now:            time.Now,
	}
}

// ========== Registration ==========

// Register creates a customer account and logs it in
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.Wrap(xerrors.ErrConflict, "email is already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &auth.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Role:         auth.RoleUser,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.Wrap(err, "email is already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return s.startSession(ctx, user, req.IPAddress, req.UserAgent)
}

// ========== Login ==========

// Login authenticates a user with email/password
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		s.logger.Warn("login throttled", zap.String("email", email), zap.String("ip", req.IPAddress))
		return nil, xerrors.Wrap(xerrors.ErrRateLimited, "too many login attempts, please try again in 15 minutes")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("invalid password",
			zap.Int64("user_id", user.ID),
			zap.Int64("attempts_remaining", remaining),
		)
		return nil, xerrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return s.startSession(ctx, user, req.IPAddress, req.UserAgent)
}

// startSession issues an access token and records its session in Redis
func (s *AuthService) startSession(ctx context.Context, user *auth.User, ipAddress, userAgent string) (*auth.LoginResponse, error) {
	token, err := s.jwtManager.Generator.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := s.now()
	sessionData := &session.SessionData{
		JTI:            token.JTI,
		UserID:         user.ID,
		Email:          user.Email,
		Role:           user.Role,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      token.ExpiresAt,
	}

	if err := s.sessionManager.CreateSession(ctx, sessionData); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &auth.LoginResponse{
		AccessToken: token.Value,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtManager.Generator.TTL().Seconds()),
		ExpiresAt:   token.ExpiresAt,
		User:        auth.NewUserInfo(user),
	}, nil
}

// ========== Session ==========

// Logout invalidates the current session
func (s *AuthService) Logout(ctx context.Context, userID int64, jti string) error {
	if err := s.sessionManager.InvalidateSession(ctx, userID, jti); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	s.logger.Info("user logged out", zap.Int64("user_id", userID))
	return nil
}

// LogoutAllSessions invalidates every session of a user
func (s *AuthService) LogoutAllSessions(ctx context.Context, userID int64) error {
	if err := s.sessionManager.InvalidateAllUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}
	return nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID int64) (*auth.UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := auth.NewUserInfo(user)
	return &info, nil
}

// ValidateToken verifies the token signature and that its session is still live
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.Verify(token)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, err.Error())
	}

	if _, err := s.sessionManager.GetSession(ctx, claims.UserID, claims.ID); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, xerrors.ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
