// internal/service/auth/admin_create.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"mealkit-service/internal/domain/auth"
	xerrors "mealkit-service/internal/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minAdminPasswordLength = 8

// EnsureAdminExists creates the bootstrap admin account if it is missing (called on startup)
func (s *AuthService) EnsureAdminExists(ctx context.Context, email, password, fullName string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.logger.Warn("admin credentials not configured, skipping admin bootstrap")
		return nil
	}
	if len(password) < minAdminPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", minAdminPasswordLength)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			s.logger.Info("admin already exists, skipping creation", zap.String("email", email))
			return nil
		}
		return fmt.Errorf("email %s belongs to a non-admin account", email)
	case !errors.Is(err, xerrors.ErrNotFound):
		return fmt.Errorf("failed to check admin existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &auth.User{
		FullName:     fullName,
		Email:        email,
		Role:         auth.RoleAdmin,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin created successfully",
		zap.String("email", email),
		zap.String("full_name", fullName),
		zap.Int64("user_id", admin.ID),
	)

	return nil
}
