// internal/handlers/auth/auth_handler.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"mealkit-service/internal/domain/auth"
	"mealkit-service/internal/middleware"
	xerrors "mealkit-service/internal/pkg/errors"
	"mealkit-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service is the account surface behind the auth routes.
type Service interface {
	Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	Logout(ctx context.Context, userID int64, jti string) error
	LogoutAllSessions(ctx context.Context, userID int64) error
	Me(ctx context.Context, userID int64) (*auth.UserInfo, error)
}

type AuthHandler struct {
	service Service
	logger  *zap.Logger
}

func NewAuthHandler(service Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Register creates a customer account and signs it in
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	req.IPAddress, req.UserAgent = clientInfo(c)

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if !errors.Is(err, xerrors.ErrConflict) {
			h.logger.Error("registration failed", zap.Error(err))
		}
		response.FromError(c, "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", resp)
}

// Login exchanges credentials for an access token. Throttled per IP and email.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	req.IPAddress, req.UserAgent = clientInfo(c)

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrRateLimited) {
			h.logger.Warn("login throttled", zap.String("ip", req.IPAddress))
		}
		response.FromError(c, "login failed", err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", resp)
}

// Logout revokes the session behind the presented token
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.MustGetUserID(c), middleware.MustGetJTI(c)); err != nil {
		response.FromError(c, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logout successful", nil)
}

// LogoutAll revokes every session of the caller
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.service.LogoutAllSessions(c.Request.Context(), middleware.MustGetUserID(c)); err != nil {
		response.FromError(c, "logout all failed", err)
		return
	}

	response.Success(c, http.StatusOK, "all sessions logged out", nil)
}

// GetMe returns the caller's profile
func (h *AuthHandler) GetMe(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.FromError(c, "failed to get profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", profile)
}

func clientInfo(c *gin.Context) (ip, userAgent string) {
	return c.ClientIP(), c.GetHeader("User-Agent")
}
