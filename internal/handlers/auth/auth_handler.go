// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"ptieasy-service/internal/domain/auth"
	"ptieasy-service/internal/middleware"
	"ptieasy-service/internal/pkg/response"
	authUsecase "ptieasy-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Login ==========

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	// Set IP and User-Agent
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.Error(c, response.StatusFromError(err), "login failed", err)
		return
	}

	h.logger.Info("user logged in",
		zap.String("account_id", loginResp.User.ID),
		zap.String("role", string(loginResp.User.Role)),
	)

	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// ========== Logout ==========

// Logout handles user logout (requires auth)
func (h *AuthHandler) Logout(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), accountID, jti); err != nil {
		h.logger.Error("logout failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logout successful", nil)
}

// ========== Profile ==========

// GetMe returns the current account with its auth state
func (h *AuthHandler) GetMe(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	me, err := h.authService.Me(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to get profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", me)
}

// ========== Session Management ==========

// GetActiveSessions returns all active sessions for current user
func (h *AuthHandler) GetActiveSessions(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	sessions, err := h.authService.GetActiveSessions(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to get sessions", err)
		return
	}

	response.Success(c, http.StatusOK, "sessions retrieved", sessions)
}
