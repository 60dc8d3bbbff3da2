package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/service/auth"
)

// AuthHandler adapts the session manager to HTTP.
type AuthHandler struct {
	manager *auth.Manager
	anonKey string
	logger  *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(manager *auth.Manager, anonKey string, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{manager: manager, anonKey: anonKey, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login signs the user in with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	session, err := h.manager.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("sign in rejected", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": session.AccessToken,
		"email":        session.Email,
		"expires_at":   session.ExpiresAt,
	})
}

// Logout revokes the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.manager.SignOut(c.Request.Context(), h.anonKey); err != nil {
		h.logger.Error("sign out failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "sign out failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
