package handlers

import (
	"errors"
	"net/http"
	"strings"

	"hl-portal/internal/auth"
	"hl-portal/internal/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler logs dashboard users in.
type SessionHandler struct {
	users  UserStore
	tokens auth.TokenService
	logger *zap.Logger
}

func NewSessionHandler(users UserStore, tokens auth.TokenService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{users: users, tokens: tokens, logger: logger}
}

// Login handles POST /auth/login. Unknown email and wrong password look the same.
func (h *SessionHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(c, h.logger, invalid("email and password are required"))
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		respondError(c, h.logger, err)
		return
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, expires, err := h.tokens.Issue(user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expires,
		"user":       user,
	})
}

// Me handles GET /auth/me.
func (h *SessionHandler) Me(c *gin.Context) {
	claims, ok := auth.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}
	user, err := h.users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
