package handlers

import (
	"net/http"
	"strings"

	"hl-portal/internal/auth"
	"hl-portal/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const minPasswordLength = 8

// UserHandler manages dashboard accounts. Every route is admin only.
type UserHandler struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserHandler(users UserStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type userRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create handles POST /users. A taken email answers 409.
func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalid("invalid request body"))
		return
	}
	if err := requireFields(map[string]string{
		"name": req.Name, "email": req.Email, "password": req.Password,
	}, "name", "email", "password"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := validEmail(req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !req.Role.Valid() {
		respondError(c, h.logger, invalid("unknown role %q", req.Role))
		return
	}
	if len(req.Password) < minPasswordLength {
		respondError(c, h.logger, invalid("password must be at least %d characters", minPasswordLength))
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hash,
		Role:     req.Role,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	c.JSON(http.StatusCreated, user)
}

// Update handles PUT /users/:id. An empty password keeps the current one.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalid("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(c, h.logger, invalid("name is required"))
		return
	}
	if !req.Role.Valid() {
		respondError(c, h.logger, invalid("unknown role %q", req.Role))
		return
	}
	var hash string
	if req.Password != "" {
		if len(req.Password) < minPasswordLength {
			respondError(c, h.logger, invalid("password must be at least %d characters", minPasswordLength))
			return
		}
		if hash, err = auth.HashPassword(req.Password); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	user, err := h.users.Update(c.Request.Context(), id, strings.TrimSpace(req.Name), req.Role, hash)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id. Admins cannot delete themselves.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if claims, ok := auth.CurrentClaims(c); ok && claims.UserID == id {
		respondError(c, h.logger, invalid("cannot delete your own account"))
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
