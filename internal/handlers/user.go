package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chitchat-service/internal/middleware"
	"chitchat-service/internal/repositories"
	"chitchat-service/internal/telemetry"
)

// UserHandler manages login and contact search.
type UserHandler struct {
	userRepo repositories.UserRepository
	audit    *telemetry.AuditEmitter
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(userRepo repositories.UserRepository, audit *telemetry.AuditEmitter) *UserHandler {
	return &UserHandler{userRepo: userRepo, audit: audit}
}

// Login upserts the caller's profile from the verified identity record.
func (h *UserHandler) Login(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID != ident.Subject {
		c.JSON(http.StatusForbidden, gin.H{"error": "user id does not match token"})
		return
	}

	if ident.DisplayName == "" || ident.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identity record lacks display name or email"})
		return
	}

	user, err := h.userRepo.UpsertFromIdentity(c.Request.Context(), ident)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store user"})
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "user login", requestIDFromContext(c), &user.ID)
	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"username":        user.DisplayName,
		"profile_pic_url": user.ProfilePicURL,
	})
}

// SearchContacts looks up another user by exact email match.
func (h *UserHandler) SearchContacts(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Search string `json:"search"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID != ident.Subject {
		c.JSON(http.StatusForbidden, gin.H{"error": "user id does not match token"})
		return
	}

	search := strings.TrimSpace(req.Search)
	if search == "" {
		c.JSON(http.StatusOK, gin.H{"contacts": []any{}})
		return
	}

	contacts, err := h.userRepo.SearchByEmail(c.Request.Context(), search, ident.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}
