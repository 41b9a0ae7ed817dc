package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chitchat-service/internal/middleware"
	"chitchat-service/internal/repositories"
)

// ChatroomHandler manages 1:1 chatroom endpoints.
type ChatroomHandler struct {
	chatroomRepo repositories.ChatroomRepository
}

// NewChatroomHandler builds a ChatroomHandler.
func NewChatroomHandler(chatroomRepo repositories.ChatroomRepository) *ChatroomHandler {
	return &ChatroomHandler{chatroomRepo: chatroomRepo}
}

// ListChatrooms returns the caller's chatrooms with members and last message.
func (h *ChatroomHandler) ListChatrooms(c *gin.Context) {
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

	chatrooms, err := h.chatroomRepo.ListChatroomsForUser(c.Request.Context(), ident.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chatrooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chatrooms": chatrooms})
}

// CreateChatroom creates a room between the caller and a contact, reusing the
// existing room when the pair already has one.
func (h *ChatroomHandler) CreateChatroom(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req struct {
		UserID    string `json:"user_id" binding:"required"`
		ContactID string `json:"contact_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID != ident.Subject {
		c.JSON(http.StatusForbidden, gin.H{"error": "user id does not match token"})
		return
	}
	if req.ContactID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact id is required"})
		return
	}

	chatroom, err := h.chatroomRepo.CreateOrGetChatroom(c.Request.Context(), ident.Subject, req.ContactID)
	if err != nil {
		if errors.Is(err, repositories.ErrSelfChat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot create chatroom with self"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chatroom"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "chatroom": chatroom})
}
