package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chitchat-service/internal/middleware"
	"chitchat-service/internal/repositories"
)

// MessageHandler manages message retrieval and the durable send path. Sends
// go through the persistence gateway only; live fan-out is a separate
// transport concern served by the websocket endpoint.
type MessageHandler struct {
	messageRepo repositories.MessageRepository
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo}
}

// ListMessages returns a chatroom's messages in insertion order. Callers
// must be members.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req struct {
		UserID     string `json:"user_id" binding:"required"`
		ChatroomID string `json:"chatroom_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID != ident.Subject {
		c.JSON(http.StatusForbidden, gin.H{"error": "user id does not match token"})
		return
	}
	if req.ChatroomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing chatroom_id"})
		return
	}

	member, err := h.messageRepo.AuthorizeMembership(c.Request.Context(), req.ChatroomID, ident.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "user is not a member of this chatroom"})
		return
	}

	msgs, err := h.messageRepo.ListMessages(c.Request.Context(), req.ChatroomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// SendMessage persists a message through the gateway, truncating content to
// the character cap and assigning the server timestamp.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req struct {
		UserID     string `json:"user_id" binding:"required"`
		ChatroomID string `json:"chatroom_id"`
		Content    string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID != ident.Subject {
		c.JSON(http.StatusForbidden, gin.H{"error": "user id does not match token"})
		return
	}
	if req.ChatroomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing chatroom_id"})
		return
	}

	msg, err := h.messageRepo.AppendMessage(c.Request.Context(), req.ChatroomID, ident.Subject, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing content"})
		case errors.Is(err, repositories.ErrNotAMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "user is not a member of this chatroom"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		}
		return
	}

	c.JSON(http.StatusCreated, msg)
}
