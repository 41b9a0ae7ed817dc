package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"chitchat-service/internal/models"
)

var (
	ErrNotAMember   = errors.New("user is not a member of this chatroom")
	ErrEmptyContent = errors.New("message content is empty")
)

// MessageRepository is the persistence gateway for messages: it authorizes a
// sender against room membership and durably appends messages.
type MessageRepository interface {
	AuthorizeMembership(ctx context.Context, chatroomID, userID string) (bool, error)
	AppendMessage(ctx context.Context, chatroomID, userID, content string) (models.Message, error)
	ListMessages(ctx context.Context, chatroomID string) ([]models.Message, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// AuthorizeMembership reports whether the user is a current member of the
// chatroom.
func (r *MessageRepo) AuthorizeMembership(ctx context.Context, chatroomID, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chatroom_members WHERE chatroom_id=$1 AND user_id=$2)`,
		chatroomID, userID)
	return exists, err
}

// AppendMessage stores a message with a server-assigned id and timestamp.
// Content is trimmed and truncated to the character cap; empty content and
// non-members are rejected.
func (r *MessageRepo) AppendMessage(ctx context.Context, chatroomID, userID, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, ErrEmptyContent
	}

	member, err := r.AuthorizeMembership(ctx, chatroomID, userID)
	if err != nil {
		return models.Message{}, err
	}
	if !member {
		return models.Message{}, ErrNotAMember
	}

	content = truncateContent(content, models.MessageMaxLength)

	var msg models.Message
	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (chatroom_id, user_id, content) VALUES ($1, $2, $3)
         RETURNING id, chatroom_id, user_id, content, created_at`,
		chatroomID, userID, content).
		Scan(&msg.ID, &msg.ChatroomID, &msg.UserID, &msg.Content, &msg.CreatedAt)
	return msg, err
}

// ListMessages returns the chatroom's messages in insertion order.
func (r *MessageRepo) ListMessages(ctx context.Context, chatroomID string) ([]models.Message, error) {
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chatroom_id, user_id, content, created_at
         FROM messages
         WHERE chatroom_id=$1
         ORDER BY created_at ASC, id ASC`, chatroomID)
	return msgs, err
}

// truncateContent caps content at max characters, not bytes.
func truncateContent(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max])
}
