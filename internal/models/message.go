package models

import "time"

// MessageMaxLength caps message content, counted in characters. Longer
// content is truncated before storage, never rejected.
const MessageMaxLength = 250

// Message is a stored chat message. The id and timestamp are assigned by the
// store and are non-decreasing in insertion order within a chatroom.
type Message struct {
	ID         int       `db:"id" json:"id"`
	ChatroomID string    `db:"chatroom_id" json:"chatroom_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
