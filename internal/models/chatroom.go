package models

import "time"

// Chatroom is a private room between exactly two users. The name stays empty
// for 1:1 rooms.
type Chatroom struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatroomMember links a user to a chatroom.
type ChatroomMember struct {
	ID         int       `db:"id" json:"id"`
	ChatroomID string    `db:"chatroom_id" json:"chatroom_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	JoinedAt   time.Time `db:"joined_at" json:"joined_at"`
}

// ChatroomSummary is the API view of a chatroom for one user: members, the
// latest message, and a display picture derived from the other member's
// profile.
type ChatroomSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	Members        []Contact `json:"members"`
	LastMessage    *Message  `json:"last_message,omitempty"`
	ChatroomPicURL *string   `json:"chatroom_pic_url,omitempty"`
}
