package models

import "time"

// User mirrors the identity provider subject. The id is immutable once
// created; the profile picture may be refreshed on login.
type User struct {
	ID            string    `db:"id" json:"id"`
	DisplayName   string    `db:"display_name" json:"display_name"`
	Email         string    `db:"email" json:"email"`
	ProfilePicURL *string   `db:"profile_pic_url" json:"profile_pic_url,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Contact is the reduced user view returned by contact search.
type Contact struct {
	ID            string  `db:"id" json:"id"`
	DisplayName   string  `db:"display_name" json:"display_name"`
	Email         string  `db:"email" json:"email"`
	ProfilePicURL *string `db:"profile_pic_url" json:"profile_pic_url,omitempty"`
}
