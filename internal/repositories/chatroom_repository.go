package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chitchat-service/internal/models"
)

var ErrSelfChat = errors.New("cannot create chatroom with self")

// ChatroomRepository abstracts chatroom persistence.
type ChatroomRepository interface {
	CreateOrGetChatroom(ctx context.Context, userID, contactID string) (models.Chatroom, error)
	IsMember(ctx context.Context, chatroomID, userID string) (bool, error)
	ListChatroomsForUser(ctx context.Context, userID string) ([]models.ChatroomSummary, error)
}

// ChatroomRepo is a sqlx implementation of ChatroomRepository.
type ChatroomRepo struct {
	db *sqlx.DB
}

// NewChatroomRepo constructs a ChatroomRepo.
func NewChatroomRepo(db *sqlx.DB) *ChatroomRepo {
	return &ChatroomRepo{db: db}
}

// CreateOrGetChatroom returns the existing 1:1 room for the pair, or creates
// a fresh one with both memberships. A pair never gets a second room.
func (r *ChatroomRepo) CreateOrGetChatroom(ctx context.Context, userID, contactID string) (models.Chatroom, error) {
	if userID == contactID {
		return models.Chatroom{}, ErrSelfChat
	}

	var room models.Chatroom
	query := `SELECT c.id, c.name, c.created_by, c.created_at
        FROM chatrooms c
        JOIN chatroom_members m1 ON c.id = m1.chatroom_id AND m1.user_id = $1
        JOIN chatroom_members m2 ON c.id = m2.chatroom_id AND m2.user_id = $2
        WHERE (SELECT COUNT(*) FROM chatroom_members cm WHERE cm.chatroom_id = c.id) = 2
        LIMIT 1`
	err := r.db.GetContext(ctx, &room, query, userID, contactID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Chatroom{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chatroom{}, err
	}
	defer tx.Rollback()

	roomID := uuid.NewString()
	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO chatrooms (id, name, created_by) VALUES ($1, '', $2)
         RETURNING id, name, created_by, created_at`, roomID, userID).
		Scan(&room.ID, &room.Name, &room.CreatedBy, &room.CreatedAt); err != nil {
		return models.Chatroom{}, err
	}
	for _, member := range []string{userID, contactID} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chatroom_members (chatroom_id, user_id) VALUES ($1, $2)`, roomID, member); err != nil {
			return models.Chatroom{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Chatroom{}, err
	}
	return room, nil
}

// IsMember checks whether a user belongs to the chatroom.
func (r *ChatroomRepo) IsMember(ctx context.Context, chatroomID, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chatroom_members WHERE chatroom_id=$1 AND user_id=$2)`,
		chatroomID, userID)
	return exists, err
}

// ListChatroomsForUser returns the rooms the user belongs to, each with its
// members, latest message, and a display picture taken from the other
// member's profile.
func (r *ChatroomRepo) ListChatroomsForUser(ctx context.Context, userID string) ([]models.ChatroomSummary, error) {
	var rooms []models.Chatroom
	if err := r.db.SelectContext(ctx, &rooms,
		`SELECT c.id, c.name, c.created_by, c.created_at
         FROM chatrooms c
         JOIN chatroom_members cm ON c.id = cm.chatroom_id
         WHERE cm.user_id = $1
         ORDER BY c.created_at DESC`, userID); err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return []models.ChatroomSummary{}, nil
	}

	roomIDs := make([]string, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	membersByRoom, err := r.membersForRooms(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	lastByRoom, err := r.lastMessagesForRooms(ctx, roomIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ChatroomSummary, 0, len(rooms))
	for _, room := range rooms {
		summary := models.ChatroomSummary{
			ID:        room.ID,
			Name:      room.Name,
			CreatedBy: room.CreatedBy,
			CreatedAt: room.CreatedAt,
			Members:   membersByRoom[room.ID],
		}
		if last, ok := lastByRoom[room.ID]; ok {
			msg := last
			summary.LastMessage = &msg
		}
		for _, member := range summary.Members {
			if member.ID != userID {
				summary.ChatroomPicURL = member.ProfilePicURL
				break
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *ChatroomRepo) membersForRooms(ctx context.Context, roomIDs []string) (map[string][]models.Contact, error) {
	query, args, err := sqlx.In(
		`SELECT cm.chatroom_id, u.id, u.display_name, u.email, u.profile_pic_url
         FROM chatroom_members cm
         JOIN users u ON cm.user_id = u.id
         WHERE cm.chatroom_id IN (?)`, roomIDs)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byRoom := map[string][]models.Contact{}
	for rows.Next() {
		var roomID string
		var contact models.Contact
		if err := rows.Scan(&roomID, &contact.ID, &contact.DisplayName, &contact.Email, &contact.ProfilePicURL); err != nil {
			return nil, err
		}
		byRoom[roomID] = append(byRoom[roomID], contact)
	}
	return byRoom, rows.Err()
}

func (r *ChatroomRepo) lastMessagesForRooms(ctx context.Context, roomIDs []string) (map[string]models.Message, error) {
	query, args, err := sqlx.In(
		`SELECT DISTINCT ON (chatroom_id) id, chatroom_id, user_id, content, created_at
         FROM messages
         WHERE chatroom_id IN (?)
         ORDER BY chatroom_id, created_at DESC, id DESC`, roomIDs)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byRoom := map[string]models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.StructScan(&msg); err != nil {
			return nil, err
		}
		byRoom[msg.ChatroomID] = msg
	}
	return byRoom, rows.Err()
}
