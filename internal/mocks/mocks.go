package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chitchat-service/internal/identity"
	"chitchat-service/internal/models"
	"chitchat-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) UpsertFromIdentity(ctx context.Context, ident identity.Identity) (models.User, error) {
	args := m.Called(ctx, ident)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) SearchByEmail(ctx context.Context, email string, excludeUserID string) ([]models.Contact, error) {
	args := m.Called(ctx, email, excludeUserID)
	var contacts []models.Contact
	if val := args.Get(0); val != nil {
		contacts = val.([]models.Contact)
	}
	return contacts, args.Error(1)
}

type ChatroomRepositoryMock struct {
	mock.Mock
}

func (m *ChatroomRepositoryMock) CreateOrGetChatroom(ctx context.Context, userID, contactID string) (models.Chatroom, error) {
	args := m.Called(ctx, userID, contactID)
	var room models.Chatroom
	if val := args.Get(0); val != nil {
		room = val.(models.Chatroom)
	}
	return room, args.Error(1)
}

func (m *ChatroomRepositoryMock) IsMember(ctx context.Context, chatroomID, userID string) (bool, error) {
	args := m.Called(ctx, chatroomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatroomRepositoryMock) ListChatroomsForUser(ctx context.Context, userID string) ([]models.ChatroomSummary, error) {
	args := m.Called(ctx, userID)
	var summaries []models.ChatroomSummary
	if val := args.Get(0); val != nil {
		summaries = val.([]models.ChatroomSummary)
	}
	return summaries, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) AuthorizeMembership(ctx context.Context, chatroomID, userID string) (bool, error) {
	args := m.Called(ctx, chatroomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MessageRepositoryMock) AppendMessage(ctx context.Context, chatroomID, userID, content string) (models.Message, error) {
	args := m.Called(ctx, chatroomID, userID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, chatroomID string) ([]models.Message, error) {
	args := m.Called(ctx, chatroomID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) Verify(token string) (identity.Identity, error) {
	args := m.Called(token)
	var ident identity.Identity
	if val := args.Get(0); val != nil {
		ident = val.(identity.Identity)
	}
	return ident, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.ChatroomRepository = (*ChatroomRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ identity.Verifier = (*VerifierMock)(nil)
