package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chitchat-service/internal/identity"
	"chitchat-service/internal/mocks"
	"chitchat-service/internal/models"
	"chitchat-service/internal/repositories"
)

func setupMessageRouter(handler *MessageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("identity", identity.Identity{Subject: "u1", DisplayName: "Alice", Email: "alice@example.com"})
		c.Next()
	})
	r.POST("/message/list", handler.ListMessages)
	r.POST("/message/send", handler.SendMessage)
	return r
}

func TestListMessagesSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo)
	router := setupMessageRouter(handler)

	messageRepo.On("AuthorizeMembership", mock.Anything, "room-1", "u1").Return(true, nil).Once()
	messageRepo.On("ListMessages", mock.Anything, "room-1").
		Return([]models.Message{{ID: 1, ChatroomID: "room-1", UserID: "u2", Content: "hi"}}, nil).Once()

	body := bytes.NewBufferString(`{"user_id":"u1","chatroom_id":"room-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/message/list", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 1)
	messageRepo.AssertExpectations(t)
}

func TestListMessagesNotAMember(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo)
	router := setupMessageRouter(handler)

	messageRepo.On("AuthorizeMembership", mock.Anything, "room-1", "u1").Return(false, nil).Once()

	body := bytes.NewBufferString(`{"user_id":"u1","chatroom_id":"room-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/message/list", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messageRepo.AssertNotCalled(t, "ListMessages")
}

func TestListMessagesMissingChatroomID(t *testing.T) {
	handler := NewMessageHandler(new(mocks.MessageRepositoryMock))
	router := setupMessageRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/message/list", bytes.NewBufferString(`{"user_id":"u1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo)
	router := setupMessageRouter(handler)

	messageRepo.On("AppendMessage", mock.Anything, "room-1", "u1", "hello").
		Return(models.Message{ID: 7, ChatroomID: "room-1", UserID: "u1", Content: "hello"}, nil).Once()

	body := bytes.NewBufferString(`{"user_id":"u1","chatroom_id":"room-1","content":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/message/send", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var msg models.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	assert.Equal(t, 7, msg.ID)
	messageRepo.AssertExpectations(t)
}

func TestSendMessageLongContentPassedThrough(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo)
	router := setupMessageRouter(handler)

	long := strings.Repeat("a", 300)
	truncated := strings.Repeat("a", models.MessageMaxLength)
	messageRepo.On("AppendMessage", mock.Anything, "room-1", "u1", long).
		Return(models.Message{ID: 8, ChatroomID: "room-1", UserID: "u1", Content: truncated}, nil).Once()

	body := bytes.NewBufferString(fmt.Sprintf(`{"user_id":"u1","chatroom_id":"room-1","content":%q}`, long))
	req := httptest.NewRequest(http.MethodPost, "/message/send", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var msg models.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	assert.Len(t, msg.Content, models.MessageMaxLength)
	messageRepo.AssertExpectations(t)
}

func TestSendMessageEmptyContent(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo)
	router := setupMessageRouter(handler)

	messageRepo.On("AppendMessage", mock.Anything, "room-1", "u1", "   ").
		Return(models.Message{}, repositories.ErrEmptyContent).Once()

	body := bytes.NewBufferString(`{"user_id":"u1","chatroom_id":"room-1","content":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/message/send", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestSendMessageNotAMember(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo)
	router := setupMessageRouter(handler)

	messageRepo.On("AppendMessage", mock.Anything, "room-1", "u1", "hi").
		Return(models.Message{}, repositories.ErrNotAMember).Once()

	body := bytes.NewBufferString(`{"user_id":"u1","chatroom_id":"room-1","content":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/message/send", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestSendMessageSubjectMismatch(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(messageRepo)
	router := setupMessageRouter(handler)

	body := bytes.NewBufferString(`{"user_id":"imposter","chatroom_id":"room-1","content":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/message/send", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messageRepo.AssertNotCalled(t, "AppendMessage")
}
