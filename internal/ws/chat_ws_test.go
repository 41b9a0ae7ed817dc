package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func startChatServer(t *testing.T) (*Registry, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := NewRegistry()
	handler := NewChatWebSocketHandler(registry, NewRoomChannel(registry), nil)

	router := gin.New()
	router.GET("/ws/chat/:chatroom_id", handler.Handle)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return registry, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat/"
}

func dialRoom(t *testing.T, baseURL, roomID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(baseURL+roomID, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForRoomSize(t *testing.T, registry *Registry, roomID string, size int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(registry.Snapshot(roomID)) == size
	}, 2*time.Second, 10*time.Millisecond)
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(payload)
}

func expectNoMessage(t *testing.T, conn *websocket.Conn, wait time.Duration) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(wait))
	_, payload, err := conn.ReadMessage()
	require.Error(t, err, "expected no payload, got %q", payload)
}

func TestBroadcastReachesPeersNotSender(t *testing.T) {
	registry, baseURL := startChatServer(t)

	a := dialRoom(t, baseURL, "room-x")
	b := dialRoom(t, baseURL, "room-x")
	c := dialRoom(t, baseURL, "room-x")
	waitForRoomSize(t, registry, "room-x", 3)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("hello")))

	require.Equal(t, "hello", readText(t, b))
	require.Equal(t, "hello", readText(t, c))
	expectNoMessage(t, a, 300*time.Millisecond)
}

func TestBroadcastScopedToRoom(t *testing.T) {
	registry, baseURL := startChatServer(t)

	a := dialRoom(t, baseURL, "room-x")
	b := dialRoom(t, baseURL, "room-x")
	outsider := dialRoom(t, baseURL, "room-y")
	waitForRoomSize(t, registry, "room-x", 2)
	waitForRoomSize(t, registry, "room-y", 1)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("internal")))

	require.Equal(t, "internal", readText(t, b))
	expectNoMessage(t, outsider, 300*time.Millisecond)
}

func TestDisconnectedPeerStopsReceiving(t *testing.T) {
	registry, baseURL := startChatServer(t)

	u1 := dialRoom(t, baseURL, "room-x")
	u2 := dialRoom(t, baseURL, "room-x")
	u3 := dialRoom(t, baseURL, "room-x")
	waitForRoomSize(t, registry, "room-x", 3)

	require.NoError(t, u1.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.Equal(t, "hello", readText(t, u2))
	require.Equal(t, "hello", readText(t, u3))

	require.NoError(t, u3.Close())
	waitForRoomSize(t, registry, "room-x", 2)

	require.NoError(t, u1.WriteMessage(websocket.TextMessage, []byte("still here?")))
	require.Equal(t, "still here?", readText(t, u2))
	expectNoMessage(t, u1, 300*time.Millisecond)
}

func TestSenderOrderingPreservedPerPeer(t *testing.T) {
	registry, baseURL := startChatServer(t)

	sender := dialRoom(t, baseURL, "room-x")
	receiver := dialRoom(t, baseURL, "room-x")
	waitForRoomSize(t, registry, "room-x", 2)

	for _, payload := range []string{"one", "two", "three"} {
		require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(payload)))
	}

	require.Equal(t, "one", readText(t, receiver))
	require.Equal(t, "two", readText(t, receiver))
	require.Equal(t, "three", readText(t, receiver))
}
