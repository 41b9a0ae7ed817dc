package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// newTestConn dials a throwaway upgrade server and returns the client side.
func newTestConn(t *testing.T) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Drain until the peer goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConnectionLifecycle(t *testing.T) {
	registry := NewRegistry()
	conn := NewConnection("room-1", newTestConn(t), registry, ConnInfo{ConnID: "c1"})

	require.Equal(t, StateConnecting, conn.State())
	require.Empty(t, registry.Snapshot("room-1"))

	conn.Activate()
	require.Equal(t, StateActive, conn.State())
	require.Len(t, registry.Snapshot("room-1"), 1)

	conn.Close()
	require.Equal(t, StateClosed, conn.State())
	require.Empty(t, registry.Snapshot("room-1"))
}

func TestConnectionCloseIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	conn := NewConnection("room-1", newTestConn(t), registry, ConnInfo{})
	conn.Activate()

	conn.Close()
	require.NotPanics(t, conn.Close)
	require.Equal(t, StateClosed, conn.State())
}

func TestWriteTextAfterCloseFails(t *testing.T) {
	registry := NewRegistry()
	conn := NewConnection("room-1", newTestConn(t), registry, ConnInfo{})
	conn.Activate()
	conn.Close()

	err := conn.WriteText([]byte("late"))
	require.ErrorIs(t, err, ErrConnectionClosed)
}

func TestBroadcastToFailedPeerDeregistersIt(t *testing.T) {
	registry := NewRegistry()
	rooms := NewRoomChannel(registry)

	sender := NewConnection("room-1", newTestConn(t), registry, ConnInfo{})
	sender.Activate()

	// Peer whose transport is already gone: the write must fail, close the
	// peer, and leave the sender untouched.
	peer := NewConnection("room-1", newTestConn(t), registry, ConnInfo{})
	peer.Activate()
	peer.conn.Close()

	rooms.Broadcast("room-1", sender, []byte("hello"))

	require.Equal(t, StateClosed, peer.State())
	require.Equal(t, StateActive, sender.State())
	require.Len(t, registry.Snapshot("room-1"), 1)
}
