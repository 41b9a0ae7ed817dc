package ws

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// State is the lifecycle phase of a live connection.
type State int32

const (
	StateConnecting State = iota
	StateActive
	StateClosed
)

const writeWait = 10 * time.Second

var ErrConnectionClosed = errors.New("connection closed")

// ConnInfo carries request metadata captured at handshake time.
type ConnInfo struct {
	ConnID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// Connection is one live client session scoped to a single chatroom. It
// starts in Connecting, becomes Active once registered, and ends in Closed.
// Closing always deregisters, at most once, no matter how many paths race to
// do it.
type Connection struct {
	roomID   string
	conn     *websocket.Conn
	registry *Registry
	info     ConnInfo

	state     atomic.Int32
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// NewConnection wraps an upgraded websocket in the Connecting state.
func NewConnection(roomID string, conn *websocket.Conn, registry *Registry, info ConnInfo) *Connection {
	c := &Connection{roomID: roomID, conn: conn, registry: registry, info: info}
	c.state.Store(int32(StateConnecting))
	return c
}

// Activate registers the connection with the registry and marks it Active.
func (c *Connection) Activate() {
	c.registry.Register(c.roomID, c)
	c.state.Store(int32(StateActive))
}

// Close drives the connection to the terminal Closed state: it deregisters,
// closes the transport, and is safe to call from any goroutine any number of
// times.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosed))
		c.registry.Deregister(c.roomID, c)
		c.conn.Close()
	})
}

// State reports the current lifecycle phase.
func (c *Connection) State() State {
	return State(c.state.Load())
}

// RoomID returns the chatroom this connection is scoped to.
func (c *Connection) RoomID() string {
	return c.roomID
}

// Info returns the handshake metadata.
func (c *Connection) Info() ConnInfo {
	return c.info
}

// WriteText sends one text payload with a bounded deadline. gorilla/websocket
// permits a single concurrent writer, so writes are serialized here.
func (c *Connection) WriteText(payload []byte) error {
	if c.State() == StateClosed {
		return ErrConnectionClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// ReadText blocks for the next inbound text payload.
func (c *Connection) ReadText() ([]byte, error) {
	_, payload, err := c.conn.ReadMessage()
	return payload, err
}
