package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"chitchat-service/internal/observability"
)

// ChatWebSocketHandler accepts live connections scoped to one chatroom and
// pumps inbound payloads into the room channel.
//
// Note that this endpoint performs no token or membership check: the live
// path fans out whatever the client sends, gated only by the origin
// allow-list. The REST message path is the authorized, persisted one.
type ChatWebSocketHandler struct {
	registry *Registry
	rooms    *RoomChannel
	upgrader websocket.Upgrader
}

// NewChatWebSocketHandler constructs the handler with an origin allow-list.
func NewChatWebSocketHandler(registry *Registry, rooms *RoomChannel, allowedOrigins []string) *ChatWebSocketHandler {
	return &ChatWebSocketHandler{
		registry: registry,
		rooms:    rooms,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
	}
}

// Handle upgrades the request, registers the connection, and runs its read
// loop until the transport closes.
func (h *ChatWebSocketHandler) Handle(c *gin.Context) {
	roomID := c.Param("chatroom_id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing chatroom id"})
		return
	}

	ctx, span := otel.Tracer("chitchat-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	wsConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	conn := NewConnection(roomID, wsConn, h.registry, info)
	conn.Activate()

	observability.IncWSActive("chatroom")
	observability.IncWSEvent("chatroom", "ws_connect")
	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(ctx, wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload(roomID, "ws_connect", info, 0, ""),
	}, headers)

	go func() {
		var closeReason string
		defer func() {
			conn.Close()
			observability.DecWSActive("chatroom")
			observability.IncWSEvent("chatroom", "ws_disconnect")
			_ = observability.PublishEvent(ctx, wsRoutingKey, observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload:   wsEventPayload(roomID, "ws_disconnect", info, time.Since(info.ConnectedAt), closeReason),
			}, headers)
		}()
		for {
			payload, err := conn.ReadText()
			if err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("chatroom", "ws_error")
				}
				return
			}
			h.rooms.Broadcast(roomID, conn, payload)
		}
	}()
}
