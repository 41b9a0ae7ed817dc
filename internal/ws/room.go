package ws

import (
	"context"
	"log"
	"time"

	"chitchat-service/internal/observability"
)

// RoomChannel fans an inbound payload out to the other live connections in a
// chatroom. It is pure transport: no validation, persistence, or
// authorization happens on this path.
type RoomChannel struct {
	registry *Registry
}

// NewRoomChannel constructs a RoomChannel over the registry.
func NewRoomChannel(registry *Registry) *RoomChannel {
	return &RoomChannel{registry: registry}
}

// Broadcast delivers payload to every connection registered for the room
// except the sender. A failed write closes and deregisters only that peer;
// the loop always continues to the remaining peers.
func (rc *RoomChannel) Broadcast(roomID string, sender *Connection, payload []byte) {
	for _, peer := range rc.registry.Snapshot(roomID) {
		if peer == sender {
			continue
		}
		if err := peer.WriteText(payload); err != nil {
			log.Printf("websocket write error: %v", err)
			peer.Close()
			publishWSError(roomID, peer.Info(), err)
		}
	}
}

func publishWSError(roomID string, info ConnInfo, err error) {
	observability.IncWSEvent("chatroom", "ws_error")
	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   wsEventPayload(roomID, "ws_error", info, time.Since(info.ConnectedAt), err.Error()),
	}, headers)
}
