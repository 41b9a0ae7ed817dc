package ws

import "time"

const wsRoutingKey = "ws_events.chatrooms"

func wsEventPayload(roomID, event string, info ConnInfo, duration time.Duration, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        "chatroom",
			"resource_id": roomID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": duration.Milliseconds(),
			"reason":      reason,
		},
		"client": map[string]interface{}{
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
