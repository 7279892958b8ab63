package handlers

import (
	"encoding/json"

	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/kafka/registry"
)

func init() {
	Register("chat-events", "MESSAGE_POSTED", handleMessagePosted)
}

// chatEnv is published by the chat service after it has persisted the
// message row. RecipientIDs are the room members minus the author; clients
// without a live channel pick the message up via /poll instead.
type chatEnv struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	Payload   struct {
		MessageID    string   `json:"messageId"`
		RoomID       string   `json:"roomId"`
		AuthorID     string   `json:"authorId"`
		AuthorName   string   `json:"authorName"`
		Preview      string   `json:"preview"`
		RecipientIDs []string `json:"recipientIds"`
	} `json:"payload"`
}

func handleMessagePosted(data []byte) *registry.Emit {
	var env chatEnv
	if err := json.Unmarshal(data, &env); err != nil || len(env.Payload.RecipientIDs) == 0 {
		return nil
	}

	notices := make([]domain.Notice, 0, len(env.Payload.RecipientIDs))
	for _, uid := range env.Payload.RecipientIDs {
		if uid == env.Payload.AuthorID {
			continue
		}
		notices = append(notices, domain.Notice{
			UserID: uid,
			Kind:   domain.KindCreated,
			Payload: map[string]any{
				"roomId":     env.Payload.RoomID,
				"messageId":  env.Payload.MessageID,
				"authorName": env.Payload.AuthorName,
				"preview":    env.Payload.Preview,
			},
		})
	}
	if len(notices) == 0 {
		return nil
	}
	return &registry.Emit{Notices: notices}
}
