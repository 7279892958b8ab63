package handlers

import (
	"encoding/json"

	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/kafka/registry"
)

func init() {
	RegisterDirect("notify-commands", handleNotifyCommand)
}

// handleNotifyCommand accepts the raw emit shape from back-office tooling:
// explicit notices and unread-count refreshes, no eventType routing.
func handleNotifyCommand(data []byte) *registry.Emit {
	var cmd struct {
		Notifications []struct {
			UserID  string         `json:"userId"`
			Kind    string         `json:"kind"`
			Payload map[string]any `json:"payload"`
		} `json:"notifications"`
		UnreadCounts []struct {
			UserID string `json:"userId"`
			Count  *int64 `json:"count"`
		} `json:"unreadCounts"`
	}

	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil
	}

	var emit registry.Emit
	for _, n := range cmd.Notifications {
		kind := domain.EventKind(n.Kind)
		if n.UserID == "" || !domain.ValidEmitKind(kind) {
			continue
		}
		emit.Notices = append(emit.Notices, domain.Notice{UserID: n.UserID, Kind: kind, Payload: n.Payload})
	}
	for _, r := range cmd.UnreadCounts {
		if r.UserID == "" {
			continue
		}
		emit.Refreshes = append(emit.Refreshes, domain.UnreadRefresh{UserID: r.UserID, Count: r.Count})
	}

	if len(emit.Notices) == 0 && len(emit.Refreshes) == 0 {
		return nil
	}
	return &emit
}
