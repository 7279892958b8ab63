package handlers

import (
	"encoding/json"

	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/kafka/registry"
	"vn.io.arda/realtime/internal/messages"
)

func init() {
	Register("shop-events", "ORDER_PLACED", handleOrderPlaced)
	Register("shop-events", "ORDER_STATUS_CHANGED", handleOrderStatusChanged)
}

type shopEnv struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	Payload   struct {
		OrderID   string `json:"orderId"`
		OrderCode string `json:"orderCode"`
		BuyerID   string `json:"buyerId"`
		Status    string `json:"status"`
	} `json:"payload"`
}

func parseShopEnv(data []byte) (*shopEnv, bool) {
	var env shopEnv
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	if env.Payload.BuyerID == "" {
		return nil, false
	}
	return &env, true
}

func handleOrderPlaced(data []byte) *registry.Emit {
	env, ok := parseShopEnv(data)
	if !ok {
		return nil
	}
	title, body := messages.OrderPlaced(env.Payload.OrderCode)
	return &registry.Emit{Notices: []domain.Notice{{
		UserID: env.Payload.BuyerID,
		Kind:   domain.KindCreated,
		Payload: map[string]any{
			"title":   title,
			"body":    body,
			"orderId": env.Payload.OrderID,
		},
	}}}
}

func handleOrderStatusChanged(data []byte) *registry.Emit {
	env, ok := parseShopEnv(data)
	if !ok {
		return nil
	}
	title, body := messages.OrderStatusChanged(env.Payload.OrderCode, env.Payload.Status)
	return &registry.Emit{Notices: []domain.Notice{{
		UserID: env.Payload.BuyerID,
		Kind:   domain.KindUpdated,
		Payload: map[string]any{
			"title":   title,
			"body":    body,
			"orderId": env.Payload.OrderID,
			"status":  env.Payload.Status,
		},
	}}}
}
