package handlers

import (
	"encoding/json"

	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/kafka/registry"
	"vn.io.arda/realtime/internal/messages"
)

func init() {
	Register("booking-events", "BOOKING_CONFIRMED", handleBookingConfirmed)
	Register("booking-events", "BOOKING_CHANGED", handleBookingChanged)
	Register("booking-events", "BOOKING_CANCELLED", handleBookingCancelled)
}

type bookingEnv struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	Payload   struct {
		BookingID    string `json:"bookingId"`
		OwnerID      string `json:"ownerId"`
		ResourceName string `json:"resourceName"`
		Slot         string `json:"slot"`
	} `json:"payload"`
}

func parseBookingEnv(data []byte) (*bookingEnv, bool) {
	var env bookingEnv
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	if env.Payload.OwnerID == "" {
		return nil, false
	}
	return &env, true
}

func bookingNotice(env *bookingEnv, kind domain.EventKind, title, body string) *registry.Emit {
	return &registry.Emit{Notices: []domain.Notice{{
		UserID: env.Payload.OwnerID,
		Kind:   kind,
		Payload: map[string]any{
			"title":     title,
			"body":      body,
			"bookingId": env.Payload.BookingID,
		},
	}}}
}

func handleBookingConfirmed(data []byte) *registry.Emit {
	env, ok := parseBookingEnv(data)
	if !ok {
		return nil
	}
	title, body := messages.BookingConfirmed(env.Payload.ResourceName, env.Payload.Slot)
	return bookingNotice(env, domain.KindCreated, title, body)
}

func handleBookingChanged(data []byte) *registry.Emit {
	env, ok := parseBookingEnv(data)
	if !ok {
		return nil
	}
	title, body := messages.BookingChanged(env.Payload.ResourceName)
	return bookingNotice(env, domain.KindUpdated, title, body)
}

func handleBookingCancelled(data []byte) *registry.Emit {
	env, ok := parseBookingEnv(data)
	if !ok {
		return nil
	}
	title, body := messages.BookingCancelled(env.Payload.ResourceName)
	return bookingNotice(env, domain.KindDeleted, title, body)
}
