package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a notification event pushed over the live channel.
type EventKind string

const (
	KindCreated EventKind = "created"
	KindUpdated EventKind = "updated"
	KindDeleted EventKind = "deleted"
	// KindUnreadCount is reserved for counter refresh frames; it is never
	// accepted as the kind of an inbound emit.
	KindUnreadCount EventKind = "unread-count"
)

// ValidEmitKind reports whether k may appear on an inbound emit request.
func ValidEmitKind(k EventKind) bool {
	switch k {
	case KindCreated, KindUpdated, KindDeleted:
		return true
	}
	return false
}

// PushMessage is a single server→client frame on the live channel.
// Exactly one of the two event shapes is populated, selected by Event.
type PushMessage struct {
	Event   string         // "notification" or "unread-count"
	Kind    EventKind      // set when Event == "notification"
	Payload map[string]any // set when Event == "notification"
	Count   int64          // set when Event == "unread-count"
}

// NotificationMessage builds a notification push frame.
func NotificationMessage(kind EventKind, payload map[string]any) PushMessage {
	return PushMessage{Event: "notification", Kind: kind, Payload: payload}
}

// UnreadCountMessage builds an unread-count push frame.
func UnreadCountMessage(count int64) PushMessage {
	return PushMessage{Event: "unread-count", Count: count}
}

// Notice is one notification dispatch request: push an event of Kind to all
// live connections of UserID. The durable record already exists in the store;
// the notice only drives live delivery.
type Notice struct {
	UserID  string
	Kind    EventKind
	Payload map[string]any
}

// UnreadRefresh asks the dispatcher to push an unread-count frame to UserID.
// Count, when non-nil, is a caller-supplied value that skips the store query —
// bulk paths use it to avoid N redundant count lookups.
type UnreadRefresh struct {
	UserID string
	Count  *int64
}

// UserSummary carries the display data needed to render a user without a
// second round trip (presence list, chat author line).
type UserSummary struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// ChatMessage is a chat row as read from the store. Author fields are
// denormalized at query time so polling clients never need an N+1 lookup.
type ChatMessage struct {
	ID        uuid.UUID   `json:"id"`
	RoomID    string      `json:"roomId"`
	Author    UserSummary `json:"author"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NotificationRecord is a durable notification row to be persisted by the
// store before live fan-out (batch notify path).
type NotificationRecord struct {
	UserID   string
	Category string
	Title    string
	Body     string
	Metadata map[string]any
}

// UserSelector picks the eligible user set for a batch notification run.
type UserSelector struct {
	// Category selects users opted into this notification category.
	Category string
}

// ExclusionRules filters accounts that should never appear in presence
// output: service/system roles and kiosk-mode terminals.
type ExclusionRules struct {
	Roles        []string
	ExcludeKiosk bool
}
