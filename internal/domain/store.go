package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the port to the portal's relational store. The core never owns
// durable state; everything behind this interface belongs to the portal
// schema and its own transaction discipline. Implementation lives in
// infrastructure/postgres.
type Store interface {
	// CountUnread returns the number of not-yet-read notifications for a
	// user. Always freshly derived, never cached by the core.
	CountUnread(ctx context.Context, userID string) (int64, error)

	// CreateNotifications inserts durable notification rows in a single
	// operation and returns the inserted count.
	CreateNotifications(ctx context.Context, records []NotificationRecord) (int64, error)

	// SelectUsers resolves a selector to user IDs (batch notify targeting).
	SelectUsers(ctx context.Context, sel UserSelector) ([]string, error)

	// ResolveMessageTimestamp maps a chat message ID to its createdAt.
	// Returns ErrNotFound when the message no longer exists.
	ResolveMessageTimestamp(ctx context.Context, messageID uuid.UUID) (time.Time, error)

	// FetchMessagesSince returns room messages with createdAt strictly after
	// since (or the most recent page when since is nil), oldest-first,
	// capped at limit.
	FetchMessagesSince(ctx context.Context, roomID string, since *time.Time, limit int) ([]*ChatMessage, error)

	// FilterDisplayableUsers drops accounts matching the exclusion rules and
	// enriches the remainder with display data, ordered by display name.
	FilterDisplayableUsers(ctx context.Context, userIDs []string, rules ExclusionRules) ([]UserSummary, error)
}
