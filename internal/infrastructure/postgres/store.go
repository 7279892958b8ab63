package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"vn.io.arda/realtime/internal/domain"
)

// Store is the PostgreSQL implementation of domain.Store. It reads and
// writes the portal schema (notifications, chat_messages, users,
// notification_prefs) owned by the portal's CRUD services.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new postgres Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CountUnread returns the count of unread notifications for a user.
func (s *Store) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %v: %w", err, domain.ErrUpstreamUnavailable)
	}
	return count, nil
}

// CreateNotifications inserts all records in a single multi-VALUES statement
// and returns the inserted count.
func (s *Store) CreateNotifications(ctx context.Context, records []domain.NotificationRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	// Each row has 5 params: user_id, category, title, body, metadata.
	const paramsPerRow = 5
	args := make([]any, 0, len(records)*paramsPerRow)
	valuesClauses := make([]string, 0, len(records))

	for i, rec := range records {
		base := i * paramsPerRow
		metaJSON, _ := json.Marshal(rec.Metadata)

		valuesClauses = append(valuesClauses, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5,
		))
		args = append(args, rec.UserID, rec.Category, rec.Title, rec.Body, metaJSON)
	}

	query := "INSERT INTO notifications (user_id, category, title, body, metadata) VALUES " +
		joinStrings(valuesClauses, ",")

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("batch insert notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SelectUsers returns the IDs of active users opted into the selector's
// notification category.
func (s *Store) SelectUsers(ctx context.Context, sel domain.UserSelector) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.id
		FROM users u
		JOIN notification_prefs p ON p.user_id = u.id
		WHERE p.category = $1 AND p.opted_in = TRUE AND u.active = TRUE
	`, sel.Category)
	if err != nil {
		return nil, fmt.Errorf("select users for category %s: %w", sel.Category, err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

// ResolveMessageTimestamp maps a chat message ID to its createdAt.
func (s *Store) ResolveMessageTimestamp(ctx context.Context, messageID uuid.UUID) (time.Time, error) {
	var ts time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT created_at FROM chat_messages WHERE id = $1`, messageID,
	).Scan(&ts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, domain.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("resolve message timestamp: %w", err)
	}
	return ts, nil
}

// FetchMessagesSince returns room messages strictly newer than since,
// oldest-first, capped at limit. With no bound it returns the most recent
// page, still presented oldest-first. Author display data is joined in so
// the client never needs a second lookup.
func (s *Store) FetchMessagesSince(ctx context.Context, roomID string, since *time.Time, limit int) ([]*domain.ChatMessage, error) {
	const selectCols = `
		SELECT m.id, m.room_id, m.body, m.created_at,
		       u.id, u.display_name, COALESCE(u.avatar_url, '')
		FROM chat_messages m
		JOIN users u ON u.id = m.author_id
	`

	var rows pgx.Rows
	var err error
	if since != nil {
		rows, err = s.pool.Query(ctx, selectCols+`
			WHERE m.room_id = $1 AND m.created_at > $2
			ORDER BY m.created_at ASC
			LIMIT $3
		`, roomID, *since, limit)
	} else {
		// Newest page first, then flipped below to oldest-first.
		rows, err = s.pool.Query(ctx, selectCols+`
			WHERE m.room_id = $1
			ORDER BY m.created_at DESC
			LIMIT $2
		`, roomID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.Body, &m.CreatedAt,
			&m.Author.UserID, &m.Author.DisplayName, &m.Author.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	if since == nil {
		reverse(messages)
	}
	return messages, nil
}

// FilterDisplayableUsers drops excluded accounts and enriches the rest with
// display data, ordered by display name.
func (s *Store) FilterDisplayableUsers(ctx context.Context, userIDs []string, rules domain.ExclusionRules) ([]domain.UserSummary, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT u.id, u.display_name, COALESCE(u.avatar_url, '')
		FROM users u
		WHERE u.id = ANY($1)
	`
	args := []any{userIDs}
	paramIdx := 2

	if len(rules.Roles) > 0 {
		query += fmt.Sprintf(" AND NOT (u.role = ANY($%d))", paramIdx)
		args = append(args, rules.Roles)
		paramIdx++
	}
	if rules.ExcludeKiosk {
		query += " AND u.kiosk_mode = FALSE"
	}
	query += " ORDER BY u.display_name ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter displayable users: %v: %w", err, domain.ErrUpstreamUnavailable)
	}
	defer rows.Close()

	var users []domain.UserSummary
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.UserID, &u.DisplayName, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func reverse(msgs []*domain.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}

// joinStrings joins a slice of strings with a separator (avoids importing strings package).
func joinStrings(parts []string, sep string) string {
	if len(parts) == 0 {
		return ""
	}
	result := parts[0]
	for _, p := range parts[1:] {
		result += sep + p
	}
	return result
}
