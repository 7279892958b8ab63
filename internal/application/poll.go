package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"vn.io.arda/realtime/internal/domain"
)

// DefaultPollPageSize caps a single poll response. Polling must never turn
// into an unbounded scan against the store.
const DefaultPollPageSize = 50

// PollService serves the stateless request/response fallback for clients
// without a live channel. The client holds the cursor (last seen message ID);
// the service resolves it to a timestamp and returns strictly newer rows.
type PollService struct {
	store    domain.Store
	pageSize int
}

// NewPollService creates a PollService. pageSize <= 0 uses the default cap.
func NewPollService(store domain.Store, pageSize int) *PollService {
	if pageSize <= 0 {
		pageSize = DefaultPollPageSize
	}
	return &PollService{store: store, pageSize: pageSize}
}

// Poll returns messages in roomID newer than the message identified by
// lastMessageID, oldest-first, capped at the page size. An empty roomID is a
// client error. A cursor that no longer resolves (purged message, malformed
// ID) falls back to "no lower bound" so the client cannot get stuck; polling
// twice with the same cursor and no new messages yields an empty valid
// result.
func (s *PollService) Poll(ctx context.Context, roomID, lastMessageID string) ([]*domain.ChatMessage, error) {
	if roomID == "" {
		return nil, fmt.Errorf("roomId is required: %w", domain.ErrInvalidArgument)
	}

	var since *time.Time
	if lastMessageID != "" {
		if id, err := uuid.Parse(lastMessageID); err == nil {
			ts, err := s.store.ResolveMessageTimestamp(ctx, id)
			switch {
			case err == nil:
				since = &ts
			case errors.Is(err, domain.ErrNotFound):
				log.Debug().Str("room", roomID).Str("cursor", lastMessageID).Msg("poll cursor no longer exists, fetching without lower bound")
			default:
				return nil, fmt.Errorf("resolve poll cursor: %w", err)
			}
		} else {
			log.Debug().Str("cursor", lastMessageID).Msg("malformed poll cursor, fetching without lower bound")
		}
	}

	messages, err := s.store.FetchMessagesSince(ctx, roomID, since, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch messages for room %s: %w", roomID, err)
	}
	return messages, nil
}
