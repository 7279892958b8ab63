package application

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/realtime"
)

// Pusher writes a frame to one live connection. Implementation lives in
// transport/http (the SSE hub). A failed push means that connection is slow
// or gone; it is never retried — reconnect plus polling self-heal.
type Pusher interface {
	Push(handle string, msg domain.PushMessage) error
}

// Dispatcher delivers notification events and unread-count refreshes to all
// live connections of a target user. Delivery is best-effort: a user with no
// connections is a silent no-op (the durable record already sits in the
// store), and a per-connection failure never aborts sibling deliveries.
type Dispatcher struct {
	registry *realtime.Registry
	store    domain.Store
	pusher   Pusher
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(registry *realtime.Registry, store domain.Store, pusher Pusher) *Dispatcher {
	return &Dispatcher{registry: registry, store: store, pusher: pusher}
}

// DispatchSingle pushes a notification event to every live connection of
// userID. For "created" events the unread count is recomputed from the store
// and pushed after the notification on each connection, so a client never
// sees the counter move before the payload is fetchable.
func (d *Dispatcher) DispatchSingle(ctx context.Context, userID string, kind domain.EventKind, payload map[string]any) {
	handles := d.registry.ConnectionsFor(userID)
	if len(handles) == 0 {
		return
	}

	notice := domain.NotificationMessage(kind, payload)

	var counter *domain.PushMessage
	if kind == domain.KindCreated {
		count, err := d.store.CountUnread(ctx, userID)
		if err != nil {
			// Advisory read: deliver the notification anyway.
			log.Warn().Err(err).Str("user", userID).Msg("unread count lookup failed, skipping counter push")
		} else {
			msg := domain.UnreadCountMessage(count)
			counter = &msg
		}
	}

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(handle string) {
			defer wg.Done()
			if err := d.pusher.Push(handle, notice); err != nil {
				log.Warn().Err(err).Str("user", userID).Str("handle", handle).Msg("notification push failed")
				return
			}
			if counter != nil {
				if err := d.pusher.Push(handle, *counter); err != nil {
					log.Warn().Err(err).Str("user", userID).Str("handle", handle).Msg("unread-count push failed")
				}
			}
		}(h)
	}
	wg.Wait()
}

// DispatchUnreadCount recomputes the unread count for userID and pushes it
// to all live connections. No connections, no work.
func (d *Dispatcher) DispatchUnreadCount(ctx context.Context, userID string) {
	handles := d.registry.ConnectionsFor(userID)
	if len(handles) == 0 {
		return
	}

	count, err := d.store.CountUnread(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("unread count lookup failed")
		return
	}
	d.pushCount(userID, handles, count)
}

// DispatchBulk processes notices and refreshes concurrently; every entry is
// independent, so one user's failure cannot block or fail another's.
// Refresh entries carrying a precomputed count skip the store query.
func (d *Dispatcher) DispatchBulk(ctx context.Context, notices []domain.Notice, refreshes []domain.UnreadRefresh) {
	var wg sync.WaitGroup

	for _, n := range notices {
		wg.Add(1)
		go func(n domain.Notice) {
			defer wg.Done()
			d.DispatchSingle(ctx, n.UserID, n.Kind, n.Payload)
		}(n)
	}

	for _, r := range refreshes {
		wg.Add(1)
		go func(r domain.UnreadRefresh) {
			defer wg.Done()
			if r.Count != nil {
				if handles := d.registry.ConnectionsFor(r.UserID); len(handles) > 0 {
					d.pushCount(r.UserID, handles, *r.Count)
				}
				return
			}
			d.DispatchUnreadCount(ctx, r.UserID)
		}(r)
	}

	wg.Wait()
}

func (d *Dispatcher) pushCount(userID string, handles []string, count int64) {
	msg := domain.UnreadCountMessage(count)
	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(handle string) {
			defer wg.Done()
			if err := d.pusher.Push(handle, msg); err != nil {
				log.Warn().Err(err).Str("user", userID).Str("handle", handle).Msg("unread-count push failed")
			}
		}(h)
	}
	wg.Wait()
}
