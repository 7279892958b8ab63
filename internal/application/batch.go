package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"vn.io.arda/realtime/internal/domain"
)

// TemplateFunc renders the durable notification record for one user in a
// batch run.
type TemplateFunc func(userID string) domain.NotificationRecord

// BatchNotifier is the entry point invoked by the external scheduler. The
// scheduler decides when; this type only knows how.
type BatchNotifier struct {
	store      domain.Store
	dispatcher *Dispatcher
}

// NewBatchNotifier creates a BatchNotifier.
func NewBatchNotifier(store domain.Store, dispatcher *Dispatcher) *BatchNotifier {
	return &BatchNotifier{store: store, dispatcher: dispatcher}
}

// RunBatch creates one durable notification per eligible user, then fans out
// unread-count refreshes to whoever is connected. Persisting the records is
// the only must-succeed step; the live fan-out is best-effort and its
// failures stay inside the dispatcher. An empty eligible set is success with
// no side effects. Returns the number of records created.
func (b *BatchNotifier) RunBatch(ctx context.Context, sel domain.UserSelector, tmpl TemplateFunc) (int64, error) {
	userIDs, err := b.store.SelectUsers(ctx, sel)
	if err != nil {
		return 0, fmt.Errorf("select batch recipients: %w", err)
	}
	if len(userIDs) == 0 {
		log.Info().Str("category", sel.Category).Msg("batch notify resolved to zero users, skipping")
		return 0, nil
	}

	records := make([]domain.NotificationRecord, 0, len(userIDs))
	for _, uid := range userIDs {
		records = append(records, tmpl(uid))
	}

	created, err := b.store.CreateNotifications(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("persist batch notifications: %w", err)
	}

	// No precomputed counts: each user's count just changed.
	refreshes := make([]domain.UnreadRefresh, 0, len(userIDs))
	for _, uid := range userIDs {
		refreshes = append(refreshes, domain.UnreadRefresh{UserID: uid})
	}
	b.dispatcher.DispatchBulk(ctx, nil, refreshes)

	log.Info().
		Str("category", sel.Category).
		Int("recipients", len(userIDs)).
		Int64("created", created).
		Msg("batch notify completed")

	return created, nil
}
