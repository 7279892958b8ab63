package application

import (
	"context"

	"github.com/rs/zerolog/log"
	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/realtime"
)

// PresenceTracker answers "who is online" for display purposes. Presence is
// advisory UI, not a correctness signal: store failures degrade to an empty
// result with a flag instead of propagating.
type PresenceTracker struct {
	registry *realtime.Registry
	store    domain.Store
	enabled  bool
	rules    domain.ExclusionRules
}

// PresenceResult is the outcome of an OnlineUsers call. Degraded is set when
// the store lookup failed and the list is empty for that reason.
type PresenceResult struct {
	Users    []domain.UserSummary
	Enabled  bool
	Degraded bool
}

// NewPresenceTracker creates a PresenceTracker. When enabled is false the
// tracker always reports an empty, explicitly-disabled result.
func NewPresenceTracker(registry *realtime.Registry, store domain.Store, enabled bool, rules domain.ExclusionRules) *PresenceTracker {
	return &PresenceTracker{registry: registry, store: store, enabled: enabled, rules: rules}
}

// OnlineUsers computes the distinct connected users, then lets the store
// drop service/system and kiosk accounts and order the rest by display name.
// Zero live connections is a valid empty result, not a failure.
func (p *PresenceTracker) OnlineUsers(ctx context.Context) PresenceResult {
	if !p.enabled {
		return PresenceResult{Enabled: false}
	}

	seen := make(map[string]struct{})
	var userIDs []string
	for _, a := range p.registry.AllAssociations() {
		if _, ok := seen[a.UserID]; ok {
			continue
		}
		seen[a.UserID] = struct{}{}
		userIDs = append(userIDs, a.UserID)
	}

	if len(userIDs) == 0 {
		return PresenceResult{Enabled: true}
	}

	users, err := p.store.FilterDisplayableUsers(ctx, userIDs, p.rules)
	if err != nil {
		log.Warn().Err(err).Int("connected", len(userIDs)).Msg("presence filter failed, returning degraded result")
		return PresenceResult{Enabled: true, Degraded: true}
	}

	return PresenceResult{Users: users, Enabled: true}
}
