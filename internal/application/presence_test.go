package application_test

import (
	"context"
	"testing"

	"vn.io.arda/realtime/internal/application"
	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/realtime"
)

var testRules = domain.ExclusionRules{Roles: []string{"service", "system"}, ExcludeKiosk: true}

func TestOnlineUsersEmptyRegistryIsValid(t *testing.T) {
	reg := realtime.New()
	store := newFakeStore()
	p := application.NewPresenceTracker(reg, store, true, testRules)

	res := p.OnlineUsers(context.Background())
	if !res.Enabled || res.Degraded || len(res.Users) != 0 {
		t.Fatalf("result = %+v, want enabled empty non-degraded", res)
	}
}

func TestOnlineUsersDistinctAndFiltered(t *testing.T) {
	reg := realtime.New()
	reg.Register("c1", "alice")
	reg.Register("c2", "alice")
	reg.Register("c3", "kiosk-7")
	store := newFakeStore()
	store.displayable = []domain.UserSummary{{UserID: "alice", DisplayName: "Alice"}}
	p := application.NewPresenceTracker(reg, store, true, testRules)

	res := p.OnlineUsers(context.Background())
	if res.Degraded {
		t.Fatal("unexpected degraded result")
	}
	if len(res.Users) != 1 || res.Users[0].UserID != "alice" {
		t.Fatalf("users = %+v, want [alice]", res.Users)
	}
}

func TestOnlineUsersDegradesOnStoreFailure(t *testing.T) {
	reg := realtime.New()
	reg.Register("c1", "alice")
	store := newFakeStore()
	store.filterErr = domain.ErrUpstreamUnavailable
	p := application.NewPresenceTracker(reg, store, true, testRules)

	res := p.OnlineUsers(context.Background())
	if !res.Degraded {
		t.Fatal("expected degraded result on store failure")
	}
	if len(res.Users) != 0 {
		t.Fatalf("users = %+v, want empty", res.Users)
	}
}

func TestOnlineUsersDisabledByConfig(t *testing.T) {
	reg := realtime.New()
	reg.Register("c1", "alice")
	p := application.NewPresenceTracker(reg, newFakeStore(), false, testRules)

	res := p.OnlineUsers(context.Background())
	if res.Enabled {
		t.Fatal("presence reported enabled while disabled by config")
	}
	if len(res.Users) != 0 {
		t.Fatalf("users = %+v, want empty when disabled", res.Users)
	}
}
