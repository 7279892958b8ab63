package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"vn.io.arda/realtime/internal/application"
	"vn.io.arda/realtime/internal/domain"
)

func seedMessages(store *fakeStore, n int) []*domain.ChatMessage {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		m := &domain.ChatMessage{
			ID:        uuid.New(),
			RoomID:    "general",
			Author:    domain.UserSummary{UserID: "alice", DisplayName: "Alice"},
			Body:      "msg",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		store.messages = append(store.messages, m)
		store.messageTimes[m.ID] = m.CreatedAt
	}
	return store.messages
}

func TestPollRequiresRoomID(t *testing.T) {
	store := newFakeStore()
	svc := application.NewPollService(store, 0)

	_, err := svc.Poll(context.Background(), "", "")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if store.fetchCalls != 0 {
		t.Fatal("store accessed despite missing roomId")
	}
}

func TestPollWithCursorReturnsStrictlyNewer(t *testing.T) {
	store := newFakeStore()
	msgs := seedMessages(store, 5)
	svc := application.NewPollService(store, 0)

	got, err := svc.Poll(context.Background(), "general", msgs[2].ID.String())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	for _, m := range got {
		if !m.CreatedAt.After(msgs[2].CreatedAt) {
			t.Fatalf("message %s not strictly newer than cursor", m.ID)
		}
	}
}

func TestPollUnknownCursorFallsBackToNoBound(t *testing.T) {
	store := newFakeStore()
	seedMessages(store, 3)
	svc := application.NewPollService(store, 0)

	got, err := svc.Poll(context.Background(), "general", uuid.NewString())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d messages, want all 3 on cursor fallback", len(got))
	}
	if store.lastSince != nil {
		t.Fatal("lower bound set for a purged cursor")
	}
}

func TestPollMalformedCursorFallsBackToNoBound(t *testing.T) {
	store := newFakeStore()
	seedMessages(store, 2)
	svc := application.NewPollService(store, 0)

	got, err := svc.Poll(context.Background(), "general", "not-a-uuid")
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
}

func TestPollAtHeadReturnsEmptyNotError(t *testing.T) {
	store := newFakeStore()
	msgs := seedMessages(store, 3)
	svc := application.NewPollService(store, 0)

	got, err := svc.Poll(context.Background(), "general", msgs[2].ID.String())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d messages at head, want 0", len(got))
	}
}

func TestPollPassesPageCap(t *testing.T) {
	store := newFakeStore()
	seedMessages(store, 10)
	svc := application.NewPollService(store, 4)

	got, err := svc.Poll(context.Background(), "general", "")
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d messages, want page cap of 4", len(got))
	}
	if store.lastLimit != 4 {
		t.Fatalf("store limit = %d, want 4", store.lastLimit)
	}
}

func TestPollStoreFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = domain.ErrUpstreamUnavailable
	svc := application.NewPollService(store, 0)

	_, err := svc.Poll(context.Background(), "general", "")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}
