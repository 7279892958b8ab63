package application_test

import (
	"context"
	"errors"
	"testing"

	"vn.io.arda/realtime/internal/application"
	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/realtime"
)

func reminderTemplate(userID string) domain.NotificationRecord {
	return domain.NotificationRecord{
		UserID:   userID,
		Category: "daily-reminder",
		Title:    "Daily digest",
		Body:     "You have open items waiting.",
	}
}

func newBatchHarness() (*application.BatchNotifier, *realtime.Registry, *fakeStore, *fakePusher) {
	reg := realtime.New()
	store := newFakeStore()
	pusher := newFakePusher()
	d := application.NewDispatcher(reg, store, pusher)
	return application.NewBatchNotifier(store, d), reg, store, pusher
}

func TestRunBatchZeroUsersSucceedsWithoutSideEffects(t *testing.T) {
	b, _, store, pusher := newBatchHarness()

	created, err := b.RunBatch(context.Background(), domain.UserSelector{Category: "daily-reminder"}, reminderTemplate)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if created != 0 {
		t.Fatalf("created = %d, want 0", created)
	}
	if len(store.createdRecords) != 0 || pusher.totalFrames() != 0 {
		t.Fatal("side effects recorded for an empty eligible set")
	}
}

func TestRunBatchPersistsOneRecordPerUser(t *testing.T) {
	b, reg, store, pusher := newBatchHarness()
	store.selectedUsers = []string{"alice", "bob", "carol"}
	store.unreadCounts["alice"] = 2
	reg.Register("c1", "alice") // only alice is connected

	created, err := b.RunBatch(context.Background(), domain.UserSelector{Category: "daily-reminder"}, reminderTemplate)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if created != 3 || len(store.createdRecords) != 3 {
		t.Fatalf("created = %d (%d records), want 3", created, len(store.createdRecords))
	}

	frames := pusher.framesFor("c1")
	if len(frames) != 1 || frames[0].Event != "unread-count" || frames[0].Count != 2 {
		t.Fatalf("alice frames = %+v, want fresh unread-count 2", frames)
	}
	if pusher.totalFrames() != 1 {
		t.Fatalf("total frames = %d, want 1 (offline users get nothing)", pusher.totalFrames())
	}
}

func TestRunBatchDurableWriteFailureIsHard(t *testing.T) {
	b, _, store, pusher := newBatchHarness()
	store.selectedUsers = []string{"alice"}
	store.createErr = errors.New("insert failed")

	_, err := b.RunBatch(context.Background(), domain.UserSelector{Category: "daily-reminder"}, reminderTemplate)
	if err == nil {
		t.Fatal("expected hard failure when persistence fails")
	}
	if pusher.totalFrames() != 0 {
		t.Fatal("fan-out ran despite failed persistence")
	}
}

func TestRunBatchFanoutFailureIsSwallowed(t *testing.T) {
	b, reg, store, pusher := newBatchHarness()
	store.selectedUsers = []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9", "u10"}
	for i, uid := range store.selectedUsers {
		h := "h" + uid
		reg.Register(h, uid)
		if i < 3 {
			pusher.failOn[h] = true // simulate dead transports for 3 users
		}
	}

	created, err := b.RunBatch(context.Background(), domain.UserSelector{Category: "daily-reminder"}, reminderTemplate)
	if err != nil {
		t.Fatalf("RunBatch: %v, want success when only delivery fails", err)
	}
	if created != 10 {
		t.Fatalf("created = %d, want 10", created)
	}
	if pusher.totalFrames() != 7 {
		t.Fatalf("delivered frames = %d, want 7", pusher.totalFrames())
	}
}

func TestRunBatchSelectFailurePropagates(t *testing.T) {
	b, _, store, _ := newBatchHarness()
	store.selectErr = domain.ErrUpstreamUnavailable

	_, err := b.RunBatch(context.Background(), domain.UserSelector{Category: "daily-reminder"}, reminderTemplate)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}
