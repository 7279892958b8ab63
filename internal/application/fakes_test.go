package application_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"vn.io.arda/realtime/internal/domain"
)

// fakeStore is an in-memory domain.Store with per-call error injection.
type fakeStore struct {
	mu sync.Mutex

	unreadCounts map[string]int64
	countErr     error
	countCalls   int

	createdRecords []domain.NotificationRecord
	createErr      error

	selectedUsers []string
	selectErr     error

	messageTimes map[uuid.UUID]time.Time
	messages     []*domain.ChatMessage
	fetchErr     error
	fetchCalls   int
	lastSince    *time.Time
	lastLimit    int

	displayable []domain.UserSummary
	filterErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		unreadCounts: make(map[string]int64),
		messageTimes: make(map[uuid.UUID]time.Time),
	}
}

func (s *fakeStore) CountUnread(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCalls++
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.unreadCounts[userID], nil
}

func (s *fakeStore) CreateNotifications(_ context.Context, records []domain.NotificationRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.createdRecords = append(s.createdRecords, records...)
	return int64(len(records)), nil
}

func (s *fakeStore) SelectUsers(_ context.Context, _ domain.UserSelector) ([]string, error) {
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	return s.selectedUsers, nil
}

func (s *fakeStore) ResolveMessageTimestamp(_ context.Context, id uuid.UUID) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.messageTimes[id]
	if !ok {
		return time.Time{}, domain.ErrNotFound
	}
	return ts, nil
}

func (s *fakeStore) FetchMessagesSince(_ context.Context, _ string, since *time.Time, limit int) ([]*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++
	s.lastSince = since
	s.lastLimit = limit
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	var out []*domain.ChatMessage
	for _, m := range s.messages {
		if since == nil || m.CreatedAt.After(*since) {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) FilterDisplayableUsers(_ context.Context, _ []string, _ domain.ExclusionRules) ([]domain.UserSummary, error) {
	if s.filterErr != nil {
		return nil, s.filterErr
	}
	return s.displayable, nil
}

// fakePusher records pushed frames per handle, in arrival order.
type fakePusher struct {
	mu     sync.Mutex
	frames map[string][]domain.PushMessage
	failOn map[string]bool // handles whose pushes fail
}

func newFakePusher() *fakePusher {
	return &fakePusher{
		frames: make(map[string][]domain.PushMessage),
		failOn: make(map[string]bool),
	}
}

func (p *fakePusher) Push(handle string, msg domain.PushMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOn[handle] {
		return domain.ErrDeliveryFailed
	}
	p.frames[handle] = append(p.frames[handle], msg)
	return nil
}

func (p *fakePusher) framesFor(handle string) []domain.PushMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PushMessage(nil), p.frames[handle]...)
}

func (p *fakePusher) totalFrames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, f := range p.frames {
		n += len(f)
	}
	return n
}
