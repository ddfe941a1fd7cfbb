package application

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/SARVESHVARADKAR123/postbox/internal/command"
	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
)

var errBoom = errors.New("boom")

// memStore is an in-memory repository.Repository.
type memStore struct {
	mu      sync.Mutex
	records map[string]domain.Message
	failIDs map[string]bool
	err     error
}

func newMemStore() *memStore {
	return &memStore{records: map[string]domain.Message{}, failIDs: map[string]bool{}}
}

func (s *memStore) ListMessages(ctx context.Context) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []domain.Message{}
	for _, m := range s.records {
		out = append(out, m)
	}
	return out, nil
}

func (s *memStore) GetMessages(ctx context.Context, id string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []domain.Message{}
	if m, ok := s.records[id]; ok {
		out = append(out, m)
	}
	return out, nil
}

func (s *memStore) PutMessage(ctx context.Context, msg *domain.Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIDs[msg.ID] {
		return false, errBoom
	}
	if _, ok := s.records[msg.ID]; ok {
		return false, nil
	}
	s.records[msg.ID] = *msg
	return true, nil
}

func (s *memStore) DeleteMessage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIDs[id] {
		return errBoom
	}
	delete(s.records, id)
	return nil
}

type published struct {
	key   string
	value []byte
}

// memBus records published envelopes and can replay them as deliveries.
type memBus struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (b *memBus) Publish(ctx context.Context, key string, value []byte) error {
	if b.err != nil {
		return b.err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, published{key: key, value: value})
	return nil
}

func (b *memBus) drain() []command.Delivery {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]command.Delivery, 0, len(b.sent))
	for _, p := range b.sent {
		out = append(out, command.Delivery{Payload: p.value})
	}
	b.sent = nil
	return out
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, id string) ([]domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, id string, msgs []domain.Message) error {
	return m.Called(ctx, id, msgs).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
