package application

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/postbox/internal/command"
	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
)

func newTestIngress(store *memStore, bus *memBus, cache Cache) *Ingress {
	svc := NewIngress(store, bus, cache, domain.DefaultLimits())
	svc.newID = func() string { return "id-1" }
	return svc
}

func TestCreateMessage_PublishesTruncatedPut(t *testing.T) {
	bus := &memBus{}
	svc := newTestIngress(newMemStore(), bus, nil)

	body, _ := json.Marshal(map[string]string{
		"from":     strings.Repeat("x", 300),
		"subject":  "hi",
		"contents": "hello",
	})

	id, err := svc.CreateMessage(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	require.Len(t, bus.sent, 1)
	assert.Equal(t, "id-1", bus.sent[0].key)

	env, ok := command.Parse(bus.sent[0].value)
	require.True(t, ok)
	put, ok := env.Command.(command.Put)
	require.True(t, ok)
	assert.Equal(t, "id-1", put.MessageID)
	assert.Len(t, put.From, 255)
	assert.Equal(t, "hi", put.Subject)
	assert.Equal(t, "hello", put.Contents)
}

func TestCreateMessage_RejectsBadBodies(t *testing.T) {
	bus := &memBus{}
	svc := newTestIngress(newMemStore(), bus, nil)

	_, err := svc.CreateMessage(context.Background(), []byte{0xc3, 0x28})
	assert.ErrorIs(t, err, domain.ErrInvalidBodyType)

	_, err = svc.CreateMessage(context.Background(), []byte(`{"from":"a"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	assert.Empty(t, bus.sent)
}

func TestCreateMessage_PublishFailure(t *testing.T) {
	bus := &memBus{err: errBoom}
	svc := newTestIngress(newMemStore(), bus, nil)

	_, err := svc.CreateMessage(context.Background(), []byte(`{"from":"a","subject":"s","contents":"c"}`))
	assert.ErrorIs(t, err, errBoom)
}

func TestDeleteMessage(t *testing.T) {
	bus := &memBus{}
	svc := newTestIngress(newMemStore(), bus, nil)

	assert.ErrorIs(t, svc.DeleteMessage(context.Background(), ""), domain.ErrInvalidMessageID)
	assert.Empty(t, bus.sent)

	require.NoError(t, svc.DeleteMessage(context.Background(), "unknown-id"))
	require.Len(t, bus.sent, 1)
	assert.Equal(t, "unknown-id", bus.sent[0].key)
	assert.JSONEq(t, `{"command":{"Delete":{"message_id":"unknown-id"}}}`, string(bus.sent[0].value))
}

func TestListMessages_ProjectsHeads(t *testing.T) {
	store := newMemStore()
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.records["m-1"] = domain.Message{ID: "m-1", From: "a", Subject: "s", Contents: "secret", Timestamp: ts}
	svc := newTestIngress(store, &memBus{}, nil)

	heads, err := svc.ListMessages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.MessageHead{{ID: "m-1", From: "a", Subject: "s", Timestamp: ts}}, heads)

	store.err = errBoom
	_, err = svc.ListMessages(context.Background())
	assert.ErrorIs(t, err, errBoom)
}

func TestListMessages_EmptyStore(t *testing.T) {
	svc := newTestIngress(newMemStore(), &memBus{}, nil)

	heads, err := svc.ListMessages(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, heads)
	assert.Empty(t, heads)
}

func TestGetMessages_CacheHit(t *testing.T) {
	store := newMemStore()
	cache := new(MockCache)
	svc := newTestIngress(store, &memBus{}, cache)

	cached := []domain.Message{{ID: "m-1", Contents: "from cache"}}
	cache.On("Get", mock.Anything, "m-1").Return(cached, nil)

	msgs, err := svc.GetMessages(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, cached, msgs)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetMessages_CacheMissPopulates(t *testing.T) {
	store := newMemStore()
	store.records["m-1"] = domain.Message{ID: "m-1", Contents: "from store"}
	cache := new(MockCache)
	svc := newTestIngress(store, &memBus{}, cache)

	cache.On("Get", mock.Anything, "m-1").Return(nil, errBoom)
	cache.On("Set", mock.Anything, "m-1", []domain.Message{store.records["m-1"]}).Return(nil)

	msgs, err := svc.GetMessages(context.Background(), "m-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "from store", msgs[0].Contents)
	cache.AssertExpectations(t)
}

func TestGetMessages_EmptyResultNotCached(t *testing.T) {
	cache := new(MockCache)
	svc := newTestIngress(newMemStore(), &memBus{}, cache)

	cache.On("Get", mock.Anything, "nope").Return(nil, errBoom)

	msgs, err := svc.GetMessages(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, msgs)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}
