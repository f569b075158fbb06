package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhand-io/deskhand/internal/adapters/redis"
	"github.com/deskhand-io/deskhand/pkg/domain"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConversationStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewConversationStore(client)
	ports.RunConversationStoreContract(t, store)
}

func TestConversationStore_TTL(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewConversationStore(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	conv := domain.NewConversation("ttl-conv", time.Now())
	require.NoError(t, store.Save(ctx, conv))

	ttl := mr.TTL("deskhand:conversation:ttl-conv")
	assert.Equal(t, time.Minute, ttl)

	// Key carries the TTL; after expiry the snapshot is gone.
	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "ttl-conv")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestLocker_LockUnlock(t *testing.T) {
	mr, client := newTestClient(t)
	locker := redis.NewLocker(client, "deskhand:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "conv-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("deskhand:lock:conv-1"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("deskhand:lock:conv-1"))
}

func TestLocker_Contention(t *testing.T) {
	mr, client := newTestClient(t)
	locker := redis.NewLocker(client, "deskhand:")
	ctx := context.Background()

	unlock1, err := locker.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	ctxTimeout, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctxTimeout, "shared", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock1(ctx))

	unlock2, err := locker.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	defer unlock2(ctx)
	assert.True(t, mr.Exists("deskhand:lock:shared"))
}

func TestBroadcaster_PublishSubscribe(t *testing.T) {
	_, client := newTestClient(t)
	b := redis.NewBroadcaster(client, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.Subscribe(ctx, "conv-42")
	require.NoError(t, err)

	sent := domain.Event{
		Type:           domain.EventTyping,
		ConversationID: "conv-42",
		Timestamp:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, b.Publish(ctx, "conv-42", sent))

	select {
	case got := <-events:
		assert.Equal(t, domain.EventTyping, got.Type)
		assert.Equal(t, "conv-42", got.ConversationID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
