// Package redis provides Redis-backed implementations of the persistence and
// broadcasting ports so the service can run with multiple replicas.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/deskhand-io/deskhand/pkg/domain"
)

// Far enough in the future to keep non-expiring entries in the index.
const noExpiryScore = 4102444800 // 2100-01-01

// ConversationStore implements ports.ConversationStore on Redis. Snapshots
// are stored as JSON values, with a ZSET index keyed by expiry for listing.
type ConversationStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*ConversationStore)

// WithTTL sets the expiration for stored conversations. Zero means no
// expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *ConversationStore) { s.ttl = ttl }
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *ConversationStore) { s.prefix = prefix }
}

// NewConversationStore creates a store on an existing client.
func NewConversationStore(client *backend.Client, opts ...Option) *ConversationStore {
	s := &ConversationStore{
		client: client,
		prefix: "deskhand:conversation:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ConversationStore) key(id string) string { return s.prefix + id }
func (s *ConversationStore) indexKey() string     { return s.prefix + "index" }

// Save persists the conversation snapshot and updates the index.
func (s *ConversationStore) Save(ctx context.Context, conv *domain.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = noExpiryScore
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(conv.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: conv.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save to redis: %w", err)
	}
	return nil
}

// Load retrieves a conversation snapshot.
func (s *ConversationStore) Load(ctx context.Context, id string) (*domain.Conversation, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("get from redis: %w", err)
	}

	var conv domain.Conversation
	if err := json.Unmarshal([]byte(val), &conv); err != nil {
		return nil, fmt.Errorf("unmarshal conversation: %w", err)
	}
	return &conv, nil
}

// Delete removes the conversation and its index entry.
func (s *ConversationStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns active conversation IDs, pruning expired index entries first.
func (s *ConversationStore) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("prune expired conversations: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return ids, nil
}

// Close closes the underlying client.
func (s *ConversationStore) Close() error {
	return s.client.Close()
}
