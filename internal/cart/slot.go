package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrSlotMiss reports that no cart has been persisted under the given key.
var ErrSlotMiss = errors.New("cart: slot miss")

// Slot is the key-value surface carts are persisted to, addressed by a
// string key scoped to the owning identity. Values are JSON-serialized line
// item arrays; the slot itself imposes no schema.
type Slot interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// RedisSlot persists carts in Redis with no expiry.
type RedisSlot struct {
	client *redis.Client
}

func NewRedisSlot(client *redis.Client) *RedisSlot {
	return &RedisSlot{client: client}
}

var _ Slot = (*RedisSlot)(nil)

func (s *RedisSlot) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotMiss
	}
	return data, err
}

func (s *RedisSlot) Write(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisSlot) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MemorySlot keeps carts in process memory. It backs sessions when no Redis
// address is configured and doubles as the slot used in tests.
type MemorySlot struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{items: make(map[string][]byte)}
}

var _ Slot = (*MemorySlot)(nil)

func (s *MemorySlot) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.items[key]
	if !ok {
		return nil, ErrSlotMiss
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

func (s *MemorySlot) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.items[key] = copied
	return nil
}

func (s *MemorySlot) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
