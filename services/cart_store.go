package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wrx61527/PapuGO/models"
)

// cartTTL is how long an untouched cart survives. Every write refreshes it.
const cartTTL = 72 * time.Hour

// CartStore persists session carts keyed by the opaque session id minted at
// login. Every mutation persists immediately; there is no separate
// "mark dirty" step.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (models.RawCart, error)
	Set(ctx context.Context, sessionID string, cart models.RawCart) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisCartStore keeps each cart in a Redis hash, one field per dish id with
// the JSON-encoded entry as the value.
type RedisCartStore struct {
	client *redis.Client
}

// NewRedisCartStore creates a cart store backed by the given Redis client.
func NewRedisCartStore(client *redis.Client) *RedisCartStore {
	return &RedisCartStore{client: client}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Get returns the cart for a session. A missing cart is an empty cart.
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (models.RawCart, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: reading cart: %v", ErrStoreUnavailable, err)
	}
	cart := make(models.RawCart, len(fields))
	for dishID, raw := range fields {
		cart[dishID] = json.RawMessage(raw)
	}
	return cart, nil
}

// Set replaces the stored cart with the given one.
func (s *RedisCartStore) Set(ctx context.Context, sessionID string, cart models.RawCart) error {
	key := cartKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(cart) > 0 {
		fields := make(map[string]any, len(cart))
		for dishID, raw := range cart {
			fields[dishID] = string(raw)
		}
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, cartTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: writing cart: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Clear empties the cart entirely.
func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: clearing cart: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// MemoryCartStore is an in-process CartStore used in tests.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]models.RawCart
}

// NewMemoryCartStore creates an empty in-memory cart store.
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]models.RawCart)}
}

func (s *MemoryCartStore) Get(ctx context.Context, sessionID string) (models.RawCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := make(models.RawCart, len(s.carts[sessionID]))
	for k, v := range s.carts[sessionID] {
		cart[k] = v
	}
	return cart, nil
}

func (s *MemoryCartStore) Set(ctx context.Context, sessionID string, cart models.RawCart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make(models.RawCart, len(cart))
	for k, v := range cart {
		stored[k] = v
	}
	s.carts[sessionID] = stored
	return nil
}

func (s *MemoryCartStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
