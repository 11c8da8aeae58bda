package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent.
var ErrMiss = errors.New("platform/cache: miss")

// JSONStore stores JSON encoded values under a key prefix.
type JSONStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewJSONStore builds a store. A non-positive ttl keeps entries until deleted.
func NewJSONStore(client redis.UniversalClient, prefix string, ttl time.Duration) *JSONStore {
	return &JSONStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *JSONStore) key(id string) string {
	return s.prefix + ":" + id
}

// Get decodes the value stored under id into dst.
func (s *JSONStore) Get(ctx context.Context, id string, dst any) error {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("platform/cache: get %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("platform/cache: decode %s: %w", id, err)
	}
	return nil
}

// Set encodes value and stores it under id.
func (s *JSONStore) Set(ctx context.Context, id string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("platform/cache: encode %s: %w", id, err)
	}
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("platform/cache: set %s: %w", id, err)
	}
	return nil
}

// Delete removes id. Missing keys are not an error.
func (s *JSONStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("platform/cache: delete %s: %w", id, err)
	}
	return nil
}
