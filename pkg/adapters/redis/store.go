package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/contrib/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.ContextStore using a Redis hash.
// Values are stored as JSON, so numbers come back as float64.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of the whole context hash, refreshed on every Set.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. The hash lives at prefix + "values".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "contrib:context:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key() string {
	return s.prefix + "values"
}

// Set writes the value into the hash.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal context value %q: %w", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(), key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get reads one value from the hash.
func (s *Store) Get(ctx context.Context, key string) (any, error) {
	val, err := s.client.HGet(ctx, s.key(), key).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrContextKeyNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return decode(key, val)
}

// Delete removes one key from the hash.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.HDel(ctx, s.key(), key).Err()
}

// All reads the whole hash.
func (s *Store) All(ctx context.Context) (map[string]any, error) {
	raw, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list context from redis: %w", err)
	}

	values := make(map[string]any, len(raw))
	for k, v := range raw {
		decoded, err := decode(k, v)
		if err != nil {
			return nil, err
		}
		values[k] = decoded
	}
	return values, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func decode(key, raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal context value %q: %w", key, err)
	}
	return v, nil
}
