package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/eio/pkg/adapters/bufstream"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.Repository using Redis.
// Artifacts live under <prefix><model>:<kind>; the sorted set <prefix>index
// holds model names scored by their expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of every committed artifact.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
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
		prefix: "eio:model:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client returns the underlying client, e.g. to build a Locker on it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(model string, kind domain.StreamKind) string {
	return s.prefix + model + ":" + string(kind)
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) keys(model string) []string {
	kinds := append(domain.GeometryKinds(), domain.ModelDataKinds()...)
	keys := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		keys = append(keys, s.key(model, kind))
	}
	return keys
}

// Manager returns the manager of one model.
func (s *Store) Manager(ctx context.Context, model string) (ports.ModelManager, error) {
	if err := domain.ValidateModelName(model); err != nil {
		return nil, err
	}
	return &manager{store: s, model: model}, nil
}

// put stores one artifact and refreshes the model in the index.
func (s *Store) put(ctx context.Context, model string, kind domain.StreamKind, data []byte) error {
	pipe := s.client.Pipeline()

	// 0 means no expiration.
	pipe.Set(ctx, s.key(model, kind), data, s.ttl)

	// Score = Now + TTL; without TTL the model never leaves the index on its own.
	score := float64(time.Now().Add(s.ttl).UnixMilli())
	if s.ttl == 0 {
		score = 4102444800000 // 2100-01-01 in milliseconds
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: model,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, model string, kind domain.StreamKind) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(model, kind)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%s/%s: %w", model, kind, domain.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return data, nil
}

// Delete removes every artifact of a model and its index entry.
func (s *Store) Delete(ctx context.Context, model string) error {
	if err := domain.ValidateModelName(model); err != nil {
		return err
	}
	keys := s.keys(model)

	existing, err := s.client.Exists(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("failed to check model %s: %w", model, err)
	}
	if existing == 0 {
		_, err := s.client.ZScore(ctx, s.indexKey(), model).Result()
		if errors.Is(err, backend.Nil) {
			return fmt.Errorf("delete %s: %w", model, domain.ErrModelNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check model %s: %w", model, err)
		}
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, keys...)
	pipe.ZRem(ctx, s.indexKey(), model)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete model %s: %w", model, err)
	}
	return nil
}

// List returns the indexed models, pruning the ones whose artifacts expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().UnixMilli())

	// ZREMRANGEBYSCORE key -inf now
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired models: %w", err)
	}

	models, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return models, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

type manager struct {
	store *Store
	model string
}

func (m *manager) Model() string {
	return m.model
}

// OpenStream fetches a read artifact eagerly; write streams buffer locally
// and are committed with one pipeline on Close.
func (m *manager) OpenStream(ctx context.Context, kind domain.StreamKind, mode domain.Mode) (ports.Stream, error) {
	switch mode {
	case domain.ModeRead:
		data, err := m.store.get(ctx, m.model, kind)
		if err != nil {
			return nil, err
		}
		return bufstream.NewReader(kind, data), nil
	case domain.ModeWrite:
		return bufstream.NewWriter(kind, func(data []byte) error {
			return m.store.put(ctx, m.model, kind, data)
		}), nil
	default:
		return nil, fmt.Errorf("open %s: %w", kind, domain.ErrWrongMode)
	}
}
