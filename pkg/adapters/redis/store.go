package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/itfview/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "itfview:view:"

// farFuture is the index score of entries without TTL (2100-01-01).
const farFuture = 4102444800

// Store implements ports.PreferenceStore using Redis.
// Options are kept as JSON strings; a sorted set indexes view IDs by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Store)

// WithTTL sets the expiration for stored views.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored views.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock overrides the clock used to score and prune the index.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
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
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(viewID string) string {
	return s.prefix + viewID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the options to Redis.
func (s *Store) Save(ctx context.Context, viewID string, opts domain.DisplayOptions) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	score := float64(farFuture)
	if s.ttl > 0 {
		score = float64(s.now().Add(s.ttl).Unix())
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(viewID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: viewID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the options from Redis.
func (s *Store) Load(ctx context.Context, viewID string) (domain.DisplayOptions, error) {
	val, err := s.client.Get(ctx, s.key(viewID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.DisplayOptions{}, domain.ErrViewNotFound
		}
		return domain.DisplayOptions{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var opts domain.DisplayOptions
	if err := json.Unmarshal(val, &opts); err != nil {
		return domain.DisplayOptions{}, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	return opts, nil
}

// Delete removes the view.
func (s *Store) Delete(ctx context.Context, viewID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(viewID))
	pipe.ZRem(ctx, s.indexKey(), viewID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns stored views, pruning index entries whose TTL has passed.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(s.now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired views: %w", err)
	}

	views, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	return views, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
