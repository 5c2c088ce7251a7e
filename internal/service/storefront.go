package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/seed"
	"github.com/webstaxinc/agra-sweets/internal/store"
	"github.com/webstaxinc/agra-sweets/internal/util"
)

// EventPublisher receives order domain events. Publishing is best-effort.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// Storefront is the cart and order state layer over a KV store.
//
// Every mutation is a read-modify-write of a whole JSON value. mu serializes
// all operations within the process so no caller observes a half-applied
// checkout; writers in other processes are last-write-wins.
type Storefront struct {
	kv     store.KV
	data   *seed.Dataset
	events EventPublisher
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	mu sync.Mutex
}

// Option configures a Storefront
type Option func(*Storefront)

// WithEventPublisher publishes order events to p
func WithEventPublisher(p EventPublisher) Option {
	return func(s *Storefront) { s.events = p }
}

// WithClock overrides the time source used for createdAt stamps
func WithClock(now func() time.Time) Option {
	return func(s *Storefront) { s.now = now }
}

// WithIDGenerator overrides the id source for orders and products
func WithIDGenerator(newID func() string) Option {
	return func(s *Storefront) { s.newID = newID }
}

// NewStorefront creates a new storefront service
func NewStorefront(kv store.KV, data *seed.Dataset, opts ...Option) *Storefront {
	s := &Storefront{
		kv:     kv,
		data:   data,
		logger: util.GetLogger(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitializeStorage seeds the orders and products keys when they are absent.
// Existing values are never overwritten.
func (s *Storefront) InitializeStorage(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "Storefront.InitializeStorage")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := map[string]any{
		store.KeyOrders:   s.data.Orders,
		store.KeyProducts: s.data.Products,
	}

	for _, key := range []string{store.KeyOrders, store.KeyProducts} {
		_, err := s.kv.Get(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrKeyNotFound) {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := s.save(ctx, key, defaults[key]); err != nil {
			return err
		}
		s.logger.Info("Seeded store key", zap.String("key", key))
	}

	return nil
}

// load decodes key into dst. It reports false when the key is absent or the
// stored value does not parse; only backend failures are returned as errors.
func (s *Storefront) load(ctx context.Context, key string, dst any) (bool, error) {
	start := time.Now()
	raw, err := s.kv.Get(ctx, key)
	util.StoreOpLatency.WithLabelValues("get").Observe(time.Since(start).Seconds())

	if errors.Is(err, store.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		util.MalformedStoreValuesTotal.WithLabelValues(key).Inc()
		s.logger.Warn("Malformed store value, using default",
			zap.String("key", key),
			zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *Storefront) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	start := time.Now()
	err = s.kv.Set(ctx, key, raw)
	util.StoreOpLatency.WithLabelValues("set").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Communities returns the read-only community catalog
func (s *Storefront) Communities() []models.Community {
	out := make([]models.Community, len(s.data.Communities))
	copy(out, s.data.Communities)
	return out
}

// Community looks up a community by id
func (s *Storefront) Community(id string) (*models.Community, error) {
	c, ok := s.data.FindCommunity(id)
	if !ok {
		return nil, fmt.Errorf("%w: community %s", ErrNotFound, id)
	}
	return &c, nil
}
