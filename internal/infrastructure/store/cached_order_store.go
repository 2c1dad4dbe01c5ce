package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

// Cache is a string key/value cache with expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const trackingCacheKey = "orders:tracking:"

// CachedOrderStore serves tracking lookups from a cache in front of another
// OrderStore. Status appends refresh the cached copy. Cache failures are
// logged and fall through to the underlying store.
type CachedOrderStore struct {
	OrderStore
	cache Cache
	ttl   time.Duration
}

func NewCachedOrderStore(next OrderStore, cache Cache, ttl time.Duration) *CachedOrderStore {
	return &CachedOrderStore{OrderStore: next, cache: cache, ttl: ttl}
}

func (s *CachedOrderStore) FindByTrackingID(ctx context.Context, trackingID string) (*order.Order, error) {
	key := trackingCacheKey + trackingID

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[Store] Cache read failed for %s: %v", trackingID, err)
	}
	if ok {
		var o order.Order
		if err := json.Unmarshal([]byte(cached), &o); err == nil {
			return &o, nil
		}
		log.Printf("[Store] Discarding unreadable cache entry for %s", trackingID)
	}

	o, err := s.OrderStore.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	s.put(ctx, o)
	return o, nil
}

func (s *CachedOrderStore) AppendStatus(ctx context.Context, id string, ev order.StatusEvent) (*order.Order, bool, error) {
	updated, appended, err := s.OrderStore.AppendStatus(ctx, id, ev)
	if err != nil {
		return nil, false, err
	}
	if appended {
		s.put(ctx, updated)
	}
	return updated, appended, nil
}

func (s *CachedOrderStore) put(ctx context.Context, o *order.Order) {
	data, err := json.Marshal(o)
	if err != nil {
		log.Printf("[Store] Failed to encode order %s for cache: %v", o.TrackingID, err)
		return
	}
	key := trackingCacheKey + o.TrackingID
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		log.Printf("[Store] Cache write failed for %s: %v; evicting", o.TrackingID, err)
		_ = s.cache.Delete(ctx, key)
	}
}
