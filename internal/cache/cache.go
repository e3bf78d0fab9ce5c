package cache

import (
	"sync"
	"time"
)

// ============================================================================
// CACHE SERVICE - IN-MEMORY CACHING WITH TTL
// ============================================================================
// Thread-safe cache with automatic expiration. Keeps repeated Telegram taps
// (refresh spam) from burning through the DataMall rate limit.
//
// Usage:
//   cache := NewCache(30*time.Second, time.Minute)
//   cache.Set("arrivals:83139", svcs)
//   if v, found := cache.Get("arrivals:83139"); found {
//       return v.([]models.ServiceArrival)
//   }

// Item is a cached value with its expiration timestamp.
type Item struct {
	Value      interface{}
	Expiration int64 // Unix nanoseconds, 0 = never expires
}

// Cache is a thread-safe key-value store with TTL.
type Cache struct {
	items             map[string]Item
	mu                sync.RWMutex
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	stopCleanup       chan bool
}

// NewCache creates a cache with a default TTL and a periodic cleanup of
// expired items every cleanupInterval.
func NewCache(defaultExpiration, cleanupInterval time.Duration) *Cache {
	c := &Cache{
		items:             make(map[string]Item),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		stopCleanup:       make(chan bool),
	}

	go c.startCleanupTimer()

	return c
}

// Set stores a value using the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultExpiration)
}

// SetWithTTL stores a value with an explicit TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, duration time.Duration) {
	var expiration int64

	if duration > 0 {
		expiration = time.Now().Add(duration).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = Item{
		Value:      value,
		Expiration: expiration,
	}
	c.mu.Unlock()
}

// Get returns (value, true) if the key exists and has not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return nil, false
	}

	if item.Expiration > 0 && time.Now().UnixNano() > item.Expiration {
		c.Delete(key)
		return nil, false
	}

	return item.Value, true
}

// Delete removes a key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear empties the cache completely.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]Item)
	c.mu.Unlock()
}

// Count returns the number of items in the cache (expired items included).
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			delete(c.items, key)
		}
	}
}

// Stop halts the background cleanup goroutine.
func (c *Cache) Stop() {
	c.stopCleanup <- true
}

// ============================================================================
// CACHE PRESETS - PRE-CONFIGURED CACHES PER DATA KIND
// ============================================================================

var (
	// ArrivalsCache - live arrival predictions (TTL: 30 seconds)
	// Real-time data, keep it fresh
	ArrivalsCache *Cache

	// DirectionsCache - service direction listings (TTL: 10 minutes)
	// Static dataset, changes only on re-import
	DirectionsCache *Cache

	// RoutesCache - ordered route stop sequences (TTL: 10 minutes)
	RoutesCache *Cache
)

// InitCaches initializes all preset caches.
func InitCaches() {
	ArrivalsCache = NewCache(30*time.Second, 1*time.Minute)
	DirectionsCache = NewCache(10*time.Minute, 15*time.Minute)
	RoutesCache = NewCache(10*time.Minute, 15*time.Minute)
}

// StopCaches halts every preset cache.
func StopCaches() {
	if ArrivalsCache != nil {
		ArrivalsCache.Stop()
	}
	if DirectionsCache != nil {
		DirectionsCache.Stop()
	}
	if RoutesCache != nil {
		RoutesCache.Stop()
	}
}
