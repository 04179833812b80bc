package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched catalog stays fresh.
const DefaultTTL = time.Hour

// Cache keeps the last fetched catalog for a TTL. Concurrent misses share a
// single fetch. A Cache is safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	models    []Model
	fetchedAt time.Time
}

// NewCache wraps f. A ttl <= 0 selects DefaultTTL; a nil logger discards.
func NewCache(f Fetcher, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = discard
	}

	return &Cache{
		fetcher: f,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Models returns the cached catalog, fetching it when empty or stale. The
// returned slice is a copy.
func (c *Cache) Models(ctx context.Context) ([]Model, error) {
	if models, ok := c.fresh(); ok {
		return models, nil
	}

	v, err, shared := c.group.Do("models", func() (any, error) {
		if models, ok := c.fresh(); ok {
			return models, nil
		}

		models, err := c.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.models = slices.Clone(models)
		c.fetchedAt = c.now()
		c.mu.Unlock()

		return models, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "catalog fetch failed", "error", err)
		return nil, err
	}

	if shared {
		c.logger.DebugContext(ctx, "catalog fetch shared")
	}

	return slices.Clone(v.([]Model)), nil
}

// Invalidate drops the cached catalog; the next Models call fetches again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.models = nil
	c.fetchedAt = time.Time{}
}

func (c *Cache) fresh() ([]Model, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.fetchedAt.IsZero() || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}

	return slices.Clone(c.models), true
}
