package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/redis"
)

// cacheStore is the slice of the redis client used for listings.
type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(category string) string
}

type listingCache struct {
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// get returns ok=false on a miss or any cache error; listing falls back to the database.
func (c *listingCache) get(ctx context.Context, category enums.ProductCategory) ([]Product, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	raw, err := c.store.Get(ctx, c.store.CatalogKey(string(category)))
	if err != nil {
		if !redis.IsMiss(err) {
			c.warn(ctx, category, "catalog.cache_read_failed", err)
		}
		return nil, false
	}
	var products []Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		c.warn(ctx, category, "catalog.cache_decode_failed", err)
		return nil, false
	}
	return products, true
}

func (c *listingCache) put(ctx context.Context, category enums.ProductCategory, products []Product) {
	if c == nil || c.store == nil || c.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, c.store.CatalogKey(string(category)), payload, c.ttl); err != nil {
		c.warn(ctx, category, "catalog.cache_write_failed", err)
	}
}

func (c *listingCache) warn(ctx context.Context, category enums.ProductCategory, msg string, err error) {
	if c.logg == nil {
		return
	}
	logCtx := c.logg.WithFields(ctx, map[string]any{"category": category, "error": err.Error()})
	c.logg.Warn(logCtx, msg)
}
