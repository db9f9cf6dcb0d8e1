package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dresses/storefront/internal/catalog"
	"dresses/storefront/internal/domain"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// CatalogCache keeps the fetched catalog in Redis so that every shopper
// session entering the catalog does not hit the upstream source.
type CatalogCache struct {
	redisClient *redis.Client
	source      catalog.Source
	key         string
	ttl         time.Duration
}

func NewCatalogCache(redisClient *redis.Client, source catalog.Source, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		redisClient: redisClient,
		source:      source,
		key:         "storefront:catalog:dresses",
		ttl:         ttl,
	}
}

// FetchDresses serves from Redis when possible. Redis failures fall through to the source.
func (c *CatalogCache) FetchDresses(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := c.get(ctx)
	switch {
	case err == nil:
		log.Debugf("Catalog served from cache (%d items)", len(items))
		return items, nil
	case errors.Is(err, redis.Nil):
		// miss
	default:
		log.Warnf("⚠️ Catalog cache read failed, falling back to source: %v", err)
	}

	items, err = c.source.FetchDresses(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, items); err != nil {
		log.Warnf("⚠️ Failed to cache catalog: %v", err)
	}
	return items, nil
}

func (c *CatalogCache) get(ctx context.Context) ([]domain.CatalogItem, error) {
	val, err := c.redisClient.Get(ctx, c.key).Result()
	if err != nil {
		return nil, err
	}

	var doc domain.CatalogDocument
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode cached catalog: %w", err)
	}
	return doc.Dresses, nil
}

func (c *CatalogCache) set(ctx context.Context, items []domain.CatalogItem) error {
	data, err := json.Marshal(domain.CatalogDocument{Dresses: items})
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := c.redisClient.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}
