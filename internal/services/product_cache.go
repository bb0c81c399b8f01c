package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/repository"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

// ProductCache is a read-through cache over the product catalog. Concurrent
// misses for the same product collapse into one repository read.
type ProductCache struct {
	repo  repository.ProductRepository
	rdb   *redis.Client
	group singleflight.Group
	ttl   time.Duration
}

func NewProductCache(repo repository.ProductRepository, rdb *redis.Client) *ProductCache {
	return &ProductCache{
		repo: repo,
		rdb:  rdb,
		ttl:  time.Minute,
	}
}

func productCacheKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductCache) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	key := productCacheKey(id)

	if c.rdb != nil {
		if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		p, err := c.repo.FindByID(id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrProductNotFound
		}
		if c.rdb != nil {
			if data, err := json.Marshal(p); err == nil {
				c.rdb.Set(ctx, key, data, c.ttl)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// Invalidate drops the cached row after a stock write.
func (c *ProductCache) Invalidate(ctx context.Context, id uint64) {
	if c.rdb != nil {
		c.rdb.Del(ctx, productCacheKey(id))
	}
}
