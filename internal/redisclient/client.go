package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/util"

	"github.com/go-redis/redis/v8"
)

const productListKey = "products:all"

// Client is a read-through cache for catalog data. Product reads are served
// from Redis when present; every catalog write invalidates the affected keys.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// GetProduct returns the cached product, or false on a miss.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	raw, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			util.GetLogger().Warn("Redis product read failed: " + err.Error())
		}
		util.ProductCacheMisses.Inc()
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		util.ProductCacheMisses.Inc()
		return nil, false
	}

	util.ProductCacheHits.Inc()
	return &product, true
}

// SetProduct caches a product with the configured TTL.
func (c *Client) SetProduct(ctx context.Context, product *models.Product) {
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productKey(product.ID), raw, c.ttl).Err(); err != nil {
		util.GetLogger().Warn("Redis product write failed: " + err.Error())
	}
}

// GetProductList returns the cached catalog listing, or false on a miss.
func (c *Client) GetProductList(ctx context.Context) ([]models.Product, bool) {
	raw, err := c.rdb.Get(ctx, productListKey).Bytes()
	if err != nil {
		util.ProductCacheMisses.Inc()
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false
	}

	util.ProductCacheHits.Inc()
	return products, true
}

// SetProductList caches the catalog listing with the configured TTL.
func (c *Client) SetProductList(ctx context.Context, products []models.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productListKey, raw, c.ttl).Err(); err != nil {
		util.GetLogger().Warn("Redis product list write failed: " + err.Error())
	}
}

// InvalidateProduct drops the product's entry and the listing.
func (c *Client) InvalidateProduct(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, productKey(id), productListKey).Err(); err != nil {
		util.GetLogger().Warn("Redis invalidation failed: " + err.Error())
	}
}
