package services

import (
	"abadas_server/config"
	"abadas_server/structs"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

const (
	trendingKey       = "trending:product_ids"
	categoryCountsKey = "categories:product_counts"
	categoryCountsTTL = 5 * time.Minute
)

// CacheService wraps the shared Redis client. Every method degrades
// gracefully: a cache failure is logged and treated as a miss, never
// surfaced to the caller.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(),
	}
}

func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Address,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,

			PoolSize:     cfg.Cache.PoolSize,
			MinIdleConns: cfg.Cache.MinIdleConns,

			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,
		})
	})
	return redisClient
}

func (cs *CacheService) Close() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}

func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.client.Ping(ctx).Err()
}

// GetTrendingIDs returns the cached trending ranking, reporting a miss on
// any error or absent key.
func (cs *CacheService) GetTrendingIDs(ctx context.Context) ([]int64, bool) {
	val, err := cs.client.Get(ctx, trendingKey).Result()
	if err != nil {
		if err != redis.Nil {
			cs.logger.Warn("Trending cache read failed", gecho.Field("error", err))
		}
		return nil, false
	}

	var ids []int64
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		cs.logger.Warn("Trending cache held invalid payload, dropping it",
			gecho.Field("error", err))
		_ = cs.client.Del(ctx, trendingKey).Err()
		return nil, false
	}
	return ids, true
}

// SetTrendingIDs stores a computed ranking for the configured TTL.
func (cs *CacheService) SetTrendingIDs(ctx context.Context, ids []int64) {
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}

	ttl := cs.config.Cache.TrendingTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if err := cs.client.Set(ctx, trendingKey, data, ttl).Err(); err != nil {
		cs.logger.Warn("Trending cache write failed", gecho.Field("error", err))
	}
}

// InvalidateTrending drops the cached ranking. Called when an order is
// confirmed so the next storefront load sees fresh counts sooner.
func (cs *CacheService) InvalidateTrending(ctx context.Context) {
	if err := cs.client.Del(ctx, trendingKey).Err(); err != nil && err != redis.Nil {
		cs.logger.Warn("Trending cache invalidation failed", gecho.Field("error", err))
	}
}

// GetCategoryCounts returns the cached per-category product counts.
func (cs *CacheService) GetCategoryCounts(ctx context.Context) (map[string]int, bool) {
	val, err := cs.client.Get(ctx, categoryCountsKey).Result()
	if err != nil {
		if err != redis.Nil {
			cs.logger.Warn("Category count cache read failed", gecho.Field("error", err))
		}
		return nil, false
	}

	var counts map[string]int
	if err := json.Unmarshal([]byte(val), &counts); err != nil {
		_ = cs.client.Del(ctx, categoryCountsKey).Err()
		return nil, false
	}
	return counts, true
}

func (cs *CacheService) SetCategoryCounts(ctx context.Context, counts map[string]int) {
	data, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := cs.client.Set(ctx, categoryCountsKey, data, categoryCountsTTL).Err(); err != nil {
		cs.logger.Warn("Category count cache write failed", gecho.Field("error", err))
	}
}

// IncrementRateLimit atomically bumps the request counter for an
// ip/endpoint pair, starting the window on first increment.
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error) {
	key := "ratelimit:" + ip + ":" + endpoint

	count, err := cs.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := cs.client.Expire(ctx, key, window).Err(); err != nil {
			return int(count), err
		}
	}
	return int(count), nil
}

// InvalidateCatalog drops the caches derived from catalog contents, called
// after admin product or category writes.
func (cs *CacheService) InvalidateCatalog(ctx context.Context) {
	for _, key := range []string{categoryCountsKey, trendingKey} {
		if err := cs.client.Del(ctx, key).Err(); err != nil && err != redis.Nil {
			cs.logger.Warn("Catalog cache invalidation failed",
				gecho.Field("key", key), gecho.Field("error", err))
		}
	}
}
