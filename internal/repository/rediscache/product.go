package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/internal/repository"
)

// ProductRepository is a read-through cache in front of another product
// repository. Single-product reads are served from Redis when possible;
// rating recomputes invalidate the cached entry so the stored aggregate is
// never served stale. Listing always goes to the underlying store.
type ProductRepository struct {
	inner  repository.ProductRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps inner with a Redis cache for single-product lookups.
func New(inner repository.ProductRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(productID string) string {
	return "product:" + productID
}

// GetByID returns the cached product when present, falling back to the
// underlying repository on a miss. Cache failures are logged and degrade to
// the underlying store; they never fail the request.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	key := cacheKey(id)

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var p domain.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		r.logger.WarnContext(ctx, "dropping undecodable cache entry", slog.String("key", key))
		if err := r.client.Del(ctx, key).Err(); err != nil {
			r.logger.WarnContext(ctx, "cache delete failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	} else if !errors.Is(err, redis.Nil) {
		r.logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return p, nil
}

// List delegates to the underlying repository. Filtered listings are not
// cached: invalidating every filter combination on each review write costs
// more than the query saves.
func (r *ProductRepository) List(ctx context.Context, filter repository.CatalogFilter) ([]*domain.Product, error) {
	return r.inner.List(ctx, filter)
}

// RecomputeAverageRating delegates to the underlying repository, then drops
// the cached product so the next read observes the fresh aggregate.
func (r *ProductRepository) RecomputeAverageRating(ctx context.Context, productID string) (*float64, error) {
	avg, err := r.inner.RecomputeAverageRating(ctx, productID)
	if err != nil {
		return nil, err
	}

	key := cacheKey(productID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.WarnContext(ctx, "cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return avg, nil
}
