package service

import (
	"context"
	"log/slog"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/internal/repository"
)

// EventPublisher emits catalog events after successful mutations. All
// methods are fire-and-forget; implementations must not block the caller
// on broker availability.
type EventPublisher interface {
	ReviewCreated(ctx context.Context, review *domain.Review)
	ReviewUpdated(ctx context.Context, review *domain.Review)
	ReviewDeleted(ctx context.Context, productID string, reviewID int64)
	RatingUpdated(ctx context.Context, productID string, averageRating *float64)
}

// RatingAggregator keeps each product's stored average rating consistent
// with its review rows. Recompute derives the aggregate from the reviews
// table in one statement, so a crash between a review write and the
// recompute can never persist a half-applied average.
type RatingAggregator struct {
	products repository.ProductRepository
	events   EventPublisher
	logger   *slog.Logger
}

// NewRatingAggregator creates a new rating aggregator.
func NewRatingAggregator(products repository.ProductRepository, events EventPublisher, logger *slog.Logger) *RatingAggregator {
	return &RatingAggregator{products: products, events: events, logger: logger}
}

// Recompute recalculates and stores the product's average rating, then
// announces the new value. The returned average is nil when the product has
// no reviews or no longer exists.
func (a *RatingAggregator) Recompute(ctx context.Context, productID string) (*float64, error) {
	avg, err := a.products.RecomputeAverageRating(ctx, productID)
	if err != nil {
		return nil, err
	}

	if avg != nil {
		a.logger.DebugContext(ctx, "average rating recomputed",
			slog.String("product_id", productID),
			slog.Float64("average_rating", *avg),
		)
	} else {
		a.logger.DebugContext(ctx, "average rating recomputed",
			slog.String("product_id", productID),
			slog.Any("average_rating", nil),
		)
	}

	if a.events != nil {
		a.events.RatingUpdated(ctx, productID, avg)
	}

	return avg, nil
}
