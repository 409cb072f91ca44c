package event

import (
	"context"
	"log/slog"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/pkg/kafka"
	"github.com/dylanS0811/product-review-platform/pkg/logger"
)

// Topic names for catalog events.
const (
	TopicReviewCreated        = "review.created"
	TopicReviewUpdated        = "review.updated"
	TopicReviewDeleted        = "review.deleted"
	TopicProductRatingUpdated = "product.rating_updated"
)

const source = "catalog-service"

// Publisher emits catalog events to Kafka. All publishing is best effort:
// the API response never waits on a broker, so failures are logged and
// dropped rather than surfaced to the caller.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher creates a catalog event publisher.
func NewPublisher(producer *kafka.Producer, log *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: log}
}

// ReviewDeletedPayload is the body of review.deleted events; the other
// review topics carry the full review.
type ReviewDeletedPayload struct {
	ProductID string `json:"productId"`
	ReviewID  int64  `json:"reviewId"`
}

// RatingUpdatedPayload is the body of product.rating_updated events. A nil
// AverageRating means the product has no reviews.
type RatingUpdatedPayload struct {
	ProductID     string   `json:"productId"`
	AverageRating *float64 `json:"averageRating"`
}

// ReviewCreated publishes a review.created event.
func (p *Publisher) ReviewCreated(ctx context.Context, review *domain.Review) {
	p.publish(ctx, TopicReviewCreated, review.ProductID, review)
}

// ReviewUpdated publishes a review.updated event.
func (p *Publisher) ReviewUpdated(ctx context.Context, review *domain.Review) {
	p.publish(ctx, TopicReviewUpdated, review.ProductID, review)
}

// ReviewDeleted publishes a review.deleted event.
func (p *Publisher) ReviewDeleted(ctx context.Context, productID string, reviewID int64) {
	p.publish(ctx, TopicReviewDeleted, productID, ReviewDeletedPayload{
		ProductID: productID,
		ReviewID:  reviewID,
	})
}

// RatingUpdated publishes a product.rating_updated event.
func (p *Publisher) RatingUpdated(ctx context.Context, productID string, averageRating *float64) {
	p.publish(ctx, TopicProductRatingUpdated, productID, RatingUpdatedPayload{
		ProductID:     productID,
		AverageRating: averageRating,
	})
}

func (p *Publisher) publish(ctx context.Context, topic, aggregateID string, payload any) {
	if p == nil || p.producer == nil {
		return
	}

	evt, err := kafka.NewEvent(topic, aggregateID, "product", source, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
		return
	}
	evt.CorrelationID = logger.CorrelationIDFromContext(ctx)

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
	}
}
