package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/internal/repository"
	apperrors "github.com/dylanS0811/product-review-platform/pkg/errors"
)

// ReviewService manages the review lifecycle for products. Every mutation
// holds the product's lock across the write and the rating recompute, so
// concurrent reviews of the same product serialize and the stored average
// always reflects the full set of review rows.
type ReviewService struct {
	reviews    repository.ReviewRepository
	aggregator *RatingAggregator
	events     EventPublisher
	locks      *keyedMutex
	logger     *slog.Logger
	now        func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, aggregator *RatingAggregator, events EventPublisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		aggregator: aggregator,
		events:     events,
		locks:      newKeyedMutex(),
		logger:     logger,
		now:        time.Now,
	}
}

func validateReviewInput(productID, author string, rating int, comment string) error {
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if strings.TrimSpace(author) == "" {
		return apperrors.InvalidInput("author is required")
	}
	if !domain.IsValidRating(rating) {
		return apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if strings.TrimSpace(comment) == "" {
		return apperrors.InvalidInput("comment is required")
	}
	return nil
}

// ListReviews returns all reviews for a product, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]*domain.Review, error) {
	return s.reviews.ListByProductID(ctx, productID)
}

// CreateReview stores a new review stamped with the current time and
// refreshes the product's average rating before returning.
func (s *ReviewService) CreateReview(ctx context.Context, productID, author string, rating int, comment string) (*domain.Review, error) {
	if err := validateReviewInput(productID, author, rating, comment); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(productID)
	defer unlock()

	review := &domain.Review{
		ProductID: productID,
		Author:    author,
		Rating:    rating,
		Comment:   comment,
		Date:      s.now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if _, err := s.aggregator.Recompute(ctx, productID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("product_id", productID),
		slog.Int64("review_id", review.ID),
	)

	if s.events != nil {
		s.events.ReviewCreated(ctx, review)
	}

	return review, nil
}

// UpdateReview modifies a review's author, rating, and comment, keeping its
// original date, and refreshes the product's average rating. When the review
// does not exist the update is a no-op: the rating is still recomputed and
// the submitted values are echoed back with no date, mirroring what a
// matched update would have returned.
func (s *ReviewService) UpdateReview(ctx context.Context, productID string, reviewID int64, author string, rating int, comment string) (*domain.Review, error) {
	if err := validateReviewInput(productID, author, rating, comment); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(productID)
	defer unlock()

	review, err := s.reviews.Update(ctx, productID, reviewID, author, rating, comment)
	if err != nil {
		return nil, err
	}

	if _, err := s.aggregator.Recompute(ctx, productID); err != nil {
		return nil, err
	}

	if review == nil {
		s.logger.InfoContext(ctx, "review update matched no rows",
			slog.String("product_id", productID),
			slog.Int64("review_id", reviewID),
		)
		return &domain.Review{
			ID:        reviewID,
			ProductID: productID,
			Author:    author,
			Rating:    rating,
			Comment:   comment,
		}, nil
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("product_id", productID),
		slog.Int64("review_id", review.ID),
	)

	if s.events != nil {
		s.events.ReviewUpdated(ctx, review)
	}

	return review, nil
}

// DeleteReview removes a review and refreshes the product's average rating.
// Deleting a review that does not exist succeeds; the recompute still runs.
func (s *ReviewService) DeleteReview(ctx context.Context, productID string, reviewID int64) error {
	unlock := s.locks.Lock(productID)
	defer unlock()

	if err := s.reviews.Delete(ctx, productID, reviewID); err != nil {
		return err
	}

	if _, err := s.aggregator.Recompute(ctx, productID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("product_id", productID),
		slog.Int64("review_id", reviewID),
	)

	if s.events != nil {
		s.events.ReviewDeleted(ctx, productID, reviewID)
	}

	return nil
}
