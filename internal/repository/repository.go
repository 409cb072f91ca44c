package repository

import (
	"context"

	"github.com/dylanS0811/product-review-platform/internal/domain"
)

// CatalogFilter defines the query surface for product listings. Both criteria
// are conjunctive: a product must match the category (when set and not "All")
// AND contain the search text in its name (case-insensitive) to pass.
type CatalogFilter struct {
	Category string
	Search   string
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the filter, newest dateAdded first.
	List(ctx context.Context, filter CatalogFilter) ([]*domain.Product, error)

	// RecomputeAverageRating recalculates the product's average rating from
	// its current reviews in a single atomic statement and writes the result
	// into the product row. It returns the new average, nil when the product
	// has no reviews, and (nil, nil) when the product row does not exist.
	// Only the rating aggregator may call this.
	RecomputeAverageRating(ctx context.Context, productID string) (*float64, error)
}

// ReviewRepository defines review persistence operations. The review table is
// exclusively owned by this repository; validation happens a layer above, so
// implementations may assume well-formed input.
type ReviewRepository interface {
	// ListByProductID returns all reviews for a product ordered by date
	// descending (stable id tiebreak). Missing product yields an empty slice.
	ListByProductID(ctx context.Context, productID string) ([]*domain.Review, error)

	// Create inserts a review and assigns its system-generated ID.
	Create(ctx context.Context, review *domain.Review) error

	// Update modifies author, rating, and comment of the review matching
	// (reviewID, productID). It returns the updated row, or (nil, nil) when
	// no row matched -- a silent no-op by contract.
	Update(ctx context.Context, productID string, reviewID int64, author string, rating int, comment string) (*domain.Review, error)

	// Delete removes the review matching (reviewID, productID). Deleting a
	// review that does not exist is a no-op, not an error.
	Delete(ctx context.Context, productID string, reviewID int64) error

	// AverageRating returns the mean rating over the product's current
	// reviews rounded to two decimals, or nil when no reviews exist.
	AverageRating(ctx context.Context, productID string) (*float64, error)
}
