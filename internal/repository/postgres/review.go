package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/pkg/database"
)

// ReviewRepository provides access to review rows in PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ListByProductID retrieves all reviews for a product, newest first.
// A product with no reviews yields an empty slice.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string) ([]*domain.Review, error) {
	query := `
		SELECT id, product_id, author, rating, comment, date
		FROM reviews
		WHERE product_id = $1
		ORDER BY date DESC, id DESC`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.Author, &rev.Rating, &rev.Comment, &rev.Date); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// Create inserts a new review and populates its generated ID.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (product_id, author, rating, comment, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		review.ProductID,
		review.Author,
		review.Rating,
		review.Comment,
		review.Date,
	).Scan(&review.ID)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// Update modifies an existing review's author, rating, and comment, leaving
// its date untouched, and returns the updated row. When no review matches
// the (productID, reviewID) pair it returns (nil, nil); the caller decides
// how to surface the miss.
func (r *ReviewRepository) Update(ctx context.Context, productID string, reviewID int64, author string, rating int, comment string) (*domain.Review, error) {
	query := `
		UPDATE reviews
		SET author = $1, rating = $2, comment = $3
		WHERE id = $4 AND product_id = $5
		RETURNING id, product_id, author, rating, comment, date`

	var rev domain.Review
	err := r.db.QueryRow(ctx, query, author, rating, comment, reviewID, productID).
		Scan(&rev.ID, &rev.ProductID, &rev.Author, &rev.Rating, &rev.Comment, &rev.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	return &rev, nil
}

// Delete removes a review. Deleting a review that does not exist is not an
// error; the operation is idempotent.
func (r *ReviewRepository) Delete(ctx context.Context, productID string, reviewID int64) error {
	query := `DELETE FROM reviews WHERE id = $1 AND product_id = $2`

	if _, err := r.db.Exec(ctx, query, reviewID, productID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	return nil
}

// AverageRating computes the mean rating of a product's reviews, rounded to
// two decimals. It returns nil when the product has no reviews.
func (r *ReviewRepository) AverageRating(ctx context.Context, productID string) (*float64, error) {
	query := `SELECT ROUND(AVG(rating), 2)::float8 FROM reviews WHERE product_id = $1`

	var avg *float64
	if err := r.db.QueryRow(ctx, query, productID).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	return avg, nil
}
