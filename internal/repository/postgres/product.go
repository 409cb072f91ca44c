package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/internal/repository"
	"github.com/dylanS0811/product-review-platform/pkg/database"
	apperrors "github.com/dylanS0811/product-review-platform/pkg/errors"
)

// ProductRepository provides access to product rows in PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, category, price::text, image, date_added, average_rating::float8`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.Image,
		&p.DateAdded,
		&p.AverageRating,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a single product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	return p, nil
}

// List retrieves products matching the filter, newest first. An empty
// category matches all categories; a non-empty search matches product
// names case-insensitively as a substring.
func (r *ProductRepository) List(ctx context.Context, filter repository.CatalogFilter) ([]*domain.Product, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		conditions = append(conditions, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM products`, productColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date_added DESC, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// RecomputeAverageRating recalculates a product's average rating from its
// current reviews in a single statement, so the stored aggregate can never
// drift from the review rows it is derived from. The aggregate is NULL when
// the product has no reviews. A missing product is not an error: callers
// recompute after review deletions that may race with product removal.
func (r *ProductRepository) RecomputeAverageRating(ctx context.Context, productID string) (*float64, error) {
	query := `
		UPDATE products
		SET average_rating = (
			SELECT ROUND(AVG(rating), 2)
			FROM reviews
			WHERE product_id = $1
		)
		WHERE id = $1
		RETURNING average_rating::float8`

	var avg *float64
	if err := r.db.QueryRow(ctx, query, productID).Scan(&avg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("recompute average rating: %w", err)
	}

	return avg, nil
}
