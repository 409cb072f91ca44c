package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/internal/repository"
)

// CatalogService exposes read operations over the product catalog.
type CatalogService struct {
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(products repository.ProductRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{products: products, logger: logger}
}

// ListProducts returns products matching the given category and search
// term. The category "All" (and the empty string) matches every category;
// search terms are trimmed and match product names case-insensitively.
func (s *CatalogService) ListProducts(ctx context.Context, category, search string) ([]*domain.Product, error) {
	filter := repository.CatalogFilter{
		Category: strings.TrimSpace(category),
		Search:   strings.TrimSpace(search),
	}
	if strings.EqualFold(filter.Category, domain.CategoryAll) {
		filter.Category = ""
	}

	return s.products.List(ctx, filter)
}

// GetProduct returns a single product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}
