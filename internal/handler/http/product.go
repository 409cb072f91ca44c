package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/pkg/httputil"
)

// CatalogService is the product catalog surface the handlers depend on.
type CatalogService interface {
	ListProducts(ctx context.Context, category, search string) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	catalog CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

// List handles GET /products. The optional "category" query parameter
// restricts results to one category ("All" matches everything); "search"
// filters product names case-insensitively.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context(),
		r.URL.Query().Get("category"),
		r.URL.Query().Get("search"),
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// Get handles GET /products/{productId}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}
