package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	apperrors "github.com/dylanS0811/product-review-platform/pkg/errors"
	"github.com/dylanS0811/product-review-platform/pkg/httputil"
	"github.com/dylanS0811/product-review-platform/pkg/validator"
)

const maxBodyBytes = 1 << 20

// ReviewService is the review surface the handlers depend on.
type ReviewService interface {
	ListReviews(ctx context.Context, productID string) ([]*domain.Review, error)
	CreateReview(ctx context.Context, productID, author string, rating int, comment string) (*domain.Review, error)
	UpdateReview(ctx context.Context, productID string, reviewID int64, author string, rating int, comment string) (*domain.Review, error)
	DeleteReview(ctx context.Context, productID string, reviewID int64) error
}

// ReviewHandler serves the per-product review endpoints.
type ReviewHandler struct {
	reviews ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

// ReviewRequest is the request body for creating or updating a review.
type ReviewRequest struct {
	Author  string `json:"author" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

func decodeReviewRequest(w http.ResponseWriter, r *http.Request) (*ReviewRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperrors.InvalidInput("invalid request body")
	}

	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	return &req, nil
}

func reviewIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "reviewId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid review id")
	}
	return id, nil
}

// List handles GET /products/{productId}/reviews.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListReviews(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// Create handles POST /products/{productId}/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeReviewRequest(w, r)
	if err != nil {
		writeRequestError(w, r, err, h.logger)
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), chi.URLParam(r, "productId"), req.Author, req.Rating, req.Comment)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, review)
}

// Update handles PUT /products/{productId}/reviews/{reviewId}.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	reviewID, err := reviewIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	req, err := decodeReviewRequest(w, r)
	if err != nil {
		writeRequestError(w, r, err, h.logger)
		return
	}

	review, err := h.reviews.UpdateReview(r.Context(), chi.URLParam(r, "productId"), reviewID, req.Author, req.Rating, req.Comment)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /products/{productId}/reviews/{reviewId}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, err := reviewIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.reviews.DeleteReview(r.Context(), chi.URLParam(r, "productId"), reviewID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeRequestError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteValidationError(w, err)
		return
	}
	httputil.WriteError(w, r, err, fallback)
}
