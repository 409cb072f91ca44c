package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/internal/repository"
	apperrors "github.com/dylanS0811/product-review-platform/pkg/errors"
)

func TestCatalogService_ListProducts_FilterNormalization(t *testing.T) {
	tests := []struct {
		name     string
		category string
		search   string
		want     repository.CatalogFilter
	}{
		{"no filter", "", "", repository.CatalogFilter{}},
		{"all category matches everything", "All", "", repository.CatalogFilter{}},
		{"all is case-insensitive", "all", "", repository.CatalogFilter{}},
		{"specific category", "Outdoors", "", repository.CatalogFilter{Category: "Outdoors"}},
		{"search is trimmed", "", "  pack ", repository.CatalogFilter{Search: "pack"}},
		{"category is trimmed", " Outdoors ", "", repository.CatalogFilter{Category: "Outdoors"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := new(mockProductRepo)
			svc := NewCatalogService(products, discardLogger())

			products.On("List", mock.Anything, tt.want).Return([]*domain.Product{}, nil).Once()

			got, err := svc.ListProducts(context.Background(), tt.category, tt.search)
			require.NoError(t, err)
			assert.Empty(t, got)

			products.AssertExpectations(t)
		})
	}
}

func TestCatalogService_GetProduct(t *testing.T) {
	products := new(mockProductRepo)
	svc := NewCatalogService(products, discardLogger())

	products.On("GetByID", mock.Anything, "p1").Return(&domain.Product{ID: "p1", Name: "Trail Pack 30L"}, nil).Once()

	p, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Trail Pack 30L", p.Name)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	products := new(mockProductRepo)
	svc := NewCatalogService(products, discardLogger())

	products.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NotFound("product", "missing")).Once()

	p, err := svc.GetProduct(context.Background(), "missing")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
