package rediscache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dylanS0811/product-review-platform/internal/domain"
	"github.com/dylanS0811/product-review-platform/internal/repository"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.CatalogFilter) ([]*domain.Product, error) {
	args := m.Called(ctx, filter)
	if ps := args.Get(0); ps != nil {
		return ps.([]*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) RecomputeAverageRating(ctx context.Context, productID string) (*float64, error) {
	args := m.Called(ctx, productID)
	if avg := args.Get(0); avg != nil {
		return avg.(*float64), args.Error(1)
	}
	return nil, args.Error(1)
}

func newCache(t *testing.T, inner repository.ProductRepository) (*miniredis.Miniredis, *ProductRepository) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return srv, New(inner, client, time.Minute, logger)
}

func sampleProduct() *domain.Product {
	avg := 4.25
	return &domain.Product{
		ID:            "p1",
		Name:          "Trail Pack 30L",
		Description:   "Lightweight daypack",
		Category:      "Outdoors",
		Price:         "89.99",
		Image:         "/img/p1.png",
		DateAdded:     time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		AverageRating: &avg,
	}
}

func TestProductRepository_GetByID_MissThenHit(t *testing.T) {
	inner := new(mockProductRepo)
	_, cache := newCache(t, inner)

	inner.On("GetByID", mock.Anything, "p1").Return(sampleProduct(), nil).Once()

	p, err := cache.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	// Second read must come from the cache, not the inner repo.
	p, err = cache.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Trail Pack 30L", p.Name)
	require.NotNil(t, p.AverageRating)
	assert.Equal(t, 4.25, *p.AverageRating)

	inner.AssertExpectations(t)
}

func TestProductRepository_GetByID_InnerError(t *testing.T) {
	inner := new(mockProductRepo)
	_, cache := newCache(t, inner)

	inner.On("GetByID", mock.Anything, "missing").Return(nil, assert.AnError)

	p, err := cache.GetByID(context.Background(), "missing")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestProductRepository_RecomputeAverageRating_Invalidates(t *testing.T) {
	inner := new(mockProductRepo)
	srv, cache := newCache(t, inner)

	inner.On("GetByID", mock.Anything, "p1").Return(sampleProduct(), nil).Once()

	_, err := cache.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, srv.Exists("product:p1"))

	newAvg := 3.5
	inner.On("RecomputeAverageRating", mock.Anything, "p1").Return(&newAvg, nil).Once()

	avg, err := cache.RecomputeAverageRating(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 3.5, *avg)
	assert.False(t, srv.Exists("product:p1"))

	inner.AssertExpectations(t)
}

func TestProductRepository_GetByID_RedisDown(t *testing.T) {
	inner := new(mockProductRepo)
	srv, cache := newCache(t, inner)
	srv.Close()

	inner.On("GetByID", mock.Anything, "p1").Return(sampleProduct(), nil).Once()

	p, err := cache.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	inner.AssertExpectations(t)
}

func TestProductRepository_List_Delegates(t *testing.T) {
	inner := new(mockProductRepo)
	_, cache := newCache(t, inner)

	filter := repository.CatalogFilter{Category: "Outdoors"}
	inner.On("List", mock.Anything, filter).Return([]*domain.Product{sampleProduct()}, nil).Once()

	products, err := cache.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, products, 1)

	inner.AssertExpectations(t)
}
