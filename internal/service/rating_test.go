package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRatingAggregator_Recompute(t *testing.T) {
	products := new(mockProductRepo)
	events := &recordingPublisher{}
	agg := NewRatingAggregator(products, events, discardLogger())

	avg := 4.33
	products.On("RecomputeAverageRating", mock.Anything, "p1").Return(&avg, nil).Once()

	got, err := agg.Recompute(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4.33, *got)

	require.Len(t, events.ratingUpdates, 1)
	assert.Equal(t, 4.33, *events.ratingUpdates[0])
	assert.Equal(t, []string{"p1"}, events.ratingProducts)
}

func TestRatingAggregator_Recompute_NoReviews(t *testing.T) {
	products := new(mockProductRepo)
	events := &recordingPublisher{}
	agg := NewRatingAggregator(products, events, discardLogger())

	products.On("RecomputeAverageRating", mock.Anything, "p1").Return(nil, nil).Once()

	got, err := agg.Recompute(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.Len(t, events.ratingUpdates, 1)
	assert.Nil(t, events.ratingUpdates[0])
}

func TestRatingAggregator_Recompute_Error(t *testing.T) {
	products := new(mockProductRepo)
	events := &recordingPublisher{}
	agg := NewRatingAggregator(products, events, discardLogger())

	products.On("RecomputeAverageRating", mock.Anything, "p1").Return(nil, assert.AnError).Once()

	got, err := agg.Recompute(context.Background(), "p1")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, events.ratingUpdates)
}
