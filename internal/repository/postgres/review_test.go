package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanS0811/product-review-platform/internal/domain"
)

var reviewCols = []string{"id", "product_id", "author", "rating", "comment", "date"}

func newReviewMock(t *testing.T) (pgxmock.PgxPoolIface, *ReviewRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewReviewRepository(mock)
}

func TestReviewRepository_ListByProductID(t *testing.T) {
	mock, repo := newReviewMock(t)

	when := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM reviews\s+WHERE product_id = \$1`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(int64(2), "p1", "dana", 5, "Great pack", when).
			AddRow(int64(1), "p1", "sam", 3, "Decent", when.Add(-time.Hour)))

	reviews, err := repo.ListByProductID(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, int64(2), reviews[0].ID)
	assert.Equal(t, "dana", reviews[0].Author)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProductID_Empty(t *testing.T) {
	mock, repo := newReviewMock(t)

	mock.ExpectQuery(`SELECT .+ FROM reviews\s+WHERE product_id = \$1`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(reviewCols))

	reviews, err := repo.ListByProductID(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create(t *testing.T) {
	mock, repo := newReviewMock(t)

	when := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	review := &domain.Review{
		ProductID: "p1",
		Author:    "dana",
		Rating:    5,
		Comment:   "Great pack",
		Date:      when,
	}

	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs("p1", "dana", 5, "Great pack", when).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err := repo.Create(context.Background(), review)
	require.NoError(t, err)
	assert.Equal(t, int64(7), review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update(t *testing.T) {
	mock, repo := newReviewMock(t)

	when := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE reviews\s+SET author = \$1, rating = \$2, comment = \$3`).
		WithArgs("dana", 4, "Still good", int64(7), "p1").
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(int64(7), "p1", "dana", 4, "Still good", when))

	rev, err := repo.Update(context.Background(), "p1", 7, "dana", 4, "Still good")
	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, 4, rev.Rating)
	assert.Equal(t, when, rev.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update_NoMatch(t *testing.T) {
	mock, repo := newReviewMock(t)

	mock.ExpectQuery(`UPDATE reviews\s+SET author = \$1, rating = \$2, comment = \$3`).
		WithArgs("dana", 4, "Still good", int64(99), "p1").
		WillReturnRows(pgxmock.NewRows(reviewCols))

	rev, err := repo.Update(context.Background(), "p1", 99, "dana", 4, "Still good")
	require.NoError(t, err)
	assert.Nil(t, rev)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete(t *testing.T) {
	mock, repo := newReviewMock(t)

	mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1 AND product_id = \$2`).
		WithArgs(int64(7), "p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "p1", 7)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_Missing(t *testing.T) {
	mock, repo := newReviewMock(t)

	mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1 AND product_id = \$2`).
		WithArgs(int64(99), "p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "p1", 99)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_AverageRating(t *testing.T) {
	mock, repo := newReviewMock(t)

	avg := 4.5
	mock.ExpectQuery(`SELECT ROUND\(AVG\(rating\), 2\)::float8 FROM reviews WHERE product_id = \$1`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow(&avg))

	got, err := repo.AverageRating(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4.5, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_AverageRating_NoReviews(t *testing.T) {
	mock, repo := newReviewMock(t)

	mock.ExpectQuery(`SELECT ROUND\(AVG\(rating\), 2\)::float8 FROM reviews WHERE product_id = \$1`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow(nil))

	got, err := repo.AverageRating(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
