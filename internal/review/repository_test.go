package review

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		comment := "Vải mát, đúng size"
		mock.ExpectQuery("INSERT INTO reviews").
			WithArgs(int64(7), "AO-THUN-01", 5, "Vải mát, đúng size", true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(1), now, now))

		rv := &Review{UserID: 7, SKU: "AO-THUN-01", Rating: 5, Comment: &comment, Verified: true}
		err := repo.Create(context.Background(), rv)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), rv.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO reviews").
			WithArgs(int64(7), "AO-THUN-01", 4, nil, true).
			WillReturnError(&pq.Error{Code: pq.ErrorCode(PgUniqueViolation)})

		rv := &Review{UserID: 7, SKU: "AO-THUN-01", Rating: 4, Verified: true}
		err := repo.Create(context.Background(), rv)

		assert.ErrorIs(t, err, ErrAlreadyReviewed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListBySKU(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery("FROM reviews").
		WithArgs("AO-THUN-01", int64(20), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "sku", "rating", "comment", "verified", "created_at", "updated_at",
		}).AddRow(int64(1), int64(7), "AO-THUN-01", 5, "Vải mát, đúng size", true, now, now))

	reviews, err := repo.ListBySKU(context.Background(), ListOptions{SKU: "AO-THUN-01"})

	assert.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.True(t, reviews[0].Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_HasDeliveredOrderWithSKU(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Purchased", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(7), "AO-THUN-01").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := repo.HasDeliveredOrderWithSKU(context.Background(), 7, "AO-THUN-01")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("NotPurchased", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(7), "QUAN-JEAN-02").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		ok, err := repo.HasDeliveredOrderWithSKU(context.Background(), 7, "QUAN-JEAN-02")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
