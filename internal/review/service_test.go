package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vietcart-be/internal/product"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, rv *Review) error {
	args := m.Called(ctx, rv)
	if args.Error(0) == nil {
		rv.ID = 1
	}
	return args.Error(0)
}

func (m *MockRepository) ListBySKU(ctx context.Context, opts ListOptions) ([]*Review, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Review), args.Error(1)
}

func (m *MockRepository) HasDeliveredOrderWithSKU(ctx context.Context, userID int64, sku string) (bool, error) {
	args := m.Called(ctx, userID, sku)
	return args.Bool(0), args.Error(1)
}

type MockProductGetter struct {
	mock.Mock
}

func (m *MockProductGetter) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductGetter)
		svc := NewService(repo, products)

		products.On("GetBySKU", ctx, "AO-THUN-01").Return(&product.Product{SKU: "AO-THUN-01"}, nil)
		repo.On("HasDeliveredOrderWithSKU", ctx, int64(7), "AO-THUN-01").Return(true, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*review.Review")).Return(nil)

		rv, err := svc.Create(ctx, 7, NewReviewInput{SKU: "AO-THUN-01", Rating: 5})

		require.NoError(t, err)
		assert.Equal(t, int64(1), rv.ID)
		assert.True(t, rv.Verified)
		repo.AssertExpectations(t)
	})

	t.Run("InvalidRating", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductGetter))

		_, err := svc.Create(ctx, 7, NewReviewInput{SKU: "AO-THUN-01", Rating: 6})
		assert.ErrorIs(t, err, ErrInvalidRating)

		_, err = svc.Create(ctx, 7, NewReviewInput{SKU: "AO-THUN-01", Rating: 0})
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductGetter)
		svc := NewService(repo, products)

		products.On("GetBySKU", ctx, "KHONG-TON-TAI").Return(nil, product.ErrProductNotFound)

		_, err := svc.Create(ctx, 7, NewReviewInput{SKU: "KHONG-TON-TAI", Rating: 4})

		assert.ErrorIs(t, err, product.ErrProductNotFound)
	})

	t.Run("NotPurchased", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductGetter)
		svc := NewService(repo, products)

		products.On("GetBySKU", ctx, "AO-THUN-01").Return(&product.Product{SKU: "AO-THUN-01"}, nil)
		repo.On("HasDeliveredOrderWithSKU", ctx, int64(7), "AO-THUN-01").Return(false, nil)

		_, err := svc.Create(ctx, 7, NewReviewInput{SKU: "AO-THUN-01", Rating: 5})

		assert.ErrorIs(t, err, ErrNotPurchased)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_ListBySKU(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	svc := NewService(repo, new(MockProductGetter))

	repo.On("ListBySKU", ctx, ListOptions{SKU: "AO-THUN-01"}).Return([]*Review{
		{ID: 1, SKU: "AO-THUN-01", Rating: 5},
	}, nil)

	reviews, err := svc.ListBySKU(ctx, ListOptions{SKU: "AO-THUN-01"})

	assert.NoError(t, err)
	require.Len(t, reviews, 1)
}
