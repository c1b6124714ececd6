package product

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, input UpdateProductInput) (*Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) ReserveStock(ctx context.Context, sku string, quantity int) error {
	args := m.Called(ctx, sku, quantity)
	return args.Error(0)
}

func (m *MockRepository) RestoreStock(ctx context.Context, sku string, quantity int) error {
	args := m.Called(ctx, sku, quantity)
	return args.Error(0)
}

// memoryCache is an in-process Cache for asserting caching behavior.
type memoryCache struct {
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *memoryCache) Del(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) GenerateKey(operation, key string) string {
	return operation + ":" + key
}

func sampleProduct() *Product {
	return &Product{
		ID:            1,
		SKU:           "AO-THUN-01",
		Name:          "Áo thun cotton",
		OriginalPrice: 100000,
		SalePrice:     80000,
		Stock:         10,
		Colors:        []string{"den", "trang"},
		Sizes:         []string{"M", "L"},
		Status:        StatusActive,
	}
}

func TestService_GetBySKU(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss then hit", func(t *testing.T) {
		mockRepo := new(MockRepository)
		c := newMemoryCache()
		svc := NewService(mockRepo, c)

		mockRepo.On("GetBySKU", ctx, "AO-THUN-01").Return(sampleProduct(), nil).Once()

		// First call hits the repository and fills the cache.
		p, err := svc.GetBySKU(ctx, "AO-THUN-01")
		assert.NoError(t, err)
		assert.Equal(t, "AO-THUN-01", p.SKU)

		// Second call is served from cache; the repo expectation is Once().
		p2, err := svc.GetBySKU(ctx, "AO-THUN-01")
		assert.NoError(t, err)
		assert.Equal(t, p.SKU, p2.SKU)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, newMemoryCache())

		mockRepo.On("GetBySKU", ctx, "MISSING").Return(nil, nil)

		_, err := svc.GetBySKU(ctx, "MISSING")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejects sale price above original", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, newMemoryCache())

		_, err := svc.Create(ctx, NewProductInput{
			SKU:           "AO-THUN-01",
			Name:          "Áo thun",
			OriginalPrice: 100000,
			SalePrice:     120000,
		})

		assert.ErrorIs(t, err, ErrInvalidPricing)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Rejects empty sku", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, newMemoryCache())

		_, err := svc.Create(ctx, NewProductInput{Name: "Áo thun"})
		assert.Error(t, err)
	})

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, newMemoryCache())

		input := NewProductInput{SKU: "AO-THUN-01", Name: "Áo thun", OriginalPrice: 100000}
		mockRepo.On("Create", ctx, input).Return(sampleProduct(), nil)

		p, err := svc.Create(ctx, input)
		assert.NoError(t, err)
		assert.NotNil(t, p)
	})
}

func TestService_ReserveStock_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	c := newMemoryCache()
	svc := NewService(mockRepo, c)

	mockRepo.On("GetBySKU", ctx, "AO-THUN-01").Return(sampleProduct(), nil).Once()
	mockRepo.On("ReserveStock", ctx, "AO-THUN-01", 2).Return(nil)

	_, err := svc.GetBySKU(ctx, "AO-THUN-01")
	require.NoError(t, err)
	require.NotEmpty(t, c.data)

	err = svc.ReserveStock(ctx, "AO-THUN-01", 2)
	assert.NoError(t, err)
	assert.Empty(t, c.data)
}

func TestService_ReserveStock_Error(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, newMemoryCache())

	mockRepo.On("ReserveStock", ctx, "AO-THUN-01", 99).Return(ErrOutOfStock)

	err := svc.ReserveStock(ctx, "AO-THUN-01", 99)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestService_Update_ValidatesCombinedPricing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, newMemoryCache())

	current := sampleProduct() // original 100000
	mockRepo.On("GetBySKU", ctx, "AO-THUN-01").Return(current, nil)

	sale := int64(150000)
	_, err := svc.Update(ctx, UpdateProductInput{SKU: "AO-THUN-01", SalePrice: &sale})

	assert.ErrorIs(t, err, ErrInvalidPricing)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestService_GetList_CapsLimit(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, newMemoryCache())

	mockRepo.On("List", ctx, ListOptions{Limit: 100}).
		Return([]*Product{sampleProduct()}, nil)

	products, err := svc.GetList(ctx, ListOptions{Limit: 500})
	assert.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestProduct_UnitPriceAndVariants(t *testing.T) {
	p := sampleProduct()
	assert.Equal(t, int64(80000), p.UnitPrice())

	p.SalePrice = 0
	assert.Equal(t, int64(100000), p.UnitPrice())

	assert.True(t, p.HasColor("den"))
	assert.False(t, p.HasColor("xanh"))
	assert.True(t, p.HasSize("M"))
	assert.False(t, p.HasSize("XXL"))
}
