package services_test

import (
	"context"
	"fmt"
	"testing"

	"toko/internal/models"
	"toko/internal/repositories"
	"toko/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	owner    = services.Identity{UserID: "owner-1", Username: "owner", Email: "owner@example.com"}
	stranger = services.Identity{UserID: "other-1", Username: "other", Email: "other@example.com"}
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func existingProduct() *models.Product {
	return &models.Product{
		ID:          "prod-1",
		OwnerID:     owner.UserID,
		Owner:       models.User{ID: owner.UserID, Username: owner.Username},
		Title:       "Lamp",
		Description: "Desk lamp",
		Price:       decimal.RequireFromString("19.99"),
	}
}

func TestProductService_GetAllProducts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo)

	expected := []models.Product{*existingProduct()}
	mockRepo.On("GetAll", mock.Anything).Return(expected, nil).Once()

	products, err := productService.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, "missing").
		Return(nil, fmt.Errorf("product missing: %w", repositories.ErrNotFound)).Once()

	_, err := productService.GetProductByID(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.OwnerID == owner.UserID && p.Title == "Lamp" && p.Price.Equal(decimal.RequireFromString("10.5"))
	})).Return(nil).Once()

	product, err := productService.CreateProduct(ctx, owner, services.ProductInput{
		Title: "  Lamp ",
		Price: price("10.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", product.Title)
	assert.Equal(t, "10.50", product.Price.StringFixed(2))
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo)

	cases := map[string]struct {
		in    services.ProductInput
		field string
	}{
		"missing title":     {services.ProductInput{Price: price("1")}, "title"},
		"blank title":       {services.ProductInput{Title: "   ", Price: price("1")}, "title"},
		"missing price":     {services.ProductInput{Title: "Lamp"}, "price"},
		"negative price":    {services.ProductInput{Title: "Lamp", Price: price("-0.01")}, "price"},
		"too many decimals": {services.ProductInput{Title: "Lamp", Price: price("1.999")}, "price"},
		"too large":         {services.ProductInput{Title: "Lamp", Price: price("100000000")}, "price"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := productService.CreateProduct(context.Background(), owner, tc.in)
			var fields services.FieldErrors
			require.ErrorAs(t, err, &fields)
			assert.Contains(t, fields, tc.field)
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, "prod-1").Return(existingProduct(), nil).Once()
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := productService.UpdateProduct(ctx, owner, "prod-1", services.ProductInput{
		Title: "Floor lamp",
		Price: price("49"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Floor lamp", product.Title)
	assert.Empty(t, product.Description)
	assert.Equal(t, "49.00", product.Price.StringFixed(2))
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_NotOwner(t *testing.T) {
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, "prod-1").Return(existingProduct(), nil).Once()

	_, err := productService.UpdateProduct(context.Background(), stranger, "prod-1", services.ProductInput{
		Title: "Mine now",
		Price: price("1"),
	})
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_PatchProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, "prod-1").Return(existingProduct(), nil).Twice()
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := productService.PatchProduct(ctx, owner, "prod-1", services.ProductPatch{Price: price("5")})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", product.Title, "untouched fields are kept")
	assert.Equal(t, "Desk lamp", product.Description)
	assert.Equal(t, "5.00", product.Price.StringFixed(2))
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo)

	// Another user's product
	mockRepo.On("GetByID", mock.Anything, "prod-1").Return(existingProduct(), nil).Once()
	err := productService.DeleteProduct(ctx, stranger, "prod-1")
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Unknown product is reported before ownership
	mockRepo.On("GetByID", mock.Anything, "missing").
		Return(nil, fmt.Errorf("product missing: %w", repositories.ErrNotFound)).Once()
	err = productService.DeleteProduct(ctx, stranger, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Owner
	mockRepo.On("GetByID", mock.Anything, "prod-1").Return(existingProduct(), nil).Once()
	mockRepo.On("Delete", mock.Anything, "prod-1").Return(nil).Once()
	require.NoError(t, productService.DeleteProduct(ctx, owner, "prod-1"))

	mockRepo.AssertExpectations(t)
}
