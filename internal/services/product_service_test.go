package services_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"productstore/internal/models"
	"productstore/internal/repositories"
	"productstore/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByName(name string) ([]models.Product, error) {
	args := m.Called(name)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(category models.Category) ([]models.Product, error) {
	args := m.Called(category)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByAvailability(available bool) ([]models.Product, error) {
	args := m.Called(available)
	return args.Get(0).([]models.Product), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProductEvent(eventType string, product *models.Product) error {
	args := m.Called(eventType, product)
	return args.Error(0)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Product A", Price: decimal.RequireFromString("10.00")},
		{ID: 2, Name: "Product B", Price: decimal.RequireFromString("20.00")},
	}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProduct := &models.Product{ID: 1, Name: "Product A", Price: decimal.RequireFromString("10.00")}

	// Test successful retrieval
	mockRepo.On("GetByID", uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", uint(99)).Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrNotFound)).Once()
	product, err = service.GetProductByID(99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	newProduct := &models.Product{Name: "New Product", Price: decimal.RequireFromString("50.00")}

	mockRepo.On("Create", newProduct).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Product).ID = 7
	}).Return(nil).Once()
	mockEvents.On("PublishProductEvent", services.EventProductCreated, newProduct).Return(nil).Once()

	err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), newProduct.ID)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_CreateProductDiscardsCallerID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	product := &models.Product{ID: 123, Name: "Sneaky", Price: decimal.RequireFromString("1.00")}
	mockRepo.On("Create", mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 0
	})).Return(nil).Once()

	assert.NoError(t, service.CreateProduct(product))
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProductPublishFailureIsSoft(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	product := &models.Product{Name: "Hat", Price: decimal.RequireFromString("5.00")}
	mockRepo.On("Create", product).Return(nil).Once()
	mockEvents.On("PublishProductEvent", services.EventProductCreated, product).Return(fmt.Errorf("broker down")).Once()

	// A failed publish never fails the request
	assert.NoError(t, service.CreateProduct(product))
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	updatedProduct := &models.Product{ID: 1, Name: "Product A Updated", Price: decimal.RequireFromString("12.00")}

	mockRepo.On("Update", updatedProduct).Return(nil).Once()
	mockEvents.On("PublishProductEvent", services.EventProductUpdated, updatedProduct).Return(nil).Once()

	err := service.UpdateProduct(updatedProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_UpdateProductWithoutID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	err := service.UpdateProduct(&models.Product{Name: "No ID", Price: decimal.RequireFromString("1.00")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "without an assigned ID")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	mockRepo.On("Delete", uint(1)).Return(nil).Once()
	mockEvents.On("PublishProductEvent", services.EventProductDeleted, mock.Anything).Return(nil).Once()

	assert.NoError(t, service.DeleteProduct(1))
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)

	// Deletion failure publishes nothing
	mockRepo.On("Delete", uint(99)).Return(fmt.Errorf("product with ID 99: %w", repositories.ErrNotFound)).Once()
	err := service.DeleteProduct(99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_ListProductsFilterPrecedence(t *testing.T) {
	empty := []models.Product{}

	// Category takes priority over every other filter
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	mockRepo.On("FindByCategory", models.CategoryFood).Return(empty, nil).Once()
	_, err := service.ListProducts(services.ListFilter{Category: "food", Name: "Hat", Available: "true"})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "FindByName", mock.Anything)
	mockRepo.AssertNotCalled(t, "FindByAvailability", mock.Anything)

	// Name beats availability
	mockRepo = new(MockProductRepository)
	service = services.NewProductService(mockRepo, nil)
	mockRepo.On("FindByName", "Hat").Return(empty, nil).Once()
	_, err = service.ListProducts(services.ListFilter{Name: "Hat", Available: "true"})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// The available parameter triggers the filter by presence alone
	// and always matches true
	mockRepo = new(MockProductRepository)
	service = services.NewProductService(mockRepo, nil)
	mockRepo.On("FindByAvailability", true).Return(empty, nil).Once()
	_, err = service.ListProducts(services.ListFilter{Available: "banana"})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// No filters at all returns everything
	mockRepo = new(MockProductRepository)
	service = services.NewProductService(mockRepo, nil)
	mockRepo.On("GetAll").Return(empty, nil).Once()
	_, err = service.ListProducts(services.ListFilter{})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProductsUnknownCategory(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	// An unrecognized category string falls back to UNKNOWN instead of
	// failing the request
	mockRepo.On("FindByCategory", models.CategoryUnknown).Return([]models.Product{}, nil).Once()
	_, err := service.ListProducts(services.ListFilter{Category: "widgets"})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
