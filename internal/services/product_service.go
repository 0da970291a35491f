package services

import (
	"fmt"
	"log"
	"strings"

	"productstore/internal/models"
	"productstore/internal/repositories"
)

// Product lifecycle event types published to the message broker.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher publishes product lifecycle events. A nil publisher
// disables eventing without affecting request handling.
type EventPublisher interface {
	PublishProductEvent(eventType string, product *models.Product) error
}

// ListFilter carries the raw query parameters of a list request.
// Empty strings mean the parameter was not supplied.
type ListFilter struct {
	Name      string
	Category  string
	Available string
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct persists a new product. The store assigns the ID; any
// ID supplied by the caller is discarded.
func (s *ProductService) CreateProduct(product *models.Product) error {
	product.ID = 0
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publish(EventProductCreated, product)
	return nil
}

// UpdateProduct persists in-place changes to an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product.ID == 0 {
		return fmt.Errorf("cannot update product without an assigned ID")
	}
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publish(EventProductUpdated, product)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish(EventProductDeleted, &models.Product{ID: id})
	return nil
}

// ListProducts applies at most one filter, in fixed priority order:
// category, then name, then availability, then all. The available
// parameter filters by presence alone and matches only "true".
func (s *ProductService) ListProducts(filter ListFilter) ([]models.Product, error) {
	switch {
	case filter.Category != "":
		category := models.ParseCategory(filter.Category)
		if category == models.CategoryUnknown && !strings.EqualFold(filter.Category, "unknown") {
			log.Printf("Warning: unrecognized category %q requested, using UNKNOWN instead", filter.Category)
		}
		return s.repo.FindByCategory(category)
	case filter.Name != "":
		return s.repo.FindByName(filter.Name)
	case filter.Available != "":
		return s.repo.FindByAvailability(true)
	default:
		return s.repo.GetAll()
	}
}

// publish sends a product event if a publisher is configured. Failures
// are logged and never fail the originating request.
func (s *ProductService) publish(eventType string, product *models.Product) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductEvent(eventType, product); err != nil {
		log.Printf("Warning: failed to publish %s event for product %d: %v", eventType, product.ID, err)
	}
}
