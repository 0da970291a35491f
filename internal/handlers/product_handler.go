package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"productstore/internal/models"
	"productstore/internal/repositories"
	"productstore/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Get("/:id", h.HandleGetByID)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
}

// HealthCheck reports that the service is up.
func HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "OK",
	})
}

// hasJSONContentType reports whether the request carries a JSON body,
// ignoring media type parameters such as charset.
func hasJSONContentType(c *fiber.Ctx) bool {
	mediaType := strings.TrimSpace(strings.Split(c.Get(fiber.HeaderContentType), ";")[0])
	return strings.EqualFold(mediaType, fiber.MIMEApplicationJSON)
}

// parseProductID extracts the integer id path parameter. Non-integer
// ids are treated the same as unknown ids.
func parseProductID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid product id %q", c.Params("id"))
	}
	return uint(id), nil
}

// HandleCreate creates a new product from the request body.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	if !hasJSONContentType(c) {
		log.Printf("Invalid Content-Type on create: %q", c.Get(fiber.HeaderContentType))
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"message": "Content-Type must be application/json",
		})
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}

	c.Location(fmt.Sprintf("/products/%d", product.ID))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return productNotFoundResponse(c, c.Params("id"))
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return productNotFoundResponse(c, c.Params("id"))
		}
		log.Printf("Error getting product by ID %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleUpdate replaces all fields of an existing product except its ID.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	if !hasJSONContentType(c) {
		log.Printf("Invalid Content-Type on update: %q", c.Get(fiber.HeaderContentType))
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"message": "Content-Type must be application/json",
		})
	}

	id, err := parseProductID(c)
	if err != nil {
		return productNotFoundResponse(c, c.Params("id"))
	}

	if _, err := h.service.GetProductByID(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return productNotFoundResponse(c, c.Params("id"))
		}
		log.Printf("Error looking up product %d for update: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return validationErrorResponse(c, err)
	}

	// The ID comes from the path, never from the body.
	product.ID = id
	if err := h.service.UpdateProduct(&product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return productNotFoundResponse(c, c.Params("id"))
		}
		log.Printf("Error updating product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDelete deletes a product by its ID.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return productNotFoundResponse(c, c.Params("id"))
	}

	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return productNotFoundResponse(c, c.Params("id"))
		}
		log.Printf("Error deleting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleList returns products, optionally narrowed by a single query
// filter (category, name, or available, in that priority order).
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	filter := services.ListFilter{
		Name:      c.Query("name"),
		Category:  c.Query("category"),
		Available: c.Query("available"),
	}

	products, err := h.service.ListProducts(filter)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

func productNotFoundResponse(c *fiber.Ctx, id string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %s not found", id),
	})
}

func validationErrorResponse(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
