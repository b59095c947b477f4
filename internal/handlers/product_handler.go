package handlers

import (
	"context"
	"errors"
	"time"

	"foodhive/internal/models"
	"foodhive/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	store       *services.ProductStore
	logger      *zap.Logger
	saveTimeout time.Duration
	today       func() models.Date
}

// productResponse is a stored product annotated with how close it is to expiring.
type productResponse struct {
	models.Product
	ExpiryStatus models.ExpiryStatus `json:"expiryStatus"`
}

// NewProductHandler creates a new ProductHandler. saveTimeout bounds each create request.
func NewProductHandler(store *services.ProductStore, logger *zap.Logger, saveTimeout time.Duration) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{
		store:       store,
		logger:      logger,
		saveTimeout: saveTimeout,
		today:       func() models.Date { return models.DateOf(time.Now()) },
	}
}

// WithClock replaces the source of "today" used for expiry status.
func (h *ProductHandler) WithClock(today func() models.Date) *ProductHandler {
	h.today = today
	return h
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
}

// HandleGetProducts retrieves all products with their expiry status.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.store.List(c.UserContext())
	if err != nil {
		h.logger.Error("Error getting all products", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	today := h.today()
	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, productResponse{Product: p, ExpiryStatus: models.ExpiryStatusOf(p.ExpDate, today)})
	}
	return c.JSON(resp)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.store.Get(c.UserContext(), productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		h.logger.Error("Error getting product", zap.String("id", productID), zap.Error(err))
		status := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrStoreUnavailable) {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(productResponse{Product: *product, ExpiryStatus: models.ExpiryStatusOf(product.ExpDate, h.today())})
}

// HandleCreateProduct validates and stores a new product.
// With ?normalize=true the category is mapped onto the canonical set first.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if c.QueryBool("normalize") {
		product.Category = models.NormalizeCategory(product.Category)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.saveTimeout)
	defer cancel()

	results, err := h.store.SaveAsync(ctx, product)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid product",
				"fields":  verr.Fields,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product",
			"error":   err.Error(),
		})
	}

	res := services.WaitResult(ctx, results)

	switch {
	case res.Err == nil:
		return c.Status(fiber.StatusCreated).JSON(res.Product)
	case errors.Is(res.Err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"message": "Timed out saving product",
		})
	case errors.Is(res.Err, services.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Could not save product",
			"error":   res.Err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save product",
			"error":   res.Err.Error(),
		})
	}
}
