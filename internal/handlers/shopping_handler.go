package handlers

import (
	"errors"

	"foodhive/internal/models"
	"foodhive/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ShoppingHandler handles HTTP requests for the shopping list.
type ShoppingHandler struct {
	list   *services.ShoppingList
	logger *zap.Logger
}

// NewShoppingHandler creates a new ShoppingHandler.
func NewShoppingHandler(list *services.ShoppingList, logger *zap.Logger) *ShoppingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShoppingHandler{
		list:   list,
		logger: logger,
	}
}

// RegisterRoutes registers the shopping list routes with the Fiber app.
func (h *ShoppingHandler) RegisterRoutes(router fiber.Router) {
	shoppingRoutes := router.Group("/shopping")
	shoppingRoutes.Get("/", h.HandleGetItems)
	shoppingRoutes.Post("/", h.HandleAddItem)
	shoppingRoutes.Post("/missing", h.HandleAddMissing)
	shoppingRoutes.Put("/:id", h.HandleUpdateItem)
	shoppingRoutes.Patch("/:id/bought", h.HandleToggleBought)
	shoppingRoutes.Delete("/:id", h.HandleDeleteItem)
}

// HandleGetItems retrieves the whole shopping list.
func (h *ShoppingHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.list.List(c.UserContext())
	if err != nil {
		return h.fail(c, "Could not retrieve shopping list", err)
	}
	return c.JSON(items)
}

// HandleAddItem adds one item to the list.
func (h *ShoppingHandler) HandleAddItem(c *fiber.Ctx) error {
	var item models.ShoppingItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	item.ID = ""
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	added, err := h.list.Add(c.UserContext(), item)
	if err != nil {
		return h.fail(c, "Could not add shopping item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(added)
}

// HandleAddMissing adds every ingredient not already pending on the list.
func (h *ShoppingHandler) HandleAddMissing(c *fiber.Ctx) error {
	var req struct {
		Items []string `json:"items"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	added, err := h.list.AddMissing(c.UserContext(), req.Items)
	if err != nil {
		return h.fail(c, "Could not add missing items", err)
	}
	return c.Status(fiber.StatusCreated).JSON(added)
}

// HandleUpdateItem replaces an existing item.
func (h *ShoppingHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var item models.ShoppingItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	item.ID = c.Params("id")

	updated, err := h.list.Update(c.UserContext(), item)
	if err != nil {
		return h.fail(c, "Could not update shopping item", err)
	}
	return c.JSON(updated)
}

// HandleToggleBought flips the bought flag of an item.
func (h *ShoppingHandler) HandleToggleBought(c *fiber.Ctx) error {
	item, err := h.list.ToggleBought(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Could not update shopping item", err)
	}
	return c.JSON(item)
}

// HandleDeleteItem removes an item from the list.
func (h *ShoppingHandler) HandleDeleteItem(c *fiber.Ctx) error {
	if err := h.list.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, "Could not delete shopping item", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ShoppingHandler) fail(c *fiber.Ctx, message string, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid shopping item",
			"fields":  verr.Fields,
		})
	case errors.Is(err, services.ErrShoppingItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Shopping item not found",
		})
	case errors.Is(err, services.ErrStoreUnavailable):
		h.logger.Error(message, zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		h.logger.Error(message, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}
