package handlers

import (
	"toko/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes, all behind authRequired.
func (h *CartHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	cartRoutes := router.Group("/cart", authRequired)
	cartRoutes.Get("/my_cart", h.HandleGetCart)
	cartRoutes.Post("/add_item", h.HandleAddItem)
	cartRoutes.Post("/update_item", h.HandleUpdateItem)
	cartRoutes.Post("/remove_item", h.HandleRemoveItem)
	cartRoutes.Post("/clear", h.HandleClear)
	cartRoutes.Post("/checkout", h.HandleCheckout)
}

type addItemRequest struct {
	ProductID string      `json:"product_id"`
	Quantity  interface{} `json:"quantity"`
}

type updateItemRequest struct {
	ItemID   string      `json:"item_id"`
	Quantity interface{} `json:"quantity"`
}

type removeItemRequest struct {
	ItemID string `json:"item_id"`
}

// HandleGetCart returns the caller's cart with computed totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	cart, err := h.service.GetCart(c.UserContext(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCartResponse(cart))
}

// HandleAddItem adds a product to the cart: 201 for a new line, 200 when an
// existing line was incremented.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	quantity, err := parseQuantity(req.Quantity, 1)
	if err != nil {
		return respondError(c, err)
	}

	item, created, err := h.service.AddItem(c.UserContext(), caller, req.ProductID, quantity)
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toCartItemResponse(item))
}

// HandleUpdateItem sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	quantity, err := parseQuantity(req.Quantity, 0)
	if err != nil {
		return respondError(c, err)
	}

	item, err := h.service.UpdateItem(c.UserContext(), caller, req.ItemID, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCartItemResponse(item))
}

// HandleRemoveItem deletes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req removeItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	if err := h.service.RemoveItem(c.UserContext(), caller, req.ItemID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart."})
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.Clear(c.UserContext(), caller); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared."})
}

// HandleCheckout turns the cart into an order.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	order, err := h.service.Checkout(c.UserContext(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}
