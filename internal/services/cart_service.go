package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toko/internal/logging"
	"toko/internal/models"
	"toko/internal/repositories"

	"github.com/shopspring/decimal"
)

// OrderCompletedRoutingKey is the routing key of checkout events.
const OrderCompletedRoutingKey = "order.completed"

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// OrderCompletedEvent is published after a checkout commits.
type OrderCompletedEvent struct {
	OrderID    string                   `json:"order_id"`
	UserID     string                   `json:"user_id"`
	TotalPrice decimal.Decimal          `json:"total_price"`
	CreatedAt  time.Time                `json:"created_at"`
	Items      []OrderCompletedLineItem `json:"items"`
}

type OrderCompletedLineItem struct {
	ProductTitle string          `json:"product_title"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// CartService handles the caller's shopping cart and checkout.
type CartService struct {
	repo      repositories.CartRepository
	publisher EventPublisher
}

// NewCartService creates a new CartService. publisher may be nil, in which
// case no events are sent.
func NewCartService(repo repositories.CartRepository, publisher EventPublisher) *CartService {
	return &CartService{
		repo:      repo,
		publisher: publisher,
	}
}

// GetCart returns the caller's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, caller Identity) (*models.Cart, error) {
	return s.repo.GetOrCreate(ctx, caller.UserID)
}

// AddItem adds quantity units of a product. Adding a product already in the
// cart increments its line. created reports whether a new line was made.
func (s *CartService) AddItem(ctx context.Context, caller Identity, productID string, quantity int) (*models.CartItem, bool, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, false, fieldError("product_id", "This field is required.")
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, false, err
	}

	item, created, err := s.repo.AddItem(ctx, caller.UserID, productID, quantity)
	if err != nil {
		return nil, false, translate(err)
	}
	return item, created, nil
}

// UpdateItem sets the quantity of a line in the caller's cart.
func (s *CartService) UpdateItem(ctx context.Context, caller Identity, itemID string, quantity int) (*models.CartItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	item, err := s.repo.SetItemQuantity(ctx, caller.UserID, itemID, quantity)
	if err != nil {
		return nil, translate(err)
	}
	return item, nil
}

// RemoveItem deletes a line from the caller's cart.
func (s *CartService) RemoveItem(ctx context.Context, caller Identity, itemID string) error {
	return translate(s.repo.RemoveItem(ctx, caller.UserID, itemID))
}

// Clear empties the caller's cart. Clearing an empty cart is a no-op.
func (s *CartService) Clear(ctx context.Context, caller Identity) error {
	return s.repo.Clear(ctx, caller.UserID)
}

// Checkout turns the caller's cart into a completed order and empties the
// cart, atomically. An empty cart is a validation error.
func (s *CartService) Checkout(ctx context.Context, caller Identity) (*models.Order, error) {
	order, err := s.repo.Checkout(ctx, caller.UserID, snapshotOrder)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	log.Info("checkout completed", "order_id", order.ID, "user_id", caller.UserID,
		"items", len(order.Items), "total_price", order.TotalPrice.StringFixed(2))

	s.publishCompleted(ctx, order)
	return order, nil
}

// snapshotOrder copies the title, unit price, quantity and subtotal of each
// line into a new order, so later product edits do not alter it.
func snapshotOrder(items []models.CartItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("the cart is empty: %w", ErrValidation)
	}

	order := &models.Order{
		Status: models.OrderStatusCompleted,
		Items:  make([]models.OrderItem, 0, len(items)),
	}
	total := decimal.Zero
	for i := range items {
		subtotal := items[i].Subtotal()
		total = total.Add(subtotal)
		order.Items = append(order.Items, models.OrderItem{
			ProductTitle: items[i].Product.Title,
			ProductPrice: items[i].Product.Price,
			Quantity:     items[i].Quantity,
			Subtotal:     subtotal,
		})
	}
	order.TotalPrice = total
	return order, nil
}

func (s *CartService) publishCompleted(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	event := OrderCompletedEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
		Items:      make([]OrderCompletedLineItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, OrderCompletedLineItem{
			ProductTitle: item.ProductTitle,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
		})
	}

	// The order is already committed; a broker outage must not fail the request.
	if err := s.publisher.Publish(ctx, OrderCompletedRoutingKey, event); err != nil {
		logging.FromContext(ctx).Warn("failed to publish order event", "order_id", order.ID, "error", err)
	}
}

func checkQuantity(quantity int) error {
	if quantity <= 0 {
		return fieldError("quantity", "Quantity must be a positive integer.")
	}
	return nil
}
