package services

import (
	"context"

	"toko/internal/models"
	"toko/internal/repositories"
)

// OrderService exposes the caller's order history. Orders are created by
// CartService.Checkout and never modified afterwards.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// GetOrders returns the caller's orders, newest first.
func (s *OrderService) GetOrders(ctx context.Context, caller Identity) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, caller.UserID)
}

// GetOrderByID returns one of the caller's orders. Orders of other users are
// reported as not found.
func (s *OrderService) GetOrderByID(ctx context.Context, caller Identity, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, caller.UserID, id)
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}
