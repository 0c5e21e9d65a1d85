package repositories

import (
	"context"

	"toko/internal/models"
)

// OrderRepository defines read access to a user's order history. Orders are
// only ever written by CartRepository.Checkout.
type OrderRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*models.Order, error)
}
