package repositories

import (
	"context"

	"toko/internal/models"
)

// SnapshotFunc turns the current cart lines into the order to persist. It runs
// inside the checkout transaction; returning an error aborts the checkout.
type SnapshotFunc func(items []models.CartItem) (*models.Order, error)

// CartRepository defines the interface for cart data access. Every method is
// scoped to the cart of userID, which is created on first use.
type CartRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (item *models.CartItem, created bool, err error)
	SetItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
	Checkout(ctx context.Context, userID string, snapshot SnapshotFunc) (*models.Order, error)
}
