package repositories

import (
	"context"

	"toko/internal/models"
)

// ProductRepository defines the interface for product data access.
// Returned products have Owner loaded.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
