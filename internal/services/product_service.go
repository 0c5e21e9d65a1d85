package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"toko/internal/models"
	"toko/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var maxPrice = decimal.New(1, 8) // decimal(10,2) holds up to 99999999.99

// ProductInput carries the writable fields of a product for create and full update.
type ProductInput struct {
	Title       string           `json:"title" validate:"required,max=100"`
	Description string           `json:"description" validate:"max=5000"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Image       string           `json:"image" validate:"max=255"`
}

// ProductPatch carries a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: NewValidator(),
	}
}

// GetAllProducts retrieves all products. Open to anonymous callers.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return product, nil
}

// CreateProduct stores a new product owned by the caller.
func (s *ProductService) CreateProduct(ctx context.Context, caller Identity, in ProductInput) (*models.Product, error) {
	price, err := s.check(in)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		OwnerID:     caller.UserID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       price,
		Image:       in.Image,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct replaces the writable fields of a product the caller owns.
func (s *ProductService) UpdateProduct(ctx context.Context, caller Identity, id string, in ProductInput) (*models.Product, error) {
	product, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	price, err := s.check(in)
	if err != nil {
		return nil, err
	}

	product.Title = strings.TrimSpace(in.Title)
	product.Description = in.Description
	product.Price = price
	product.Image = in.Image
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, translate(err)
	}
	return product, nil
}

// PatchProduct applies a partial update to a product the caller owns.
func (s *ProductService) PatchProduct(ctx context.Context, caller Identity, id string, patch ProductPatch) (*models.Product, error) {
	product, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	in := ProductInput{
		Title:       product.Title,
		Description: product.Description,
		Price:       &product.Price,
		Image:       product.Image,
	}
	if patch.Title != nil {
		in.Title = *patch.Title
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Price != nil {
		in.Price = patch.Price
	}
	if patch.Image != nil {
		in.Image = *patch.Image
	}
	return s.UpdateProduct(ctx, caller, id, in)
}

// DeleteProduct deletes a product the caller owns.
func (s *ProductService) DeleteProduct(ctx context.Context, caller Identity, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return translate(s.repo.Delete(ctx, id))
}

// owned loads a product and checks that caller is its owner.
func (s *ProductService) owned(ctx context.Context, caller Identity, id string) (*models.Product, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != caller.UserID {
		return nil, fmt.Errorf("product %s belongs to another user: %w", id, ErrForbidden)
	}
	return product, nil
}

// check validates a product payload and returns the price rounded to cents.
func (s *ProductService) check(in ProductInput) (decimal.Decimal, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate.Struct(in); err != nil {
		return decimal.Zero, toFieldErrors(err)
	}

	price := *in.Price
	switch {
	case price.IsNegative():
		return decimal.Zero, fieldError("price", "Ensure this value is greater than or equal to 0.")
	case price.Exponent() < -2 && !price.Equal(price.Round(2)):
		return decimal.Zero, fieldError("price", "Ensure that there are no more than 2 decimal places.")
	case price.GreaterThanOrEqual(maxPrice):
		return decimal.Zero, fieldError("price", "Ensure that there are no more than 10 digits in total.")
	}
	return price.Round(2), nil
}

// translate maps repository lookups that found nothing onto ErrNotFound.
func translate(err error) error {
	if err != nil && errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%v: %w", err, ErrNotFound)
	}
	return err
}
