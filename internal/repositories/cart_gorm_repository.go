package repositories

import (
	"context"
	"errors"
	"fmt"
	"toko/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
//
// Writes take a row lock on the user's cart first, so all mutations of one
// cart are serialised while different carts proceed independently.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetOrCreate returns the user's cart with its lines and their products.
func (r *GORMCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	var cart *models.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if cart, err = lockCart(tx, userID); err != nil {
			return err
		}
		cart.Items, err = loadItems(tx, "cart_id = ?", cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity of a product to the cart. An existing line for the
// product is incremented in place; otherwise a new line is created.
func (r *GORMCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, bool, error) {
	var (
		item    *models.CartItem
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up product %s: %w", productID, err)
		}
		if count == 0 {
			return fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}

		var line models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&line).Error
		switch {
		case err == nil:
			err = tx.Model(&models.CartItem{}).
				Where("id = ?", line.ID).
				Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
			if err != nil {
				return fmt.Errorf("failed to increment cart line %s: %w", line.ID, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = models.CartItem{
				ID:        uuid.New().String(),
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
			}
			if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
				return fmt.Errorf("failed to create cart line: %w", err)
			}
			created = true
		default:
			return fmt.Errorf("failed to look up cart line: %w", err)
		}

		item, err = loadItem(tx, line.ID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return item, created, nil
}

// SetItemQuantity replaces the quantity of one line of the user's cart.
func (r *GORMCartRepository) SetItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.CartItem, error) {
	var item *models.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		res := tx.Model(&models.CartItem{}).
			Where("id = ? AND cart_id = ?", itemID, cart.ID).
			Update("quantity", quantity)
		if res.Error != nil {
			return fmt.Errorf("failed to update cart line %s: %w", itemID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		item, err = loadItem(tx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes one line of the user's cart.
func (r *GORMCartRepository) RemoveItem(ctx context.Context, userID, itemID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete cart line %s: %w", itemID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		return nil
	})
}

// Clear deletes every line of the user's cart.
func (r *GORMCartRepository) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart %s: %w", cart.ID, err)
		}
		return nil
	})
}

// Checkout converts the cart into an order in a single transaction: the cart
// row is locked, its lines are read and handed to snapshot, the resulting
// order and its items are inserted and the lines are deleted. Either all of
// it is committed or none of it is.
func (r *GORMCartRepository) Checkout(ctx context.Context, userID string, snapshot SnapshotFunc) (*models.Order, error) {
	var order *models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		items, err := loadItems(tx, "cart_id = ?", cart.ID)
		if err != nil {
			return err
		}

		if order, err = snapshot(items); err != nil {
			return err
		}
		order.UserID = userID
		if order.ID == "" {
			order.ID = uuid.New().String()
		}
		for i := range order.Items {
			order.Items[i].Position = i
			if order.Items[i].ID == "" {
				order.Items[i].ID = uuid.New().String()
			}
		}

		if err := tx.Omit("User").Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to empty cart %s: %w", cart.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// lockCart returns the user's cart, inserting it if missing, and holds a row
// lock on it until tx ends. The unique index on user_id makes the insert
// idempotent under concurrent first access.
func lockCart(tx *gorm.DB, userID string) (*models.Cart, error) {
	fresh := models.Cart{ID: uuid.New().String(), UserID: userID}
	err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&fresh).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
	}

	var cart models.Cart
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

func loadItems(tx *gorm.DB, query string, args ...interface{}) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := tx.Preload("Product.Owner").
		Where(query, args...).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	return items, nil
}

func loadItem(tx *gorm.DB, id string) (*models.CartItem, error) {
	items, err := loadItems(tx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cart item %s: %w", id, ErrNotFound)
	}
	return &items[0], nil
}
