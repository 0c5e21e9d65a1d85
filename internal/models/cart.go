package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single shopping cart of a user.
type Cart struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `gorm:"type:varchar(36);uniqueIndex;not null"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Items     []CartItem `gorm:"foreignKey:CartID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalPrice sums the subtotals of all lines. Items must have Product loaded.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal())
	}
	return total
}

// CartItem is one product line in a cart. A cart holds at most one line per product.
type CartItem struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)"`
	CartID    string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_product"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal is the unit price times quantity. It is never stored.
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
