package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusCompleted is the only status an order ever has.
const OrderStatusCompleted = "completed"

// OrderItem is a snapshot of a cart line taken at checkout. It keeps a copy of
// the product title and price instead of a product reference.
type OrderItem struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID      string          `json:"-" gorm:"type:varchar(36);index;not null"`
	Position     int             `json:"-" gorm:"not null;default:0"` // line order within the order
	ProductTitle string          `json:"product_title" gorm:"type:varchar(100);not null"`
	ProductPrice decimal.Decimal `json:"product_price" gorm:"type:decimal(10,2);not null"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	Subtotal     decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
}

// Order is an immutable record of a completed checkout.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string          `json:"-" gorm:"type:varchar(36);index;not null"`
	User       User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `json:"created_at" gorm:"index"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Status     string          `json:"status" gorm:"type:varchar(20);not null;default:completed"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
