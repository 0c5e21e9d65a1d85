package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item in the catalog. Only its owner may change it.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string          `json:"-" gorm:"type:varchar(36);index;not null"`
	Owner       User            `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Title       string          `json:"title" gorm:"type:varchar(100);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Image       string          `json:"image" gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"-"`
}
