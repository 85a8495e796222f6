package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRefPrice holds the list price and minimum floor for a product.
type ProductRefPrice struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	ListPrice  decimal.Decimal  `gorm:"column:list_price;type:numeric(12,2);not null"`
	FloorPrice *decimal.Decimal `gorm:"column:floor_price;type:numeric(12,2)"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
