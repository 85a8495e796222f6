package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SpecialPrice is a time-boxed override for a product. A nil DealerAccountID
// makes the special global; otherwise it applies only to that account.
type SpecialPrice struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	DealerAccountID *uuid.UUID      `gorm:"column:dealer_account_id;type:uuid;index"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StartsAt        time.Time       `gorm:"column:starts_at;not null"`
	EndsAt          time.Time       `gorm:"column:ends_at;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
