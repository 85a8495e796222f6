package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// OrderHeader is the immutable order record written at checkout. Monetary
// fields are frozen snapshots and never recomputed.
type OrderHeader struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNo         string            `gorm:"column:order_no;not null;uniqueIndex"`
	DealerAccountID uuid.UUID         `gorm:"column:dealer_account_id;type:uuid;not null;index"`
	DealerUserID    uuid.UUID         `gorm:"column:dealer_user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'SUSPENDED'"`
	DispatchMethod  *string           `gorm:"column:dispatch_method"`
	PORef           *string           `gorm:"column:po_ref"`
	Notes           *string           `gorm:"column:notes"`
	Currency        enums.Currency    `gorm:"column:currency;not null"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	TotalItems      int               `gorm:"column:total_items;not null"`
	Lines           []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt        time.Time         `gorm:"column:placed_at;not null"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
