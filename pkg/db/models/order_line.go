package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// OrderLine snapshots everything about a cart line at checkout time so the
// order stays meaningful even if the product later changes or disappears.
type OrderLine struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	PartNo      string            `gorm:"column:part_no;not null"`
	Description string            `gorm:"column:description;not null"`
	PartType    enums.PartType    `gorm:"column:part_type;not null"`
	Qty         int               `gorm:"column:qty;not null"`
	UnitPrice   decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal   decimal.Decimal   `gorm:"column:line_total;type:numeric(12,2);not null"`
	PriceSource enums.PriceSource `gorm:"column:price_source;not null"`
	// BandCode is empty when the price came from a special.
	BandCode        string    `gorm:"column:band_code;not null;default:''"`
	MinPriceApplied bool      `gorm:"column:min_price_applied;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
