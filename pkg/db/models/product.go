package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// Product is the canonical catalogue row. Pricing inputs are attached as
// associations so the resolver can preload them in one pass.
type Product struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartNo      string             `gorm:"column:part_no;not null;uniqueIndex"`
	Description string             `gorm:"column:description;not null"`
	PartType    enums.PartType     `gorm:"column:part_type;not null"`
	Brand       *string            `gorm:"column:brand"`
	StockQty    int                `gorm:"column:stock_qty;not null;default:0"`
	IsActive    bool               `gorm:"column:is_active;not null;default:true"`
	RefPrice    *ProductRefPrice   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	BandPrices  []ProductBandPrice `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
