package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExportLine is the flat per-line row consumed by the downstream fulfilment
// feed. It denormalises the account identity so the exporter never joins.
type ExportLine struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	PortalOrderNo string          `gorm:"column:portal_order_no;not null"`
	AccountNo     string          `gorm:"column:account_no;not null"`
	CompanyName   string          `gorm:"column:company_name;not null"`
	PartNo        string          `gorm:"column:part_no;not null"`
	Qty           int             `gorm:"column:qty;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal     decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	TotalItems    int             `gorm:"column:total_items;not null"`
	Exported      bool            `gorm:"column:exported;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
