package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// DealerAccount is the trading entity a dealer user belongs to. Pricing band
// assignments, entitlement, and order export identity all hang off the account.
type DealerAccount struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountNo   string             `gorm:"column:account_no;not null;uniqueIndex"`
	CompanyName string             `gorm:"column:company_name;not null"`
	Status      enums.DealerStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	Entitlement enums.Entitlement  `gorm:"column:entitlement;not null;default:'SHOW_ALL'"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
