package models

import (
	"time"

	"github.com/google/uuid"
)

// DealerUser is an individual login under a dealer account. Each user owns at
// most one cart.
type DealerUser struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealerAccountID uuid.UUID      `gorm:"column:dealer_account_id;type:uuid;not null"`
	Email           string         `gorm:"column:email;not null;uniqueIndex"`
	DisplayName     string         `gorm:"column:display_name;not null"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true"`
	Account         *DealerAccount `gorm:"foreignKey:DealerAccountID"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
