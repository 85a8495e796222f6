package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single mutable basket owned by a dealer user.
type Cart struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealerUserID uuid.UUID  `gorm:"column:dealer_user_id;type:uuid;not null;uniqueIndex"`
	Items        []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
