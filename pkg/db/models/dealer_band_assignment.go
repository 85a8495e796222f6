package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// DealerBandAssignment maps a dealer account to a tier band per part type.
// A missing assignment means the dealer cannot buy that part type at all.
type DealerBandAssignment struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealerAccountID uuid.UUID      `gorm:"column:dealer_account_id;type:uuid;not null;uniqueIndex:idx_band_assignments_account_part_type"`
	PartType        enums.PartType `gorm:"column:part_type;not null;uniqueIndex:idx_band_assignments_account_part_type"`
	BandCode        string         `gorm:"column:band_code;not null"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
