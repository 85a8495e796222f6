package models

import (
	"time"

	"github.com/google/uuid"
)

// Supersession records that an original part number has been replaced. The
// latest part number is the fully resolved end of the chain, with depth
// counting the hops taken to reach it.
type Supersession struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OriginalPart string    `gorm:"column:original_part;not null;uniqueIndex"`
	LatestPart   string    `gorm:"column:latest_part;not null"`
	Depth        int       `gorm:"column:depth;not null;default:1"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
