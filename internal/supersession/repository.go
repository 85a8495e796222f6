package supersession

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
)

// Repository looks up supersession chain records.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByOriginalPart returns the supersession record for a part number, or
// nil when the part has never been superseded. Part numbers are stored
// uppercase.
func (r *Repository) FindByOriginalPart(ctx context.Context, partNo string) (*models.Supersession, error) {
	normalized := strings.ToUpper(strings.TrimSpace(partNo))
	var row models.Supersession
	err := r.db.WithContext(ctx).First(&row, "original_part = ?", normalized).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
