package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
)

// Repository loads the pricing inputs scoped to a dealer account.
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

// ListAssignments returns every band assignment for the account.
func (r *Repository) ListAssignments(ctx context.Context, accountID uuid.UUID) ([]models.DealerBandAssignment, error) {
	var rows []models.DealerBandAssignment
	if err := r.db.WithContext(ctx).
		Where("dealer_account_id = ?", accountID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveSpecials returns specials covering the products that are live at
// asOf and visible to the account. Global specials (no account scope) are
// included alongside account-scoped ones.
func (r *Repository) ListActiveSpecials(ctx context.Context, accountID uuid.UUID, productIDs []uuid.UUID, asOf time.Time) ([]models.SpecialPrice, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []models.SpecialPrice
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Where("dealer_account_id IS NULL OR dealer_account_id = ?", accountID).
		Where("starts_at <= ? AND ends_at >= ?", asOf, asOf).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
