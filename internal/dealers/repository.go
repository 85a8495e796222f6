package dealers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
)

// Repository wires together dealer account and user persistence helpers.
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

// FindAccountByID loads a dealer account.
func (r *Repository) FindAccountByID(ctx context.Context, id uuid.UUID) (*models.DealerAccount, error) {
	var account models.DealerAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindUserByID loads a dealer user together with its account.
func (r *Repository) FindUserByID(ctx context.Context, id uuid.UUID) (*models.DealerUser, error) {
	var user models.DealerUser
	if err := r.db.WithContext(ctx).
		Preload("Account").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
