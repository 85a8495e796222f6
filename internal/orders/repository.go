package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/pagination"
)

// Repository wires together order persistence helpers.
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

// NextOrderNo bumps the order sequence row and returns the allocated value.
// Run inside the checkout transaction the row lock serialises concurrent
// checkouts, so two orders can never share a number.
func (r *Repository) NextOrderNo(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).
		Raw("UPDATE order_sequences SET next_value = next_value + 1 WHERE id = 1 RETURNING next_value").
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	if next <= 0 {
		return 0, fmt.Errorf("order sequence row missing")
	}
	return next, nil
}

// CreateHeader persists the order header.
func (r *Repository) CreateHeader(ctx context.Context, header *models.OrderHeader) error {
	return r.db.WithContext(ctx).Create(header).Error
}

// CreateLines persists the snapshot lines.
func (r *Repository) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// CreateExportLines persists the fulfilment feed rows.
func (r *Repository) CreateExportLines(ctx context.Context, lines []models.ExportLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// FindByID loads one order with its lines, scoped to the account so dealers
// can only read their own orders.
func (r *Repository) FindByID(ctx context.Context, accountID, orderID uuid.UUID) (*models.OrderHeader, error) {
	var header models.OrderHeader
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&header, "id = ? AND dealer_account_id = ?", orderID, accountID).Error; err != nil {
		return nil, err
	}
	return &header, nil
}

// ListByAccount returns the account's orders newest first with cursor
// pagination. Lines are not loaded on the list path.
func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.OrderHeader, error) {
	query := r.db.WithContext(ctx).
		Where("dealer_account_id = ?", accountID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.OrderHeader
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
