package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	"github.com/torqueline/partsportal-backend/pkg/pagination"
)

// SearchFilter narrows the catalogue search.
type SearchFilter struct {
	Query     string
	PartTypes []enums.PartType
	Limit     int
	Cursor    *pagination.Cursor
}

// Repository wires together product persistence helpers.
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

// FindByID loads a product with its pricing associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("RefPrice").
		Preload("BandPrices").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByPartNo loads a product by part number. Part numbers are stored
// uppercase so the lookup normalises its input first.
func (r *Repository) FindByPartNo(ctx context.Context, partNo string) (*models.Product, error) {
	normalized := strings.ToUpper(strings.TrimSpace(partNo))
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("RefPrice").
		Preload("BandPrices").
		First(&product, "part_no = ?", normalized).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindLiveByIDs loads active products for the given IDs with pricing
// associations preloaded.
func (r *Repository) FindLiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Preload("RefPrice").
		Preload("BandPrices").
		Where("id IN ? AND is_active = true", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ExistsLiveByPartNo reports whether an active product carries the part number.
func (r *Repository) ExistsLiveByPartNo(ctx context.Context, partNo string) (bool, error) {
	normalized := strings.ToUpper(strings.TrimSpace(partNo))
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("part_no = ? AND is_active = true", normalized).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search returns active products matching the filter, newest first, using
// cursor pagination. Callers pass LimitWithBuffer to detect the next page.
func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("RefPrice").
		Preload("BandPrices").
		Where("is_active = true")

	if trimmed := strings.TrimSpace(filter.Query); trimmed != "" {
		like := "%" + strings.ToUpper(trimmed) + "%"
		query = query.Where("part_no LIKE ? OR UPPER(description) LIKE ?", like, like)
	}
	if len(filter.PartTypes) > 0 {
		query = query.Where("part_type IN ?", filter.PartTypes)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
