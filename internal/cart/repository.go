package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/torqueline/partsportal-backend/pkg/db"
	"github.com/torqueline/partsportal-backend/pkg/db/models"
)

// Repository wires together cart persistence helpers.
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

// GetOrCreate returns the user's cart, creating an empty one on first use.
// Two first requests racing on the create both land on the same row: the
// loser's insert hits the dealer_user_id unique index and re-reads.
func (r *Repository) GetOrCreate(ctx context.Context, dealerUserID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where(models.Cart{DealerUserID: dealerUserID}).
		FirstOrCreate(&cart).Error
	if db.IsUniqueViolation(err, "") {
		err = r.db.WithContext(ctx).
			First(&cart, "dealer_user_id = ?", dealerUserID).Error
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ListItems returns the cart's lines with products and their pricing
// associations preloaded, oldest line first.
func (r *Repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.RefPrice").
		Preload("Product.BandPrices").
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertItem inserts the line or bumps the quantity when the product is
// already in the cart. The conflict target is the (cart_id, product_id)
// unique constraint so concurrent adds merge instead of erroring.
func (r *Repository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	item := models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Qty:       qty,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"qty":        gorm.Expr("cart_items.qty + ?", qty),
				"updated_at": time.Now(),
			}),
		}).
		Create(&item).Error
}

// FindItem loads one line scoped to the cart. Scoping by cart id is the
// ownership check: another user's item id simply does not match.
func (r *Repository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		First(&item, "id = ? AND cart_id = ?", itemID, cartID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemQty sets the absolute quantity on a line scoped to the cart.
func (r *Repository) UpdateItemQty(ctx context.Context, cartID, itemID uuid.UUID, qty int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("qty", qty)
	return result.RowsAffected, result.Error
}

// DeleteItem removes a line scoped to the cart.
func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// DeleteItemsByCartID clears every line in the cart. Checkout calls this
// inside its transaction so the clear commits with the order.
func (r *Repository) DeleteItemsByCartID(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
