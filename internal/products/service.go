package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/internal/dealers"
	"github.com/torqueline/partsportal-backend/internal/pricing"
	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
	"github.com/torqueline/partsportal-backend/pkg/pagination"
)

// SearchInput is the validated catalogue search request.
type SearchInput struct {
	Query    string
	PartType *enums.PartType
	Page     pagination.Params
}

// Service exposes the dealer-facing catalogue.
type Service interface {
	Get(ctx context.Context, actor dealers.Actor, productID uuid.UUID) (*DTO, error)
	Search(ctx context.Context, actor dealers.Actor, input SearchInput) (*SearchResult, error)
}

type catalogue interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Search(ctx context.Context, filter SearchFilter) ([]models.Product, error)
}

type service struct {
	repo     catalogue
	resolver pricing.Resolver
	now      func() time.Time
}

// NewService constructs a catalogue service instance.
func NewService(repo catalogue, resolver pricing.Resolver, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, resolver: resolver, now: now}, nil
}

// Get returns one product priced for the actor. Products the entitlement
// hides are reported as missing, not forbidden.
func (s *service) Get(ctx context.Context, actor dealers.Actor, productID uuid.UUID) (*DTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive || !actor.Entitlement.Allows(product.PartType) {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
	}

	resolutions, err := s.resolver.ResolvePrices(ctx, actor.AccountID, actor.Entitlement, []models.Product{*product}, s.now())
	if err != nil {
		return nil, err
	}

	dto := toDTO(*product, resolutions[product.ID])
	return &dto, nil
}

// Search lists active products the entitlement permits, priced for the
// actor. Unpriceable products still appear so dealers can see the range, but
// carry no price and are flagged unavailable.
func (s *service) Search(ctx context.Context, actor dealers.Actor, input SearchInput) (*SearchResult, error) {
	partTypes := visiblePartTypes(actor.Entitlement, input.PartType)
	if len(partTypes) == 0 {
		return &SearchResult{Products: []DTO{}}, nil
	}

	cursor, err := pagination.ParseCursor(input.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Page.Limit)

	rows, err := s.repo.Search(ctx, SearchFilter{
		Query:     input.Query,
		PartTypes: partTypes,
		Limit:     pagination.LimitWithBuffer(input.Page.Limit),
		Cursor:    cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching products")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	resolutions, err := s.resolver.ResolvePrices(ctx, actor.AccountID, actor.Entitlement, rows, s.now())
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Products: make([]DTO, 0, len(rows))}
	for _, row := range rows {
		result.Products = append(result.Products, toDTO(row, resolutions[row.ID]))
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

// visiblePartTypes intersects the entitlement with the requested filter.
func visiblePartTypes(entitlement enums.Entitlement, requested *enums.PartType) []enums.PartType {
	all := []enums.PartType{enums.PartTypeGenuine, enums.PartTypeAftermarket, enums.PartTypeAccessory}
	var visible []enums.PartType
	for _, pt := range all {
		if !entitlement.Allows(pt) {
			continue
		}
		if requested != nil && *requested != pt {
			continue
		}
		visible = append(visible, pt)
	}
	return visible
}

func toDTO(product models.Product, resolution pricing.Resolution) DTO {
	dto := DTO{
		ID:          product.ID,
		PartNo:      product.PartNo,
		Description: product.Description,
		PartType:    product.PartType,
		Brand:       product.Brand,
		StockQty:    product.StockQty,
		PriceSource: enums.PriceSourceNone,
	}
	if resolution.Available {
		price := resolution.UnitPrice
		dto.UnitPrice = &price
		dto.PriceSource = resolution.Source
		dto.Available = true
	}
	return dto
}
