package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/internal/dealers"
	"github.com/torqueline/partsportal-backend/internal/pricing"
	"github.com/torqueline/partsportal-backend/internal/supersession"
	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
)

// Service exposes the dealer cart operations. Every read reprices the cart
// from scratch; stored lines hold product and quantity only.
type Service interface {
	GetCart(ctx context.Context, actor dealers.Actor) (*DTO, error)
	AddItem(ctx context.Context, actor dealers.Actor, productID uuid.UUID, qty int) (*DTO, error)
	UpdateItemQty(ctx context.Context, actor dealers.Actor, itemID uuid.UUID, qty int) (*DTO, error)
	RemoveItem(ctx context.Context, actor dealers.Actor, itemID uuid.UUID) (*DTO, error)
	Clear(ctx context.Context, actor dealers.Actor) (*DTO, error)
}

type cartStore interface {
	GetOrCreate(ctx context.Context, dealerUserID uuid.UUID) (*models.Cart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, qty int) error
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	UpdateItemQty(ctx context.Context, cartID, itemID uuid.UUID, qty int) (int64, error)
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (int64, error)
	DeleteItemsByCartID(ctx context.Context, cartID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByPartNo(ctx context.Context, partNo string) (*models.Product, error)
}

type service struct {
	repo     cartStore
	products productLoader
	resolver pricing.Resolver
	guard    supersession.Guard
	currency enums.Currency
	now      func() time.Time
}

// NewService constructs a cart service instance.
func NewService(repo cartStore, products productLoader, resolver pricing.Resolver, guard supersession.Guard, currency enums.Currency, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	if guard == nil {
		return nil, fmt.Errorf("supersession guard required")
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("invalid currency %q", currency)
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     repo,
		products: products,
		resolver: resolver,
		guard:    guard,
		currency: currency,
		now:      now,
	}, nil
}

func (s *service) GetCart(ctx context.Context, actor dealers.Actor) (*DTO, error) {
	cart, err := s.repo.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return s.enrich(ctx, actor, cart.ID)
}

func (s *service) AddItem(ctx context.Context, actor dealers.Actor, productID uuid.UUID, qty int) (*DTO, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
	}
	// A hidden part type looks identical to a missing product from the
	// dealer's side.
	if !actor.Entitlement.Allows(product.PartType) {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
	}

	if err := s.guard.Check(ctx, product.PartNo); err != nil {
		return nil, err
	}

	// No price gate here: an unpriceable line goes in and shows up
	// unavailable on the enriched read. Checkout is where availability
	// becomes binding.
	cart, err := s.repo.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if err := s.repo.UpsertItem(ctx, cart.ID, product.ID, qty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
	}

	return s.enrich(ctx, actor, cart.ID)
}

func (s *service) UpdateItemQty(ctx context.Context, actor dealers.Actor, itemID uuid.UUID, qty int) (*DTO, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}

	cart, err := s.repo.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeCartItemNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	// Supersession data may have changed since the line was added.
	if item.Product != nil {
		if err := s.guard.Check(ctx, item.Product.PartNo); err != nil {
			return nil, err
		}
	}

	affected, err := s.repo.UpdateItemQty(ctx, cart.ID, itemID, qty)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeCartItemNotFound, "cart item not found")
	}

	return s.enrich(ctx, actor, cart.ID)
}

func (s *service) RemoveItem(ctx context.Context, actor dealers.Actor, itemID uuid.UUID) (*DTO, error) {
	cart, err := s.repo.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	affected, err := s.repo.DeleteItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeCartItemNotFound, "cart item not found")
	}

	return s.enrich(ctx, actor, cart.ID)
}

func (s *service) Clear(ctx context.Context, actor dealers.Actor) (*DTO, error) {
	cart, err := s.repo.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	if err := s.repo.DeleteItemsByCartID(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}

	return s.enrich(ctx, actor, cart.ID)
}

// enrich loads the cart lines and prices them as of now. Lines whose product
// has gone missing or inactive stay visible but unpriced so the dealer can
// remove them.
func (s *service) enrich(ctx context.Context, actor dealers.Actor, cartID uuid.UUID) (*DTO, error) {
	items, err := s.repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart items")
	}

	var priceable []models.Product
	for _, item := range items {
		if item.Product != nil && item.Product.IsActive {
			priceable = append(priceable, *item.Product)
		}
	}

	resolutions, err := s.resolver.ResolvePrices(ctx, actor.AccountID, actor.Entitlement, priceable, s.now())
	if err != nil {
		return nil, err
	}

	dto := &DTO{
		CartID:   cartID,
		Items:    make([]ItemDTO, 0, len(items)),
		Subtotal: decimal.Zero,
		Currency: s.currency,
	}

	for _, item := range items {
		line := ItemDTO{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			Qty:         item.Qty,
			PriceSource: enums.PriceSourceNone,
		}

		if item.Product == nil || !item.Product.IsActive {
			line.Reason = "product_inactive"
			if item.Product != nil {
				line.PartNo = item.Product.PartNo
				line.Description = item.Product.Description
				line.PartType = item.Product.PartType
			}
			dto.Items = append(dto.Items, line)
			continue
		}

		line.PartNo = item.Product.PartNo
		line.Description = item.Product.Description
		line.PartType = item.Product.PartType

		s.annotateSupersession(ctx, &line)

		resolution := resolutions[item.ProductID]
		if resolution.Available {
			unit := resolution.UnitPrice
			total := unit.Mul(decimal.NewFromInt(int64(item.Qty)))
			line.UnitPrice = &unit
			line.LineTotal = &total
			line.PriceSource = resolution.Source
			line.Available = true
			dto.Subtotal = dto.Subtotal.Add(total)
		} else {
			line.Reason = resolution.Reason
		}

		dto.Items = append(dto.Items, line)
		dto.TotalItems += item.Qty
	}

	return dto, nil
}

func (s *service) annotateSupersession(ctx context.Context, line *ItemDTO) {
	err := s.guard.Check(ctx, line.PartNo)
	if err == nil {
		return
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeItemSuperseded {
		return
	}
	line.Superseded = true
	details, ok := typed.Details().(supersession.BlockedDetails)
	if !ok {
		return
	}
	line.ReplacementPartNo = details.ReplacementPartNo
	line.ReplacementAvailable = details.ReplacementAvailable
	line.SupersessionDepth = details.Depth
	if details.ReplacementAvailable {
		// The replacement's id lets the dealer swap the line in one call.
		if repl, lookupErr := s.products.FindByPartNo(ctx, details.ReplacementPartNo); lookupErr == nil {
			replacementID := repl.ID
			line.ReplacementProductID = &replacementID
		}
	}
}
