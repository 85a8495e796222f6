package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
)

// Unavailability reasons carried on a failed resolution.
const (
	ReasonEntitlement      = "entitlement"
	ReasonNoBandAssignment = "no_band_assignment"
	ReasonNoBandPrice      = "no_band_price"
)

// Resolution is the outcome of pricing one product for one dealer account at
// one instant. When Available is false the product must not be sold and
// Reason explains why.
type Resolution struct {
	ProductID       uuid.UUID
	UnitPrice       decimal.Decimal
	Source          enums.PriceSource
	BandCode        string
	MinPriceApplied bool
	Available       bool
	Reason          string
}

// Resolver prices a batch of products for a dealer account as of a given
// instant. Every product in the input gets an entry in the result.
type Resolver interface {
	ResolvePrices(ctx context.Context, accountID uuid.UUID, entitlement enums.Entitlement, products []models.Product, asOf time.Time) (map[uuid.UUID]Resolution, error)
}

type assignmentLister interface {
	ListAssignments(ctx context.Context, accountID uuid.UUID) ([]models.DealerBandAssignment, error)
}

type specialLister interface {
	ListActiveSpecials(ctx context.Context, accountID uuid.UUID, productIDs []uuid.UUID, asOf time.Time) ([]models.SpecialPrice, error)
}

type resolver struct {
	assignments assignmentLister
	specials    specialLister
}

// NewResolver constructs the batched price resolver.
func NewResolver(assignments assignmentLister, specials specialLister) (Resolver, error) {
	if assignments == nil {
		return nil, fmt.Errorf("assignment lister required")
	}
	if specials == nil {
		return nil, fmt.Errorf("special price lister required")
	}
	return &resolver{assignments: assignments, specials: specials}, nil
}

// ResolvePrices applies the pricing rules in order: a live special wins
// outright, otherwise the account's tier band price applies with the minimum
// floor clamp. A special is never clamped to the floor. Products the
// entitlement hides, and products with no band assignment or band price,
// resolve as unavailable.
func (r *resolver) ResolvePrices(ctx context.Context, accountID uuid.UUID, entitlement enums.Entitlement, products []models.Product, asOf time.Time) (map[uuid.UUID]Resolution, error) {
	result := make(map[uuid.UUID]Resolution, len(products))
	if len(products) == 0 {
		return result, nil
	}

	assignments, err := r.assignments.ListAssignments(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading band assignments")
	}
	bandByPartType := make(map[enums.PartType]string, len(assignments))
	for _, a := range assignments {
		bandByPartType[a.PartType] = a.BandCode
	}

	productIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}
	specials, err := r.specials.ListActiveSpecials(ctx, accountID, productIDs, asOf)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading special prices")
	}
	specialByProduct := pickSpecials(specials)

	for _, product := range products {
		result[product.ID] = r.resolveOne(product, entitlement, bandByPartType, specialByProduct)
	}
	return result, nil
}

func (r *resolver) resolveOne(
	product models.Product,
	entitlement enums.Entitlement,
	bandByPartType map[enums.PartType]string,
	specialByProduct map[uuid.UUID]models.SpecialPrice,
) Resolution {
	if !entitlement.Allows(product.PartType) {
		return unavailable(product.ID, ReasonEntitlement)
	}

	if special, ok := specialByProduct[product.ID]; ok {
		return Resolution{
			ProductID: product.ID,
			UnitPrice: special.Price,
			Source:    enums.PriceSourceSpecial,
			Available: true,
		}
	}

	bandCode, ok := bandByPartType[product.PartType]
	if !ok {
		return unavailable(product.ID, ReasonNoBandAssignment)
	}

	var bandPrice *decimal.Decimal
	for _, bp := range product.BandPrices {
		if bp.BandCode == bandCode {
			price := bp.Price
			bandPrice = &price
			break
		}
	}
	if bandPrice == nil {
		return unavailable(product.ID, ReasonNoBandPrice)
	}

	price := *bandPrice
	clamped := false
	if product.RefPrice != nil && product.RefPrice.FloorPrice != nil && price.LessThan(*product.RefPrice.FloorPrice) {
		price = *product.RefPrice.FloorPrice
		clamped = true
	}

	return Resolution{
		ProductID:       product.ID,
		UnitPrice:       price,
		Source:          enums.PriceSourceTier,
		BandCode:        bandCode,
		MinPriceApplied: clamped,
		Available:       true,
	}
}

// pickSpecials chooses one special per product. Account-scoped specials beat
// global ones; within the same scope the lowest price wins.
func pickSpecials(specials []models.SpecialPrice) map[uuid.UUID]models.SpecialPrice {
	chosen := make(map[uuid.UUID]models.SpecialPrice)
	for _, candidate := range specials {
		current, ok := chosen[candidate.ProductID]
		if !ok {
			chosen[candidate.ProductID] = candidate
			continue
		}
		if betterSpecial(candidate, current) {
			chosen[candidate.ProductID] = candidate
		}
	}
	return chosen
}

func betterSpecial(candidate, current models.SpecialPrice) bool {
	candidateScoped := candidate.DealerAccountID != nil
	currentScoped := current.DealerAccountID != nil
	if candidateScoped != currentScoped {
		return candidateScoped
	}
	return candidate.Price.LessThan(current.Price)
}

func unavailable(productID uuid.UUID, reason string) Resolution {
	return Resolution{
		ProductID: productID,
		Source:    enums.PriceSourceNone,
		Available: false,
		Reason:    reason,
	}
}
