package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/internal/dealers"
	"github.com/torqueline/partsportal-backend/internal/pricing"
	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
)

type stubCatalogue struct {
	byID       map[uuid.UUID]*models.Product
	searchRows []models.Product
	lastFilter SearchFilter
}

func (s *stubCatalogue) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogue) Search(ctx context.Context, filter SearchFilter) ([]models.Product, error) {
	s.lastFilter = filter
	return s.searchRows, nil
}

type stubResolver struct {
	resolutions map[uuid.UUID]pricing.Resolution
}

func (s *stubResolver) ResolvePrices(ctx context.Context, accountID uuid.UUID, entitlement enums.Entitlement, prods []models.Product, asOf time.Time) (map[uuid.UUID]pricing.Resolution, error) {
	out := make(map[uuid.UUID]pricing.Resolution, len(prods))
	for _, p := range prods {
		if res, ok := s.resolutions[p.ID]; ok {
			out[p.ID] = res
		} else {
			out[p.ID] = pricing.Resolution{ProductID: p.ID, Source: enums.PriceSourceNone, Reason: pricing.ReasonNoBandAssignment}
		}
	}
	return out, nil
}

func showAllActor() dealers.Actor {
	return dealers.Actor{UserID: uuid.New(), AccountID: uuid.New(), Entitlement: enums.EntitlementShowAll}
}

func activeProduct(partNo string, partType enums.PartType) *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		PartNo:      partNo,
		Description: partNo + " description",
		PartType:    partType,
		StockQty:    4,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
}

func priced(productID uuid.UUID, price string) pricing.Resolution {
	return pricing.Resolution{
		ProductID: productID,
		UnitPrice: decimal.RequireFromString(price),
		Source:    enums.PriceSourceTier,
		Available: true,
	}
}

func TestGetReturnsPricedProduct(t *testing.T) {
	product := activeProduct("BP-100", enums.PartTypeGenuine)
	repo := &stubCatalogue{byID: map[uuid.UUID]*models.Product{product.ID: product}}
	svc, err := NewService(repo, &stubResolver{resolutions: map[uuid.UUID]pricing.Resolution{
		product.ID: priced(product.ID, "19.99"),
	}}, nil)
	require.NoError(t, err)

	dto, err := svc.Get(context.Background(), showAllActor(), product.ID)
	require.NoError(t, err)
	require.True(t, dto.Available)
	require.True(t, dto.UnitPrice.Equal(decimal.RequireFromString("19.99")))
	require.Equal(t, enums.PriceSourceTier, dto.PriceSource)
}

func TestGetMasksHiddenPartTypeAsNotFound(t *testing.T) {
	product := activeProduct("BP-100", enums.PartTypeGenuine)
	repo := &stubCatalogue{byID: map[uuid.UUID]*models.Product{product.ID: product}}
	svc, err := NewService(repo, &stubResolver{}, nil)
	require.NoError(t, err)

	actor := showAllActor()
	actor.Entitlement = enums.EntitlementAftermarketOnly

	_, err = svc.Get(context.Background(), actor, product.ID)
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound))
}

func TestGetUnpricedProductIsFlaggedUnavailable(t *testing.T) {
	product := activeProduct("BP-100", enums.PartTypeGenuine)
	repo := &stubCatalogue{byID: map[uuid.UUID]*models.Product{product.ID: product}}
	svc, err := NewService(repo, &stubResolver{}, nil)
	require.NoError(t, err)

	dto, err := svc.Get(context.Background(), showAllActor(), product.ID)
	require.NoError(t, err)
	require.False(t, dto.Available)
	require.Nil(t, dto.UnitPrice)
	require.Equal(t, enums.PriceSourceNone, dto.PriceSource)
}

func TestSearchRestrictsPartTypesToEntitlement(t *testing.T) {
	repo := &stubCatalogue{}
	svc, err := NewService(repo, &stubResolver{}, nil)
	require.NoError(t, err)

	actor := showAllActor()
	actor.Entitlement = enums.EntitlementGenuineOnly

	_, err = svc.Search(context.Background(), actor, SearchInput{})
	require.NoError(t, err)
	require.Equal(t, []enums.PartType{enums.PartTypeGenuine}, repo.lastFilter.PartTypes)
}

func TestSearchEmptyWhenFilterOutsideEntitlement(t *testing.T) {
	repo := &stubCatalogue{searchRows: []models.Product{*activeProduct("BP-100", enums.PartTypeGenuine)}}
	svc, err := NewService(repo, &stubResolver{}, nil)
	require.NoError(t, err)

	actor := showAllActor()
	actor.Entitlement = enums.EntitlementAftermarketOnly
	genuine := enums.PartTypeGenuine

	result, err := svc.Search(context.Background(), actor, SearchInput{PartType: &genuine})
	require.NoError(t, err)
	require.Empty(t, result.Products)
}

func TestSearchPaginatesWithCursor(t *testing.T) {
	var rows []models.Product
	for i := 0; i < 26; i++ {
		rows = append(rows, *activeProduct("BP-1", enums.PartTypeGenuine))
	}
	repo := &stubCatalogue{searchRows: rows}
	svc, err := NewService(repo, &stubResolver{}, nil)
	require.NoError(t, err)

	result, err := svc.Search(context.Background(), showAllActor(), SearchInput{})
	require.NoError(t, err)
	require.Len(t, result.Products, 25)
	require.NotEmpty(t, result.NextCursor)
}
