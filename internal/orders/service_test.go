package orders

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/internal/dealers"
	"github.com/torqueline/partsportal-backend/internal/pricing"
	"github.com/torqueline/partsportal-backend/internal/rules"
	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
	"github.com/torqueline/partsportal-backend/pkg/logger"
	"github.com/torqueline/partsportal-backend/pkg/metrics"
	"github.com/torqueline/partsportal-backend/pkg/pagination"
)

var errTest = errors.New("export insert failed")

// memRunner mimics the transaction boundary: when the callback fails, every
// store mutation made inside it is rolled back.
type memRunner struct {
	orders *memOrderStore
	carts  *memCartStore
}

func (r memRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	headers := append([]models.OrderHeader(nil), r.orders.headers...)
	lines := append([]models.OrderLine(nil), r.orders.lines...)
	exports := append([]models.ExportLine(nil), r.orders.exportLines...)
	seq := r.orders.seq
	items := append([]models.CartItem(nil), r.carts.items...)
	cleared := r.carts.cleared

	if err := fn(nil); err != nil {
		r.orders.headers, r.orders.lines, r.orders.exportLines, r.orders.seq = headers, lines, exports, seq
		r.carts.items, r.carts.cleared = items, cleared
		return err
	}
	return nil
}

type memOrderStore struct {
	seq         int64
	headers     []models.OrderHeader
	lines       []models.OrderLine
	exportLines []models.ExportLine
	failExport  error
}

func (m *memOrderStore) NextOrderNo(ctx context.Context) (int64, error) {
	m.seq++
	return m.seq, nil
}

func (m *memOrderStore) CreateHeader(ctx context.Context, header *models.OrderHeader) error {
	m.headers = append(m.headers, *header)
	return nil
}

func (m *memOrderStore) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	m.lines = append(m.lines, lines...)
	return nil
}

func (m *memOrderStore) CreateExportLines(ctx context.Context, lines []models.ExportLine) error {
	if m.failExport != nil {
		return m.failExport
	}
	m.exportLines = append(m.exportLines, lines...)
	return nil
}

func (m *memOrderStore) FindByID(ctx context.Context, accountID, orderID uuid.UUID) (*models.OrderHeader, error) {
	for _, h := range m.headers {
		if h.ID == orderID && h.DealerAccountID == accountID {
			header := h
			return &header, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memOrderStore) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.OrderHeader, error) {
	var out []models.OrderHeader
	for _, h := range m.headers {
		if h.DealerAccountID == accountID {
			out = append(out, h)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memCartStore struct {
	cart    models.Cart
	items   []models.CartItem
	cleared bool
}

func (m *memCartStore) GetOrCreate(ctx context.Context, dealerUserID uuid.UUID) (*models.Cart, error) {
	cart := m.cart
	return &cart, nil
}

func (m *memCartStore) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	return m.items, nil
}

func (m *memCartStore) DeleteItemsByCartID(ctx context.Context, cartID uuid.UUID) error {
	m.items = nil
	m.cleared = true
	return nil
}

type stubAccounts struct {
	account *models.DealerAccount
}

func (s *stubAccounts) FindAccountByID(ctx context.Context, id uuid.UUID) (*models.DealerAccount, error) {
	return s.account, nil
}

type stubProductLoader struct {
	products map[uuid.UUID]models.Product
}

func (s *stubProductLoader) FindLiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubResolver struct {
	resolutions map[uuid.UUID]pricing.Resolution
}

func (s *stubResolver) ResolvePrices(ctx context.Context, accountID uuid.UUID, entitlement enums.Entitlement, products []models.Product, asOf time.Time) (map[uuid.UUID]pricing.Resolution, error) {
	out := make(map[uuid.UUID]pricing.Resolution, len(products))
	for _, p := range products {
		if res, ok := s.resolutions[p.ID]; ok {
			out[p.ID] = res
		} else {
			out[p.ID] = pricing.Resolution{ProductID: p.ID, Source: enums.PriceSourceNone, Reason: pricing.ReasonNoBandAssignment}
		}
	}
	return out, nil
}

type stubGuard struct {
	blocked map[string]error
}

func (s *stubGuard) Check(ctx context.Context, partNo string) error {
	if err, ok := s.blocked[partNo]; ok {
		return err
	}
	return nil
}

type fixture struct {
	svc    Service
	orders *memOrderStore
	carts  *memCartStore
	actor  dealers.Actor
}

func newFixture(t *testing.T, status enums.DealerStatus, items []models.CartItem, resolutions map[uuid.UUID]pricing.Resolution, blocked map[string]error) *fixture {
	t.Helper()

	actor := dealers.Actor{
		UserID:      uuid.New(),
		AccountID:   uuid.New(),
		Entitlement: enums.EntitlementShowAll,
	}
	account := &models.DealerAccount{
		ID:          actor.AccountID,
		AccountNo:   "ACC-42",
		CompanyName: "Torque Motors Ltd",
		Status:      status,
		Entitlement: enums.EntitlementShowAll,
	}

	orderStore := &memOrderStore{}
	carts := &memCartStore{cart: models.Cart{ID: uuid.New(), DealerUserID: actor.UserID}, items: items}

	liveProducts := map[uuid.UUID]models.Product{}
	for _, item := range items {
		if item.Product != nil && item.Product.IsActive {
			liveProducts[item.Product.ID] = *item.Product
		}
	}

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})

	svc, err := NewService(
		memRunner{orders: orderStore, carts: carts},
		orderStore,
		func(tx *gorm.DB) Store { return orderStore },
		carts,
		func(tx *gorm.DB) CartStore { return carts },
		&stubAccounts{account: account},
		&stubProductLoader{products: liveProducts},
		&stubResolver{resolutions: resolutions},
		&stubGuard{blocked: blocked},
		metrics.NewCheckoutMetrics(nil),
		logg,
		Config{OrderNoPrefix: "ORD", Currency: enums.CurrencyGBP},
		func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	)
	require.NoError(t, err)
	return &fixture{svc: svc, orders: orderStore, carts: carts, actor: actor}
}

func cartItem(partNo string, qty, stock int, price string) (models.CartItem, pricing.Resolution) {
	product := &models.Product{
		ID:          uuid.New(),
		PartNo:      partNo,
		Description: partNo + " description",
		PartType:    enums.PartTypeGenuine,
		StockQty:    stock,
		IsActive:    true,
	}
	item := models.CartItem{
		ID:        uuid.New(),
		ProductID: product.ID,
		Qty:       qty,
		Product:   product,
	}
	resolution := pricing.Resolution{
		ProductID: product.ID,
		UnitPrice: decimal.RequireFromString(price),
		Source:    enums.PriceSourceTier,
		BandCode:  "B2",
		Available: true,
	}
	return item, resolution
}

func TestCheckoutFreezesCartIntoOrder(t *testing.T) {
	itemA, resA := cartItem("BP-100", 2, 10, "12.50")
	itemB, resB := cartItem("BP-200", 1, 5, "30.00")
	resolutions := map[uuid.UUID]pricing.Resolution{
		itemA.ProductID: resA,
		itemB.ProductID: resB,
	}
	f := newFixture(t, enums.DealerStatusActive, []models.CartItem{itemA, itemB}, resolutions, nil)

	dispatch := "courier"
	dto, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{DispatchMethod: &dispatch})
	require.NoError(t, err)

	require.Equal(t, "ORD-000001", dto.OrderNo)
	require.Equal(t, enums.OrderStatusSuspended, dto.Status)
	require.True(t, dto.Subtotal.Equal(decimal.RequireFromString("55.00")))
	require.True(t, dto.Total.Equal(dto.Subtotal))
	require.Equal(t, 3, dto.TotalItems)
	require.Equal(t, enums.CurrencyGBP, dto.Currency)
	require.Len(t, dto.Lines, 2)

	require.Len(t, f.orders.headers, 1)
	require.Len(t, f.orders.lines, 2)
	require.Equal(t, "BP-100", f.orders.lines[0].PartNo)
	require.Equal(t, enums.PriceSourceTier, f.orders.lines[0].PriceSource)
	require.Equal(t, "B2", f.orders.lines[0].BandCode)
	require.False(t, f.orders.lines[0].MinPriceApplied)
	require.True(t, f.orders.lines[0].LineTotal.Equal(decimal.RequireFromString("25.00")))

	require.Len(t, f.orders.exportLines, 2)
	for _, line := range f.orders.exportLines {
		require.Equal(t, "ACC-42", line.AccountNo)
		require.Equal(t, "Torque Motors Ltd", line.CompanyName)
		require.Equal(t, "ORD-000001", line.PortalOrderNo)
		require.Equal(t, 3, line.TotalItems)
	}

	require.True(t, f.carts.cleared)
}

func TestCheckoutSequencesOrderNumbers(t *testing.T) {
	itemA, resA := cartItem("BP-100", 1, 10, "10.00")
	f := newFixture(t, enums.DealerStatusActive, []models.CartItem{itemA}, map[uuid.UUID]pricing.Resolution{itemA.ProductID: resA}, nil)

	first, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.NoError(t, err)
	require.Equal(t, "ORD-000001", first.OrderNo)

	itemB, resB := cartItem("BP-200", 1, 10, "10.00")
	f.carts.items = []models.CartItem{itemB}
	f.carts.cleared = false
	f.svc.(*service).resolver.(*stubResolver).resolutions[itemB.ProductID] = resB
	f.svc.(*service).products.(*stubProductLoader).products[itemB.ProductID] = *itemB.Product

	second, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.NoError(t, err)
	require.Equal(t, "ORD-000002", second.OrderNo)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := newFixture(t, enums.DealerStatusActive, nil, nil, nil)

	_, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart))
	require.Empty(t, f.orders.headers)
}

func TestCheckoutRejectsInactiveAccount(t *testing.T) {
	item, res := cartItem("BP-100", 1, 10, "10.00")
	f := newFixture(t, enums.DealerStatusSuspended, []models.CartItem{item}, map[uuid.UUID]pricing.Resolution{item.ProductID: res}, nil)

	_, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeAccountInactive))
	require.False(t, f.carts.cleared)
}

func TestCheckoutAggregatesValidationProblems(t *testing.T) {
	overQty, overRes := cartItem("BP-100", 20, 5, "10.00")
	discontinued, discRes := cartItem("BP-200", 1, 5, "10.00")
	discontinued.Product.IsActive = false
	resolutions := map[uuid.UUID]pricing.Resolution{
		overQty.ProductID:      overRes,
		discontinued.ProductID: discRes,
	}
	f := newFixture(t, enums.DealerStatusActive, []models.CartItem{overQty, discontinued}, resolutions, nil)

	_, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeOrderValidation, typed.Code())

	problems, ok := typed.Details().([]rules.Problem)
	require.True(t, ok)
	require.Equal(t, []rules.Problem{
		{PartNo: "BP-100", Reason: rules.ReasonInsufficientStock},
		{PartNo: "BP-200", Reason: rules.ReasonProductInactive},
	}, problems)
	require.Empty(t, f.orders.headers)
	require.False(t, f.carts.cleared)
}

func TestCheckoutRejectsUnavailableLine(t *testing.T) {
	unpriced, _ := cartItem("BP-100", 1, 5, "10.00")
	f := newFixture(t, enums.DealerStatusActive, []models.CartItem{unpriced}, nil, nil)

	_, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeProductUnavailable, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, "BP-100", details["part_no"])
	require.Empty(t, f.orders.headers)
	require.False(t, f.carts.cleared)
}

func TestCheckoutBlocksSupersededLine(t *testing.T) {
	item, res := cartItem("BP-100", 1, 10, "10.00")
	blocked := map[string]error{
		"BP-100": pkgerrors.New(pkgerrors.CodeItemSuperseded, "part BP-100 is superseded by BP-200"),
	}
	f := newFixture(t, enums.DealerStatusActive, []models.CartItem{item}, map[uuid.UUID]pricing.Resolution{item.ProductID: res}, blocked)

	_, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeItemSuperseded))
	require.Empty(t, f.orders.headers)
	require.False(t, f.carts.cleared)
}

func TestCheckoutEmptyCartReportedBeforeInactiveAccount(t *testing.T) {
	f := newFixture(t, enums.DealerStatusSuspended, nil, nil, nil)

	_, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart))
}

func TestCheckoutRollsBackWhenExportLinesFail(t *testing.T) {
	item, res := cartItem("BP-100", 2, 10, "12.50")
	f := newFixture(t, enums.DealerStatusActive, []models.CartItem{item}, map[uuid.UUID]pricing.Resolution{item.ProductID: res}, nil)
	f.orders.failExport = errTest

	_, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInternal))

	require.Empty(t, f.orders.headers)
	require.Empty(t, f.orders.lines)
	require.Empty(t, f.orders.exportLines)
	require.Len(t, f.carts.items, 1)
	require.False(t, f.carts.cleared)
}

func TestGetScopesToAccount(t *testing.T) {
	item, res := cartItem("BP-100", 1, 10, "10.00")
	f := newFixture(t, enums.DealerStatusActive, []models.CartItem{item}, map[uuid.UUID]pricing.Resolution{item.ProductID: res}, nil)

	placed, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.NoError(t, err)

	got, err := f.svc.Get(context.Background(), f.actor, placed.ID)
	require.NoError(t, err)
	require.Equal(t, placed.OrderNo, got.OrderNo)

	stranger := dealers.Actor{UserID: uuid.New(), AccountID: uuid.New(), Entitlement: enums.EntitlementShowAll}
	_, err = f.svc.Get(context.Background(), stranger, placed.ID)
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestListReturnsAccountOrders(t *testing.T) {
	item, res := cartItem("BP-100", 1, 10, "10.00")
	f := newFixture(t, enums.DealerStatusActive, []models.CartItem{item}, map[uuid.UUID]pricing.Resolution{item.ProductID: res}, nil)

	_, err := f.svc.Checkout(context.Background(), f.actor, CheckoutInput{})
	require.NoError(t, err)

	result, err := f.svc.List(context.Background(), f.actor, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	require.Empty(t, result.NextCursor)
}
