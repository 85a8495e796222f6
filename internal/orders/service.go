package orders

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
	"github.com/torqueline/partsportal-backend/internal/rules"
	"github.com/torqueline/partsportal-backend/internal/supersession"
	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
	"github.com/torqueline/partsportal-backend/pkg/logger"
	"github.com/torqueline/partsportal-backend/pkg/metrics"
	"github.com/torqueline/partsportal-backend/pkg/pagination"
)

// Failure reasons used for checkout metrics labels.
const (
	failureAccountInactive = "account_inactive"
	failureEmptyCart       = "empty_cart"
	failureValidation      = "validation"
	failureSuperseded      = "superseded"
	failureUnavailable     = "unavailable"
	failureInternal        = "internal"
)

// CheckoutInput carries the optional metadata a dealer attaches at checkout.
type CheckoutInput struct {
	DispatchMethod *string
	PORef          *string
	Notes          *string
}

// Service freezes carts into immutable orders and reads them back.
type Service interface {
	Checkout(ctx context.Context, actor dealers.Actor, input CheckoutInput) (*DTO, error)
	Get(ctx context.Context, actor dealers.Actor, orderID uuid.UUID) (*DTO, error)
	List(ctx context.Context, actor dealers.Actor, page pagination.Params) (*ListResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Store is the persistence surface the service needs, both outside and
// inside the checkout transaction.
type Store interface {
	NextOrderNo(ctx context.Context) (int64, error)
	CreateHeader(ctx context.Context, header *models.OrderHeader) error
	CreateLines(ctx context.Context, lines []models.OrderLine) error
	CreateExportLines(ctx context.Context, lines []models.ExportLine) error
	FindByID(ctx context.Context, accountID, orderID uuid.UUID) (*models.OrderHeader, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.OrderHeader, error)
}

// CartStore is the slice of the cart repository checkout depends on.
type CartStore interface {
	GetOrCreate(ctx context.Context, dealerUserID uuid.UUID) (*models.Cart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	DeleteItemsByCartID(ctx context.Context, cartID uuid.UUID) error
}

type accountLoader interface {
	FindAccountByID(ctx context.Context, id uuid.UUID) (*models.DealerAccount, error)
}

type productLoader interface {
	FindLiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Config carries the static checkout settings.
type Config struct {
	OrderNoPrefix string
	Currency      enums.Currency
}

type service struct {
	runner    txRunner
	repo      Store
	repoInTx  func(tx *gorm.DB) Store
	carts     CartStore
	cartsInTx func(tx *gorm.DB) CartStore
	accounts  accountLoader
	products  productLoader
	resolver  pricing.Resolver
	guard     supersession.Guard
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	cfg       Config
	now       func() time.Time
}

// NewService constructs the order service.
func NewService(
	runner txRunner,
	repo Store,
	repoInTx func(tx *gorm.DB) Store,
	carts CartStore,
	cartsInTx func(tx *gorm.DB) CartStore,
	accounts accountLoader,
	products productLoader,
	resolver pricing.Resolver,
	guard supersession.Guard,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	cfg Config,
	now func() time.Time,
) (Service, error) {
	if runner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if repoInTx == nil {
		return nil, fmt.Errorf("order tx factory required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if cartsInTx == nil {
		return nil, fmt.Errorf("cart tx factory required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account loader required")
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
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.OrderNoPrefix == "" {
		return nil, fmt.Errorf("order number prefix required")
	}
	if !cfg.Currency.IsValid() {
		return nil, fmt.Errorf("invalid currency %q", cfg.Currency)
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		runner:    runner,
		repo:      repo,
		repoInTx:  repoInTx,
		carts:     carts,
		cartsInTx: cartsInTx,
		accounts:  accounts,
		products:  products,
		resolver:  resolver,
		guard:     guard,
		metrics:   checkoutMetrics,
		logg:      logg,
		cfg:       cfg,
		now:       now,
	}, nil
}

// Checkout freezes the cart into an order. The whole write side runs in one
// transaction: order number allocation, header, snapshot lines, export lines,
// and the cart clear commit or roll back together.
func (s *service) Checkout(ctx context.Context, actor dealers.Actor, input CheckoutInput) (*DTO, error) {
	s.metrics.IncAttempt()
	ctx = s.logg.WithDealerAccountID(ctx, actor.AccountID.String())

	cart, err := s.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		s.metrics.IncFailure(failureInternal)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	items, err := s.carts.ListItems(ctx, cart.ID)
	if err != nil {
		s.metrics.IncFailure(failureInternal)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart items")
	}
	if len(items) == 0 {
		s.metrics.IncFailure(failureEmptyCart)
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	account, err := s.accounts.FindAccountByID(ctx, actor.AccountID)
	if err != nil {
		s.metrics.IncFailure(failureInternal)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading dealer account")
	}
	if !account.Status.CanTransact() {
		s.metrics.IncFailure(failureAccountInactive)
		return nil, pkgerrors.New(pkgerrors.CodeAccountInactive, "account may not place orders").
			WithDetails(map[string]any{"status": account.Status})
	}

	// Stock, status and prices are all re-read here. A cart held open
	// overnight must not freeze against the rows it was built from.
	placedAt := s.now()

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	liveRows, err := s.products.FindLiveByIDs(ctx, ids)
	if err != nil {
		s.metrics.IncFailure(failureInternal)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products")
	}
	live := make(map[uuid.UUID]models.Product, len(liveRows))
	for _, row := range liveRows {
		live[row.ID] = row
	}

	// One resolution instant serves validation and the frozen snapshot, so
	// the prices the dealer is charged are exactly the ones validated.
	resolutions, err := s.resolver.ResolvePrices(ctx, actor.AccountID, actor.Entitlement, liveRows, placedAt)
	if err != nil {
		s.metrics.IncFailure(failureInternal)
		return nil, err
	}

	if err := s.validateItems(ctx, items, live, resolutions); err != nil {
		return nil, err
	}

	header, err := s.freeze(ctx, actor, account, cart.ID, items, live, resolutions, input, placedAt)
	if err != nil {
		s.metrics.IncFailure(failureInternal)
		return nil, err
	}

	s.metrics.ObserveOrderValue(header.Total)
	ctx = s.logg.WithField(ctx, "order_no", header.OrderNo)
	s.logg.Info(ctx, "order placed")

	dto := toDTO(*header, true)
	return &dto, nil
}

// validateItems aggregates rule violations across the whole cart, then
// rechecks supersession per line, then demands a binding price for every
// line. The checks run in that order so a cart failing several ways reports
// the rule violations first.
func (s *service) validateItems(ctx context.Context, items []models.CartItem, live map[uuid.UUID]models.Product, resolutions map[uuid.UUID]pricing.Resolution) error {
	lines := make([]rules.Line, 0, len(items))
	for _, item := range items {
		line := rules.Line{Qty: item.Qty}
		if item.Product != nil {
			line.PartNo = item.Product.PartNo
		}
		// A line whose product no longer exists live is an inactive line.
		if row, ok := live[item.ProductID]; ok {
			line.PartNo = row.PartNo
			line.StockQty = row.StockQty
			line.IsActive = row.IsActive
		}
		lines = append(lines, line)
	}

	problems, combined := rules.ValidateLines(lines)
	if len(problems) > 0 {
		s.logg.Error(ctx, "checkout validation failed", combined)
		s.metrics.IncFailure(failureValidation)
		return pkgerrors.New(pkgerrors.CodeOrderValidation, "order validation failed").
			WithDetails(problems)
	}

	for _, item := range items {
		row, ok := live[item.ProductID]
		if !ok {
			continue
		}
		if err := s.guard.Check(ctx, row.PartNo); err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeItemSuperseded) {
				s.metrics.IncFailure(failureSuperseded)
			} else {
				s.metrics.IncFailure(failureInternal)
			}
			return err
		}
	}

	for _, item := range items {
		resolution := resolutions[item.ProductID]
		if resolution.Available {
			continue
		}
		row := live[item.ProductID]
		s.metrics.IncFailure(failureUnavailable)
		return pkgerrors.New(pkgerrors.CodeProductUnavailable,
			fmt.Sprintf("product %s is not available", row.PartNo)).
			WithDetails(map[string]any{
				"part_no": row.PartNo,
				"reason":  resolution.Reason,
			})
	}
	return nil
}

func (s *service) freeze(
	ctx context.Context,
	actor dealers.Actor,
	account *models.DealerAccount,
	cartID uuid.UUID,
	items []models.CartItem,
	live map[uuid.UUID]models.Product,
	resolutions map[uuid.UUID]pricing.Resolution,
	input CheckoutInput,
	placedAt time.Time,
) (*models.OrderHeader, error) {
	var header models.OrderHeader

	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.repoInTx(tx)
		txCarts := s.cartsInTx(tx)

		seq, err := txOrders.NextOrderNo(ctx)
		if err != nil {
			return fmt.Errorf("allocating order number: %w", err)
		}
		orderNo := fmt.Sprintf("%s-%06d", s.cfg.OrderNoPrefix, seq)

		subtotal := decimal.Zero
		totalItems := 0
		orderID := uuid.New()

		orderLines := make([]models.OrderLine, 0, len(items))
		exportLines := make([]models.ExportLine, 0, len(items))
		for _, item := range items {
			row := live[item.ProductID]
			resolution := resolutions[item.ProductID]
			lineTotal := resolution.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty)))
			subtotal = subtotal.Add(lineTotal)
			totalItems += item.Qty

			orderLines = append(orderLines, models.OrderLine{
				OrderID:     orderID,
				ProductID:   item.ProductID,
				PartNo:      row.PartNo,
				Description: row.Description,
				PartType:    row.PartType,
				Qty:         item.Qty,
				UnitPrice:   resolution.UnitPrice,
				LineTotal:   lineTotal,
				PriceSource: resolution.Source,

				BandCode:        resolution.BandCode,
				MinPriceApplied: resolution.MinPriceApplied,
			})
			exportLines = append(exportLines, models.ExportLine{
				OrderID:       orderID,
				PortalOrderNo: orderNo,
				AccountNo:     account.AccountNo,
				CompanyName:   account.CompanyName,
				PartNo:        row.PartNo,
				Qty:           item.Qty,
				UnitPrice:     resolution.UnitPrice,
				LineTotal:     lineTotal,
			})
		}
		for i := range exportLines {
			exportLines[i].TotalItems = totalItems
		}

		header = models.OrderHeader{
			ID:              orderID,
			OrderNo:         orderNo,
			DealerAccountID: actor.AccountID,
			DealerUserID:    actor.UserID,
			Status:          enums.OrderStatusSuspended,
			DispatchMethod:  input.DispatchMethod,
			PORef:           input.PORef,
			Notes:           input.Notes,
			Currency:        s.cfg.Currency,
			Subtotal:        subtotal,
			Total:           subtotal,
			TotalItems:      totalItems,
			PlacedAt:        placedAt,
		}

		if err := txOrders.CreateHeader(ctx, &header); err != nil {
			return fmt.Errorf("creating order header: %w", err)
		}
		if err := txOrders.CreateLines(ctx, orderLines); err != nil {
			return fmt.Errorf("creating order lines: %w", err)
		}
		if err := txOrders.CreateExportLines(ctx, exportLines); err != nil {
			return fmt.Errorf("creating export lines: %w", err)
		}
		if err := txCarts.DeleteItemsByCartID(ctx, cartID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}

		header.Lines = orderLines
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "freezing order")
	}
	return &header, nil
}

func (s *service) Get(ctx context.Context, actor dealers.Actor, orderID uuid.UUID) (*DTO, error) {
	header, err := s.repo.FindByID(ctx, actor.AccountID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	dto := toDTO(*header, true)
	return &dto, nil
}

func (s *service) List(ctx context.Context, actor dealers.Actor, page pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(page.Limit)

	rows, err := s.repo.ListByAccount(ctx, actor.AccountID, pagination.LimitWithBuffer(page.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	result := &ListResult{Orders: make([]DTO, 0, len(rows))}
	for _, row := range rows {
		result.Orders = append(result.Orders, toDTO(row, false))
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
