package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	cartsvc "github.com/torqueline/partsportal-backend/internal/cart"
	"github.com/torqueline/partsportal-backend/internal/dealers"
	ordersvc "github.com/torqueline/partsportal-backend/internal/orders"
	productsvc "github.com/torqueline/partsportal-backend/internal/products"
	"github.com/torqueline/partsportal-backend/pkg/config"
	"github.com/torqueline/partsportal-backend/pkg/pagination"
)

type stubDealerService struct{}

func (stubDealerService) GetAccount(ctx context.Context, accountID uuid.UUID) (*dealers.AccountDTO, error) {
	return &dealers.AccountDTO{ID: accountID}, nil
}

func (stubDealerService) GetUser(ctx context.Context, userID uuid.UUID) (*dealers.UserDTO, error) {
	return &dealers.UserDTO{ID: userID}, nil
}

type stubProductService struct{}

func (stubProductService) Get(ctx context.Context, actor dealers.Actor, productID uuid.UUID) (*productsvc.DTO, error) {
	return &productsvc.DTO{}, nil
}

func (stubProductService) Search(ctx context.Context, actor dealers.Actor, input productsvc.SearchInput) (*productsvc.SearchResult, error) {
	return &productsvc.SearchResult{}, nil
}

type stubCartService struct{}

func (stubCartService) GetCart(ctx context.Context, actor dealers.Actor) (*cartsvc.DTO, error) {
	return &cartsvc.DTO{}, nil
}

func (stubCartService) AddItem(ctx context.Context, actor dealers.Actor, productID uuid.UUID, qty int) (*cartsvc.DTO, error) {
	return &cartsvc.DTO{}, nil
}

func (stubCartService) UpdateItemQty(ctx context.Context, actor dealers.Actor, itemID uuid.UUID, qty int) (*cartsvc.DTO, error) {
	return &cartsvc.DTO{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, actor dealers.Actor, itemID uuid.UUID) (*cartsvc.DTO, error) {
	return &cartsvc.DTO{}, nil
}

func (stubCartService) Clear(ctx context.Context, actor dealers.Actor) (*cartsvc.DTO, error) {
	return &cartsvc.DTO{}, nil
}

type stubOrderService struct{}

func (stubOrderService) Checkout(ctx context.Context, actor dealers.Actor, input ordersvc.CheckoutInput) (*ordersvc.DTO, error) {
	return &ordersvc.DTO{}, nil
}

func (stubOrderService) Get(ctx context.Context, actor dealers.Actor, orderID uuid.UUID) (*ordersvc.DTO, error) {
	return &ordersvc.DTO{}, nil
}

func (stubOrderService) List(ctx context.Context, actor dealers.Actor, page pagination.Params) (*ordersvc.ListResult, error) {
	return &ordersvc.ListResult{}, nil
}

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Issuer: "partsportal-test", ExpirationMinutes: 15}
	return NewRouter(cfg, nil, nil, nil, nil, stubDealerService{}, stubProductService{}, stubCartService{}, stubOrderService{})
}

func TestHealthLiveRoute(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestDealerRoutesRequireAuth(t *testing.T) {
	router := testRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/dealer/products"},
		{http.MethodGet, "/api/v1/dealer/cart"},
		{http.MethodGet, "/api/v1/dealer/orders"},
		{http.MethodPost, "/api/v1/dealer/checkout"},
	}
	for _, route := range paths {
		req := httptest.NewRequest(route.method, route.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", route.method, route.path, resp.Code)
		}
	}
}
