package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/torqueline/partsportal-backend/api/controllers"
	"github.com/torqueline/partsportal-backend/api/middleware"
	cartsvc "github.com/torqueline/partsportal-backend/internal/cart"
	"github.com/torqueline/partsportal-backend/internal/dealers"
	ordersvc "github.com/torqueline/partsportal-backend/internal/orders"
	productsvc "github.com/torqueline/partsportal-backend/internal/products"
	"github.com/torqueline/partsportal-backend/pkg/config"
	"github.com/torqueline/partsportal-backend/pkg/db"
	"github.com/torqueline/partsportal-backend/pkg/logger"
	pkgredis "github.com/torqueline/partsportal-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	gatherer prometheus.Gatherer,
	dealerService dealers.Service,
	productService productsvc.Service,
	cartService cartsvc.Service,
	orderService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// A typed nil *Client must not travel as a non-nil interface value.
	var redisPinger controllers.Pinger
	var idemStore pkgredis.IdempotencyStore
	if redisClient != nil {
		redisPinger = redisClient
		idemStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/dealer", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, cfg.Checkout.IdempotencyTTL, logg))

		r.Get("/me", controllers.ProfileMe(dealerService, logg))
		r.Get("/account", controllers.AccountMe(dealerService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductSearch(productService, logg))
			r.Get("/{productID}", controllers.ProductGet(productService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Put("/items/{itemID}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemID}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderID}", controllers.OrderGet(orderService, logg))
		})

		r.Post("/checkout", controllers.Checkout(orderService, logg))
	})

	return r
}
