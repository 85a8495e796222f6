package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/torqueline/partsportal-backend/api/routes"
	"github.com/torqueline/partsportal-backend/internal/cart"
	"github.com/torqueline/partsportal-backend/internal/dealers"
	"github.com/torqueline/partsportal-backend/internal/orders"
	"github.com/torqueline/partsportal-backend/internal/pricing"
	"github.com/torqueline/partsportal-backend/internal/products"
	"github.com/torqueline/partsportal-backend/internal/supersession"
	"github.com/torqueline/partsportal-backend/pkg/config"
	"github.com/torqueline/partsportal-backend/pkg/db"
	"github.com/torqueline/partsportal-backend/pkg/enums"
	"github.com/torqueline/partsportal-backend/pkg/logger"
	"github.com/torqueline/partsportal-backend/pkg/metrics"
	"github.com/torqueline/partsportal-backend/pkg/migrate"
	"github.com/torqueline/partsportal-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	currency := enums.Currency(cfg.Pricing.Currency)

	dealerRepo := dealers.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	pricingRepo := pricing.NewRepository(dbClient.DB())
	supersessionRepo := supersession.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	dealerService, err := dealers.NewService(dealerRepo)
	requireService(logg, "dealer service", err)

	resolver, err := pricing.NewResolver(pricingRepo, pricingRepo)
	requireService(logg, "price resolver", err)

	guard, err := supersession.NewGuard(supersessionRepo, productRepo)
	requireService(logg, "supersession guard", err)

	productService, err := products.NewService(productRepo, resolver, time.Now)
	requireService(logg, "product service", err)

	cartService, err := cart.NewService(cartRepo, productRepo, resolver, guard, currency, time.Now)
	requireService(logg, "cart service", err)

	orderService, err := orders.NewService(
		dbClient,
		orderRepo,
		func(tx *gorm.DB) orders.Store { return orderRepo.WithTx(tx) },
		cartRepo,
		func(tx *gorm.DB) orders.CartStore { return cartRepo.WithTx(tx) },
		dealerRepo,
		productRepo,
		resolver,
		guard,
		checkoutMetrics,
		logg,
		orders.Config{OrderNoPrefix: cfg.Checkout.OrderNoPrefix, Currency: currency},
		time.Now,
	)
	requireService(logg, "order service", err)

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient, registry,
			dealerService, productService, cartService, orderService,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name, err)
	os.Exit(1)
}
