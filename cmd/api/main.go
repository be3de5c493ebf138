package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/SachinNic1502/lapkart-backend/api/routes"
	addresssvc "github.com/SachinNic1502/lapkart-backend/internal/address"
	authsvc "github.com/SachinNic1502/lapkart-backend/internal/auth"
	cartsvc "github.com/SachinNic1502/lapkart-backend/internal/cart"
	emisvc "github.com/SachinNic1502/lapkart-backend/internal/emi"
	ordersvc "github.com/SachinNic1502/lapkart-backend/internal/orders"
	paymentsvc "github.com/SachinNic1502/lapkart-backend/internal/payments"
	productsvc "github.com/SachinNic1502/lapkart-backend/internal/products"
	"github.com/SachinNic1502/lapkart-backend/internal/sequence"
	usersvc "github.com/SachinNic1502/lapkart-backend/internal/users"
	"github.com/SachinNic1502/lapkart-backend/pkg/auth/session"
	"github.com/SachinNic1502/lapkart-backend/pkg/config"
	"github.com/SachinNic1502/lapkart-backend/pkg/db"
	"github.com/SachinNic1502/lapkart-backend/pkg/env"
	"github.com/SachinNic1502/lapkart-backend/pkg/gateway"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
	"github.com/SachinNic1502/lapkart-backend/pkg/metrics"
	"github.com/SachinNic1502/lapkart-backend/pkg/migrate"
	"github.com/SachinNic1502/lapkart-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gatewayClient, err := gateway.NewClient(
		cfg.Gateway.KeyID,
		cfg.Gateway.KeySecret,
		gateway.WithCurrency(cfg.Gateway.Currency),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway client", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()

	allocator, err := sequence.NewAllocator(gdb)
	if err != nil {
		logg.Error(context.Background(), "failed to create sequence allocator", err)
		os.Exit(1)
	}

	userRepo := usersvc.NewRepository(gdb)
	productRepo := productsvc.NewRepository(gdb)
	cartRepo := cartsvc.NewRepository(gdb)
	addressRepo := addresssvc.NewRepository(gdb)
	emiRepo := emisvc.NewRepository(gdb)
	orderRepo := ordersvc.NewRepository(gdb)
	paymentRepo := paymentsvc.NewRepository(gdb)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := authsvc.NewRegisterService(authsvc.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usersService, err := usersvc.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		Repo:        cartRepo,
		ProductRepo: productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	addressService, err := addresssvc.NewService(addresssvc.ServiceParams{
		DB:   dbClient,
		Repo: addressRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	emiService, err := emisvc.NewService(emisvc.ServiceParams{
		DB:     dbClient,
		Repo:   emiRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create emi service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{
		DB:          dbClient,
		Repo:        orderRepo,
		ProductRepo: productRepo,
		EmiService:  emiService,
		EmiRepo:     emiRepo,
		Allocator:   allocator,
		Sequence:    cfg.Sequence,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	paymentService, err := paymentsvc.NewService(paymentsvc.ServiceParams{
		DB:        dbClient,
		Repo:      paymentRepo,
		OrderRepo: orderRepo,
		CartRepo:  cartRepo,
		Gateway:   gatewayClient,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Params{
		Config:         cfg,
		Logger:         logg,
		Metrics:        metrics.NewHTTPMetrics(),
		DBPinger:       dbClient,
		RedisPinger:    redisClient,
		SessionChecker: sessionManager,

		AuthService:     authService,
		RegisterService: registerService,
		UsersService:    usersService,
		ProductService:  productService,
		CartService:     cartService,
		AddressService:  addressService,
		EmiService:      emiService,
		OrderService:    orderService,
		PaymentService:  paymentService,
	})

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}
