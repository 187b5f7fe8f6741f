package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopsmith/storefront/internal/api/handlers"
	"github.com/shopsmith/storefront/internal/api/middleware"
	"github.com/shopsmith/storefront/internal/cart"
	"github.com/shopsmith/storefront/internal/catalog"
	"github.com/shopsmith/storefront/internal/checkout"
	"github.com/shopsmith/storefront/internal/config"
	"github.com/shopsmith/storefront/internal/health"
	"github.com/shopsmith/storefront/internal/metrics"
	"github.com/shopsmith/storefront/internal/payment"
	repository "github.com/shopsmith/storefront/internal/repositories"
	service "github.com/shopsmith/storefront/internal/services"
	"github.com/shopsmith/storefront/pkg/sendgrid"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	ctx := context.Background()

	// Cart persistence: Redis when configured, a single JSON file
	// otherwise. Either way there is exactly one writer and one key.
	var cartPort cart.Port

	usingRedis := cfg.CartStorage.Backend == "redis"

	redisClient, err := repository.NewRedisClient(&cfg.RedisConnect)
	if err != nil {
		if usingRedis {
			slog.Error("Redis backend requested but unreachable", slog.String("error", err.Error()))
			os.Exit(1)
		}

		slog.Warn("Redis unavailable, login rate limiting disabled", slog.String("error", err.Error()))
	}

	if usingRedis {
		cartPort = cart.NewRedisPort(redisClient)
	} else {
		cartPort = cart.NewFilePort(cfg.CartStorage.FilePath)
	}

	cartStore := cart.NewStore(ctx, cartPort)
	catalogClient := catalog.NewClient(&cfg.Catalog)
	processor := payment.NewSimulatedProcessor(&cfg.Payment)

	var notifier checkout.Notifier
	if cfg.SendGrid.APIKey != "" {
		emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		notifier = service.NewNotificationService(emailService)
	} else {
		slog.Warn("SendGrid not configured, order confirmation emails disabled")
	}

	jwtKey := []byte(cfg.Security.JWTKey)
	userRepo := repository.NewMemoryUserRepo()

	var rateLimit repository.RateLimitRepository = allowAllRateLimit{}
	if redisClient != nil {
		rateLimit = repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)
	}

	userService := service.NewUserService(userRepo, rateLimit, jwtKey)
	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogClient)
	cartHandler := handlers.NewCartHandler(cartStore, catalogClient)
	checkoutHandler := handlers.NewCheckoutHandler(cartStore, processor, notifier)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, usingRedis)
	if err != nil {
		slog.Error("Failed to set up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/categories", catalogHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/products/category/{category}", catalogHandler.ListByCategory())
	routerMux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/search", catalogHandler.Search())
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/cart/items", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart())
	routerMux.HandleFunc("POST /api/v1/checkout", authMiddleware.Authenticate(checkoutHandler.Start()))
	routerMux.HandleFunc("GET /api/v1/checkout", authMiddleware.Authenticate(checkoutHandler.State()))
	routerMux.HandleFunc("POST /api/v1/checkout/address", authMiddleware.Authenticate(checkoutHandler.SubmitAddress()))
	routerMux.HandleFunc("POST /api/v1/checkout/back", authMiddleware.Authenticate(checkoutHandler.Back()))
	routerMux.HandleFunc("POST /api/v1/checkout/payment", authMiddleware.Authenticate(checkoutHandler.SubmitPayment()))
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /healthz", healthHandler.Handler())

	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Storefront starting",
		slog.String("address", cfg.Addr),
		slog.String("env", cfg.Env),
		slog.String("catalog", cfg.Catalog.BaseURL),
		slog.String("cart_backend", cfg.CartStorage.Backend))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully")
	}
}

// allowAllRateLimit stands in when Redis is absent; every login attempt
// is allowed through.
type allowAllRateLimit struct{}

func (allowAllRateLimit) CheckLoginRateLimit(context.Context, string) (bool, int, int, error) {
	return true, 0, 0, nil
}
