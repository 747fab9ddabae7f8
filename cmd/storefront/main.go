package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emojimart/storefront/internal/api/handlers"
	"github.com/emojimart/storefront/internal/api/middleware"
	"github.com/emojimart/storefront/internal/cache"
	"github.com/emojimart/storefront/internal/checkout"
	"github.com/emojimart/storefront/internal/config"
	"github.com/emojimart/storefront/internal/health"
	"github.com/emojimart/storefront/internal/metrics"
	repository "github.com/emojimart/storefront/internal/repositories"
	service "github.com/emojimart/storefront/internal/services"
	stripeClient "github.com/emojimart/storefront/pkg/stripe"
	"github.com/redis/go-redis/v9"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup (best-effort snapshot mirror)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Host,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})
	snapshotCache := cache.NewRedisCache(redisClient)

	// The Stripe client is configured once and reused for every request.
	stripe := stripeClient.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)

	builder := checkout.NewBuilder(cfg.CartPolicy.MaxItems)

	cartService := service.NewCartService(repos.Cart, repos.Product, snapshotCache, cfg.CartPolicy.SnapshotTTL)
	cartHandler := handlers.NewCartHandler(cartService)
	productService := service.NewProductService(repos.Product)
	productHandler := handlers.NewProductHandler(productService)
	checkoutService := service.NewCheckoutService(cartService, builder, stripe, cfg.Stripe)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error building health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/carts", cartHandler.CreateCart())
	routerMux.HandleFunc("GET /api/v1/carts/{id}", cartHandler.GetCart())
	routerMux.HandleFunc("DELETE /api/v1/carts/{id}", cartHandler.ClearCart())
	routerMux.HandleFunc("POST /api/v1/carts/{id}/items", cartHandler.AddItem())
	routerMux.HandleFunc("POST /api/v1/carts/{id}/items/{productID}/increment", cartHandler.IncrementItem())
	routerMux.HandleFunc("POST /api/v1/carts/{id}/items/{productID}/decrement", cartHandler.DecrementItem())
	routerMux.HandleFunc("DELETE /api/v1/carts/{id}/items/{productID}", cartHandler.RemoveItem())
	routerMux.HandleFunc("POST /api/v1/carts/{id}/checkout", checkoutHandler.CheckoutCart())
	routerMux.HandleFunc("POST /api/v1/stripe/webhook", checkoutHandler.HandleWebhook())

	// The bare checkout endpoint registers without a method pattern so wrong
	// methods get a 405 with an Allow header instead of the mux's default.
	routerMux.HandleFunc("/checkout", checkoutHandler.Checkout())

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("❌ Server shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		slog.Warn("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}

	slog.Info("✅ Server stopped gracefully")
}
