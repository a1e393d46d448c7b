package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aaravmahajanofficial/storefront/docs"
	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/tracing"
	sendGrid "github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Storefront API
//	@version					1.0
//	@description				Catalog queries, checkout and order fulfillment.
//	@host						localhost:8080
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := tracing.Setup(context.Background(), &cfg.Otel)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	checkoutLimiter := cache.NewRateLimiter(redisClient, &cfg.RateConfig)

	// Gateway and mailer
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey)

	var mailer sendGrid.EmailService
	if cfg.SendGrid.APIKey != "" {
		mailer = sendGrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		slog.Warn("SendGrid is not configured, order confirmations are disabled")
	}

	categoryService := service.NewCategoryService(repos.Category, repos.Product, redisCache)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productService := service.NewProductService(repos.Product, repos.Category, redisCache)
	productHandler := handlers.NewProductHandler(productService)
	checkoutService := service.NewCheckoutService(repos.Order, stripeClient, mailer, checkoutLimiter, cfg.Stripe)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderService := service.NewOrderService(repos.Order)
	orderHandler := handlers.NewOrderHandler(orderService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Gateway: stripeClient})
	if err != nil {
		slog.Error("❌ Error creating the health handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", health.Version))

	// Setup router
	routerMux := http.NewServeMux()

	// categories
	routerMux.HandleFunc("GET /category/get-category", categoryHandler.ListCategories())
	routerMux.HandleFunc("GET /category/single-category/{slug}", categoryHandler.GetCategory())
	routerMux.HandleFunc("POST /category/create-category", authMiddleware.Admin(categoryHandler.CreateCategory()))
	routerMux.HandleFunc("PUT /category/update-category/{id}", authMiddleware.Admin(categoryHandler.UpdateCategory()))
	routerMux.HandleFunc("DELETE /category/delete-category/{id}", authMiddleware.Admin(categoryHandler.DeleteCategory()))

	// products
	routerMux.HandleFunc("POST /product/create-product", authMiddleware.Admin(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /product/update-product/{id}", authMiddleware.Admin(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /product/delete-product/{id}", authMiddleware.Admin(productHandler.DeleteProduct()))
	routerMux.HandleFunc("GET /product/get-product", productHandler.ListProducts())
	routerMux.HandleFunc("GET /product/get-product/{slug}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /product/product-photo/{id}", productHandler.ProductPhoto())
	routerMux.HandleFunc("POST /product/product-filters", productHandler.FilterProducts())
	routerMux.HandleFunc("GET /product/product-count", productHandler.ProductCount())
	routerMux.HandleFunc("GET /product/product-list/{page}", productHandler.ProductList())
	routerMux.HandleFunc("GET /product/product-category/{slug}", productHandler.ProductCategory())
	routerMux.HandleFunc("GET /product/search/{keyword}", productHandler.SearchProducts())
	routerMux.HandleFunc("GET /product/related-product/{pid}/{cid}", productHandler.RelatedProducts())

	// checkout
	routerMux.HandleFunc("GET /product/braintree/token", checkoutHandler.ClientToken())
	routerMux.HandleFunc("POST /product/braintree/payment", authMiddleware.Authenticate(checkoutHandler.Payment()))

	// orders
	routerMux.HandleFunc("GET /order/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /order/all-orders", authMiddleware.Admin(orderHandler.ListAllOrders()))
	routerMux.HandleFunc("PUT /order/order-status/{id}", authMiddleware.Admin(orderHandler.UpdateOrderStatus()))

	// operations
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining, metrics stays innermost so it sees the matched pattern
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:              cfg.HTTPServer.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.HTTPServer.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Failed to flush traces", slog.String("error", err.Error()))
	}
}
