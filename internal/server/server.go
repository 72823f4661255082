// Package server wires repositories, services and handlers into the Fiber app.
package server

import (
	"go-kasir-api/internal/handler"
	"go-kasir-api/internal/middleware"
	"go-kasir-api/internal/model"
	"go-kasir-api/internal/repository"
	"go-kasir-api/internal/service"
	"go-kasir-api/internal/ws"
	"go-kasir-api/pkg/config"
	"go-kasir-api/pkg/jwt"
	"go-kasir-api/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Deps struct {
	Config   *config.Config
	Log      zerolog.Logger
	DB       *gorm.DB
	Tokens   *jwt.Manager
	Hub      *ws.Hub
	Limiter  middleware.RateLimiter // nil disables login throttling
	Metrics  *metrics.Sales
	Gatherer prometheus.Gatherer // nil hides /metrics
}

// New builds the HTTP application with every route under /api/v1.
func New(d Deps) (*fiber.App, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, err
	}

	// Dependency Injection (Wiring Layers)
	uow := repository.NewUnitOfWork(d.DB)
	userRepo := repository.NewUserRepo(d.DB)
	storeRepo := repository.NewStoreRepo(d.DB)
	productRepo := repository.NewProductRepo(d.DB)
	customerRepo := repository.NewCustomerRepo(d.DB)
	txRepo := repository.NewTransactionRepo(d.DB)
	reportRepo := repository.NewReportRepo(d.DB)

	authService := service.NewAuthService(uow, userRepo, storeRepo, d.Tokens, d.Log)
	collaboratorService := service.NewCollaboratorService(uow, userRepo, d.Log)
	productService := service.NewProductService(productRepo, d.Hub, d.Log)
	customerService := service.NewCustomerService(uow, customerRepo, txRepo)
	saleService := service.NewSaleService(uow, txRepo, productRepo, customerRepo, userRepo, d.Hub, d.Metrics, d.Log)
	reportService := service.NewReportService(reportRepo, txRepo)

	authHandler := handler.NewAuthHandler(authService)
	collaboratorHandler := handler.NewCollaboratorHandler(collaboratorService)
	productHandler := handler.NewProductHandler(productService)
	customerHandler := handler.NewCustomerHandler(customerService)
	transactionHandler := handler.NewTransactionHandler(saleService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler(sqlDB)

	app := fiber.New(fiber.Config{
		AppName:      d.Config.App.Name,
		ErrorHandler: handler.ErrorHandler(d.Log),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(d.Log))
	app.Use(cors.New(cors.Config{AllowOrigins: d.Config.CORS.AllowOrigins}))

	app.Get("/health", healthHandler.Check)
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(d.Tokens, userRepo)
	ownerOnly := middleware.RequireRole(model.RoleOwner)
	authLimit := middleware.RateLimit("auth", d.Limiter, d.Config.RateLimit.AuthLimit, d.Config.RateLimit.AuthWindow, d.Log)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authLimit, authHandler.Register)
	auth.Post("/login", authLimit, authHandler.Login)

	// ============ PROTECTED ROUTES ============
	auth.Get("/profile", requireAuth, authHandler.GetProfile)
	auth.Put("/profile", requireAuth, ownerOnly, authHandler.UpdateProfile)
	auth.Put("/password", requireAuth, ownerOnly, authHandler.ChangePassword)

	collaborators := api.Group("/collaborators", requireAuth, ownerOnly)
	collaborators.Get("/", collaboratorHandler.List)
	collaborators.Post("/", collaboratorHandler.Create)
	collaborators.Put("/:id", collaboratorHandler.Update)
	collaborators.Delete("/:id", collaboratorHandler.Delete)

	customers := api.Group("/customers", requireAuth)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	products := api.Group("/products", requireAuth)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	transactions := api.Group("/transactions", requireAuth)
	transactions.Get("/", transactionHandler.List)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/:id", transactionHandler.Get)
	transactions.Delete("/:id", transactionHandler.Delete)

	reports := api.Group("/reports", requireAuth, ownerOnly)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/detailed", reportHandler.Detailed)

	// WebSocket Route
	app.Get("/ws", handler.UpgradeOnly, requireAuth, handler.ServeWS(d.Hub))

	return app, nil
}
