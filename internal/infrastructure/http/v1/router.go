// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"folio/internal/domain/auth"
	"folio/internal/domain/budget"
	"folio/internal/domain/catalogs/concept"
	"folio/internal/domain/catalogs/currency"
	"folio/internal/domain/catalogs/paymentform"
	"folio/internal/domain/catalogs/paymentmethod"
	"folio/internal/domain/catalogs/person"
	"folio/internal/domain/catalogs/project"
	"folio/internal/domain/ledger"
	"folio/internal/domain/reports"
	"folio/internal/infrastructure/http/v1/handlers"
	"folio/internal/infrastructure/http/v1/middleware"
	"folio/internal/infrastructure/storage/postgres"
	"folio/pkg/logger"
)

// RouterConfig holds the constructed services the router exposes.
type RouterConfig struct {
	// Pool is the shared database pool (health checks only; repositories
	// go through the TxManager).
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	AuthService    *auth.Service
	LedgerService  *ledger.Service
	BudgetService  *budget.Service
	ReportsService *reports.Service

	ConceptService       *concept.Service
	PersonService        *person.Service
	PaymentFormService   *paymentform.Service
	PaymentMethodService *paymentmethod.Service
	CurrencyService      *currency.Service
	ProjectService       *project.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, cfg)

		// Protected endpoints: validate JWT, then resolve the account
		// scope every repository depends on.
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))
		protected.Use(middleware.AccountScope())

		registerCatalogRoutes(protected, cfg)
		registerLedgerRoutes(protected, cfg)
		registerBudgetRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT + account scope required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
	protectedAuth.Use(middleware.AccountScope())

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	RegisterCatalogRoutes(catalogs.Group("/concepts"), handlers.NewConceptHandler(baseHandler, cfg.ConceptService))
	RegisterCatalogRoutes(catalogs.Group("/persons"), handlers.NewPersonHandler(baseHandler, cfg.PersonService))
	RegisterCatalogRoutes(catalogs.Group("/payment-forms"), handlers.NewPaymentFormHandler(baseHandler, cfg.PaymentFormService))
	RegisterCatalogRoutes(catalogs.Group("/payment-methods"), handlers.NewPaymentMethodHandler(baseHandler, cfg.PaymentMethodService))
	RegisterCatalogRoutes(catalogs.Group("/currencies"), handlers.NewCurrencyHandler(baseHandler, cfg.CurrencyService))
	RegisterCatalogRoutes(catalogs.Group("/projects"), handlers.NewProjectHandler(baseHandler, cfg.ProjectService))
}

// registerLedgerRoutes registers transaction endpoints.
func registerLedgerRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewTransactionHandler(baseHandler, cfg.LedgerService)
	handler.RegisterRoutes(rg.Group("/transactions"))
}

// registerBudgetRoutes registers budget endpoints.
func registerBudgetRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewBudgetHandler(baseHandler, cfg.BudgetService)
	handler.RegisterRoutes(rg.Group("/budgets"))
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewReportsHandler(baseHandler, cfg.ReportsService)
	handler.RegisterRoutes(rg.Group("/reports"))
}
