// Package main is the entry point for the folio API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	v1 "folio/internal/infrastructure/http/v1"
	"folio/internal/infrastructure/storage/postgres"
	"folio/internal/infrastructure/storage/postgres/auth_repo"
	"folio/internal/infrastructure/storage/postgres/budget_repo"
	"folio/internal/infrastructure/storage/postgres/catalog_repo"
	"folio/internal/infrastructure/storage/postgres/ledger_repo"
	"folio/internal/infrastructure/storage/postgres/report_repo"
	"folio/pkg/logger"
	"folio/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting folio server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Numerator ---
	numeratorService := numerator.New(pool)

	// --- Catalog services ---
	conceptRepo := catalog_repo.NewConceptRepo(txManager)
	conceptService := concept.NewService(conceptRepo, txManager)
	personService := person.NewService(catalog_repo.NewPersonRepo(txManager), txManager)
	paymentFormService := paymentform.NewService(catalog_repo.NewPaymentFormRepo(txManager), txManager)
	paymentMethodService := paymentmethod.NewService(catalog_repo.NewPaymentMethodRepo(txManager), txManager)
	currencyService := currency.NewService(catalog_repo.NewCurrencyRepo(txManager), txManager)
	projectService := project.NewService(catalog_repo.NewProjectRepo(txManager), txManager)

	// --- Ledger ---
	transactionRepo := ledger_repo.NewTransactionRepo(txManager)
	ledgerService := ledger.NewService(transactionRepo, conceptService, txManager, numeratorService, auditService)

	// --- Budgets ---
	budgetRepo := budget_repo.NewBudgetRepo(txManager)
	budgetService := budget.NewService(budgetRepo, conceptService, txManager)

	// --- Reports ---
	reportRepo := report_repo.NewReportRepo(txManager)
	reportsService := reports.NewService(reportRepo, budgetService)

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	authService := auth.NewService(
		auth_repo.NewAccountRepo(txManager),
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewInvitationRepo(txManager),
		conceptRepo,
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		Logger:       log,
		JWTValidator: jwtService,

		AuthService:    authService,
		LedgerService:  ledgerService,
		BudgetService:  budgetService,
		ReportsService: reportsService,

		ConceptService:       conceptService,
		PersonService:        personService,
		PaymentFormService:   paymentFormService,
		PaymentMethodService: paymentMethodService,
		CurrencyService:      currencyService,
		ProjectService:       projectService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
