package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/resto/backend/internal/application/catalog"
	stockapp "github.com/resto/backend/internal/application/stock"
	"github.com/resto/backend/internal/domain/numbering"
	"github.com/resto/backend/internal/infrastructure/auth"
	"github.com/resto/backend/internal/infrastructure/config"
	"github.com/resto/backend/internal/infrastructure/logger"
	"github.com/resto/backend/internal/infrastructure/persistence"
	"github.com/resto/backend/internal/infrastructure/scheduler"
	"github.com/resto/backend/internal/interfaces/http/handler"
	"github.com/resto/backend/internal/interfaces/http/middleware"
	"github.com/resto/backend/internal/interfaces/http/router"
	"github.com/resto/backend/internal/interfaces/http/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting stock ledger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	materialRepo := persistence.NewGormRawMaterialRepository(db.DB)
	sectionRepo := persistence.NewGormSectionRepository(db.DB)

	// The sequencer runs its own short transaction per reference, wrapped
	// with a fallback so a counter outage never blocks a receipt.
	var sequencer numbering.Sequencer = numbering.NewFallbackSequencer(
		persistence.NewGormSequencer(db.DB), log)

	scope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	ledgerService := stockapp.NewLedgerService(
		materialRepo,
		persistence.NewGormStockEntryRepository(db.DB),
		persistence.NewGormStockMovementRepository(db.DB),
		scope,
		sequencer,
		log,
		stockapp.WithLowStockCheck(cfg.Stock.LowStockCheckEnabled),
	)
	sectionService := stockapp.NewSectionService(
		materialRepo,
		sectionRepo,
		persistence.NewGormSectionInventoryRepository(db.DB),
		scope,
		sequencer,
		log,
	)
	consumptionService := stockapp.NewConsumptionService(
		materialRepo,
		persistence.NewGormSectionConsumptionRepository(db.DB),
		scope,
		sequencer,
		cfg.Stock.StrictMovements,
		log,
	)
	catalogService := catalogapp.NewCatalogService(materialRepo, sectionRepo, log)

	expiryMonitor := scheduler.NewExpiryMonitor(scheduler.DefaultExpiryMonitorConfig(), ledgerService, log)
	expiryMonitor.Start(context.Background())
	defer expiryMonitor.Stop()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := validation.Register(); err != nil {
		log.Fatal("Failed to register request validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Without a signing secret the API trusts the X-User-ID header, which
	// is only acceptable for local development.
	if cfg.JWT.Secret != "" {
		jwtService := auth.NewJWTService(cfg.JWT)
		jwtConfig := middleware.DefaultJWTConfig(jwtService)
		jwtConfig.Logger = log
		engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	} else {
		log.Warn("JWT secret not configured, authentication disabled")
	}

	router.RegisterAll(engine, router.Handlers{
		Stock:       handler.NewStockHandler(ledgerService),
		Section:     handler.NewSectionHandler(sectionService),
		Consumption: handler.NewConsumptionHandler(consumptionService),
		Catalog:     handler.NewCatalogHandler(catalogService),
		Health:      handler.NewHealthHandler(db),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
