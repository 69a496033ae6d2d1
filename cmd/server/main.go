package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcatalog "github.com/verdantmarket/backend/internal/application/catalog"
	apponboarding "github.com/verdantmarket/backend/internal/application/onboarding"
	appvendor "github.com/verdantmarket/backend/internal/application/vendor"
	domaincatalog "github.com/verdantmarket/backend/internal/domain/catalog"
	domainonboarding "github.com/verdantmarket/backend/internal/domain/onboarding"
	domainvendor "github.com/verdantmarket/backend/internal/domain/vendor"
	"github.com/verdantmarket/backend/internal/infrastructure/auth"
	"github.com/verdantmarket/backend/internal/infrastructure/config"
	"github.com/verdantmarket/backend/internal/infrastructure/logger"
	"github.com/verdantmarket/backend/internal/infrastructure/persistence"
	"github.com/verdantmarket/backend/internal/infrastructure/persistence/memory"
	"github.com/verdantmarket/backend/internal/infrastructure/sessionstore"
	"github.com/verdantmarket/backend/internal/interfaces/http/handler"
	"github.com/verdantmarket/backend/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting VerdantMarket vendor backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	pingers := make(map[string]handler.Pinger)

	// Repositories: GORM-backed for postgres and sqlite, in-process maps for
	// the memory driver.
	var (
		profileRepo domainvendor.ProfileRepository
		productRepo domaincatalog.ProductRepository
		orderRepo   domainvendor.OrderRepository
	)
	if cfg.Database.Driver == config.DriverMemory {
		profileRepo = memory.NewProfileRepository()
		productRepo = memory.NewProductRepository()
		orderRepo = memory.NewOrderRepository()
		log.Info("Using in-memory repositories")
	} else {
		db, err := persistence.NewDatabase(cfg, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

		profileRepo = persistence.NewGormProfileRepository(db.DB)
		productRepo = persistence.NewGormProductRepository(db.DB)
		orderRepo = persistence.NewGormOrderRepository(db.DB)
		pingers["database"] = db
	}

	// Onboarding session store
	var sessionRepo domainonboarding.SessionRepository
	if cfg.Session.Store == config.SessionStoreRedis {
		redisStore, err := sessionstore.NewRedisSessionStore(cfg.Redis, cfg.Session.TTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		sessionRepo = redisStore
		pingers["redis"] = redisStore
		log.Info("Session store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		sessionRepo = sessionstore.NewMemorySessionStore(cfg.Session.TTL)
		log.Info("Using in-memory session store")
	}

	// Application services
	sessionService := apponboarding.NewSessionService(sessionRepo, profileRepo, productRepo)
	productService := appcatalog.NewProductService(productRepo, orderRepo)
	orderService := appvendor.NewOrderService(orderRepo)
	orderService.SetRefundForcesCancel(cfg.Orders.RefundForcesCancel)

	jwtService := auth.NewJWTService(cfg.JWT)

	handlers := router.Handlers{
		System:     handler.NewSystemHandler(version, pingers),
		Onboarding: handler.NewOnboardingHandler(sessionService),
		Product:    handler.NewProductHandler(productService),
		Order:      handler.NewOrderHandler(orderService),
	}

	engine := router.Setup(cfg, log, jwtService, handlers)

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
