package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivens03/microservices-padoca/internal/board"
	"github.com/ivens03/microservices-padoca/internal/cart"
	"github.com/ivens03/microservices-padoca/internal/catalog"
	"github.com/ivens03/microservices-padoca/internal/handler"
	mid "github.com/ivens03/microservices-padoca/internal/middleware"
	"github.com/ivens03/microservices-padoca/internal/orders"
	"github.com/ivens03/microservices-padoca/internal/session"
	"github.com/ivens03/microservices-padoca/pkg/config"
	"github.com/ivens03/microservices-padoca/pkg/database"
	"github.com/ivens03/microservices-padoca/pkg/logger"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/ivens03/microservices-padoca/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sessionPurgeInterval = time.Hour

func main() {
	// Load configuration
	appConfig, err := config.Load("storefront")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storefront gateway", appConfig.LogFields()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig.Metrics.Prefix)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize session database
	db, err := database.Open(&appConfig.DB, &session.Session{})
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established", zap.String("driver", appConfig.DB.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Components
	client := padoca.NewClient(appConfig.Backend.BaseURL, appConfig.Backend.Timeout, log.Named("backend"))
	sessions := session.NewManager(client, session.NewGormStore(db), appConfig.Session.DefaultTTL, log.Named("session"))
	carts := cart.NewStore()
	cat := catalog.New(client, log.Named("catalog"))
	lifecycle := orders.NewLifecycle(client, log.Named("orders"))
	boards := board.NewRegistry(ctx, appConfig.Board.PollInterval, lifecycle, log.Named("board"))
	lifecycle.WithRefresher(boards)

	if err := cat.Load(ctx); err != nil {
		// The menu retries on the next request
		log.Warn("Initial catalog load incomplete", zap.Error(err))
	}

	go purgeSessions(ctx, sessions, log)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.SessionMiddleware(mid.SessionConfig{
		Resolver:   sessions,
		IDs:        carts,
		CookieName: appConfig.Session.CookieName,
		OnExpired:  boards.Close,
	}))

	// Routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.Health)

	handler.Handlers{
		Auth:       handler.NewAuthHandler(sessions, client, carts, boards),
		Storefront: handler.NewStorefrontHandler(cat, carts, lifecycle, client),
		Board:      handler.NewBoardHandler(boards, lifecycle, appConfig.Board.PollInterval),
		Console:    handler.NewConsoleHandler(client, cat, lifecycle),
	}.Register(e)

	// Start server
	go func() {
		port := appConfig.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	boards.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}

// purgeSessions drops expired sessions until ctx is done
func purgeSessions(ctx context.Context, sessions *session.Manager, log *zap.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Purge(ctx)
			if err != nil {
				log.Warn("Session purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("Expired sessions purged", zap.Int64("count", n))
			}
		}
	}
}
