// cmd/api/main.go
package main

// @title Client Portal API
// @version 1.0
// @description Campaign metrics dashboards, webhook proxy and analytics receiver for client portals.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"clientportal/internal/config"
	"clientportal/internal/db"
	"clientportal/internal/db/migrations"
	"clientportal/internal/handlers"
	"clientportal/internal/observability"
	"clientportal/internal/refresh"
	"clientportal/internal/repository"
	"clientportal/internal/routes"
	"clientportal/internal/services"
	"clientportal/internal/simulate"
	"clientportal/internal/tenants"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			logger.Fatal(ctx, "JWT_SECRET must be set in production", errors.New("missing JWT_SECRET"))
		}
		cfg.JWTSecret = randomSecret()
		logger.Warn(ctx, "JWT_SECRET not set, using a random secret; sessions will not survive restarts")
	}

	if err := db.CreateDatabaseIfNotExists(ctx, cfg.DatabaseURL, logger); err != nil {
		logger.Fatal(ctx, "failed to ensure database exists", err)
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", err)
	}
	defer database.Close()

	if err := migrations.RunMigrations(ctx, database.DB, logger); err != nil {
		logger.Fatal(ctx, "failed to run migrations", err)
	}

	registry, err := tenants.Load(cfg.TenantsFile)
	if err != nil {
		logger.Fatal(ctx, "failed to load tenants", err)
	}
	logger.Info(ctx, "tenants loaded", zap.Int("count", registry.Len()), zap.Strings("keys", registry.Keys()))

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	webhook := services.NewWebhookClient(cfg.WebhookTimeout)
	orchestrator := refresh.New(
		registry,
		webhook,
		simulate.NewGenerator(cfg.SimulatedDelay),
		repository.NewRefreshStateRepository(database.DB),
		refresh.NewMetrics(promRegistry),
		logger,
		refresh.Options{
			Cooldown:       cfg.RefreshCooldown,
			LoadTimeout:    cfg.WebhookTimeout,
			RefreshTimeout: cfg.RefreshTimeout,
			Origin:         "client-portal",
		},
	)

	var exporter handlers.ReportExporter
	s3Config, err := config.NewS3Config(ctx)
	if err != nil {
		logger.Fatal(ctx, "failed to load S3 configuration", err)
	}
	if s3Config != nil {
		exporter = services.NewReportExporter(s3Config)
		logger.Info(ctx, "report export enabled", zap.String("bucket", s3Config.Bucket))
	}

	router := routes.SetupRoutes(routes.Dependencies{
		DB:         database.DB,
		Config:     cfg,
		Logger:     logger,
		Tenants:    registry,
		Webhook:    webhook,
		Dashboards: orchestrator,
		Exporter:   exporter,
		Metrics:    promRegistry,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server forced to shutdown", err)
	}

	logger.Info(ctx, "server exiting")
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
