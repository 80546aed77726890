package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hubzone/backend/internal/application/export"
	"github.com/hubzone/backend/internal/application/maps"
	"github.com/hubzone/backend/internal/application/stats"
	"github.com/hubzone/backend/internal/infrastructure/cache"
	"github.com/hubzone/backend/internal/infrastructure/config"
	"github.com/hubzone/backend/internal/infrastructure/logger"
	"github.com/hubzone/backend/internal/infrastructure/persistence"
	"github.com/hubzone/backend/internal/infrastructure/scheduler"
	"github.com/hubzone/backend/internal/infrastructure/telemetry"
	"github.com/hubzone/backend/internal/interfaces/http/handler"
	"github.com/hubzone/backend/internal/interfaces/http/middleware"
	"github.com/hubzone/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting HUBZone map server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	// Connect to PostGIS through GORM with the zap-backed query logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, cfg.Telemetry.Enabled, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	regionRepo := persistence.NewGormRegionRepository(db.DB)
	historyRepo := persistence.NewGormHistoryRepository(db.DB)
	importRepo := persistence.NewGormImportRunRepository(db.DB)

	// Tile cache and its expiration sweeper
	tileCache := cache.NewTileCache(cfg, log)
	sweeper := scheduler.NewTileSweepScheduler(tileCache, cfg.Tile.SweepInterval, log)
	sweeper.Start(ctx)

	// Application services
	tileService := maps.NewTileService(regionRepo, tileCache, maps.TileSettings{
		Extent:            cfg.Tile.Extent,
		Buffer:            cfg.Tile.Buffer,
		SimplifyTolerance: cfg.Tile.SimplifyTolerance,
		Layer:             cfg.Tile.Layer,
	}, log)
	radiusService := maps.NewRadiusService(regionRepo, maps.SearchSettings{
		MaxRadiusMiles: cfg.Search.MaxRadiusMiles,
		MaxResults:     cfg.Search.MaxResults,
	}, log)
	tractService := maps.NewTractService(regionRepo, historyRepo)
	statsService := stats.NewStatisticsService(regionRepo, importRepo, tileCache, log)
	exportService := export.NewExportService(regionRepo, cfg.Export.FilenamePrefix, log)

	// HTTP handlers
	mapHandler := handler.NewMapHandler(tileService, radiusService, tractService, statsService)
	exportHandler := handler.NewExportHandler(exportService)
	systemHandler := handler.NewSystemHandler(db)

	// Gin engine and middleware chain
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanErrorMarker(),
		middleware.CORSWithConfig(corsConfig),
	)

	// Routes
	mapGroup := router.NewDomainGroup("map", "/map").
		GET("/tiles/:z/:x/:y", mapHandler.GetTile).
		GET("/radius", mapHandler.SearchRadius).
		GET("/tracts/:tractId", mapHandler.GetTract).
		GET("/statistics", mapHandler.GetStatistics).
		GET("/export", exportHandler.Export)

	systemGroup := router.NewDomainGroup("system", "/system").
		GET("/info", systemHandler.GetSystemInfo).
		GET("/ping", systemHandler.Ping)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(mapGroup).
		Register(systemGroup).
		Setup()

	// Liveness endpoint outside the versioned API for load balancers
	engine.GET("/health", systemHandler.Health)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	sweeper.Stop()

	if err := tileCache.Close(); err != nil {
		log.Error("Tile cache close failed", zap.Error(err))
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer provider shutdown failed", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Database close failed", zap.Error(err))
	}

	log.Info("Server stopped")
}
