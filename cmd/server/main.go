package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appdocument "github.com/StephaneWamba/InvoiceFlow/internal/application/document"
	matchingapp "github.com/StephaneWamba/InvoiceFlow/internal/application/matching"
	workspaceapp "github.com/StephaneWamba/InvoiceFlow/internal/application/workspace"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/cache"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/config"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/extraction"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/logger"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/persistence"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/storage"
	"github.com/StephaneWamba/InvoiceFlow/internal/interfaces/http/handler"
	"github.com/StephaneWamba/InvoiceFlow/internal/interfaces/http/middleware"
	"github.com/StephaneWamba/InvoiceFlow/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting InvoiceFlow",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize object storage
	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
	}
	log.Info("Object storage ready", zap.String("bucket", objectStorage.GetBucket()))

	// Initialize reconcile lock
	reconcileLock, err := cache.NewRedisReconcileLock(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := reconcileLock.Close(); err != nil {
			log.Error("Error closing redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected successfully")

	// Initialize repositories
	workspaceRepo := persistence.NewGormWorkspaceRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	extractedRepo := persistence.NewGormExtractedDataRepository(db.DB)
	resultRepo := persistence.NewGormMatchingResultRepository(db.DB)

	// Initialize application services
	uploadLimits := appdocument.UploadLimits{
		MaxFileSize:       cfg.Upload.MaxFileSize,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
	}
	extractor, err := newExtractor(cfg.Extraction)
	if err != nil {
		log.Fatal("Failed to initialize extractor", zap.Error(err))
	}
	workspaceService := workspaceapp.NewService(workspaceRepo, documentRepo, objectStorage, log)
	documentService := appdocument.NewService(
		workspaceRepo, documentRepo, extractedRepo,
		objectStorage, extractor, uploadLimits, log,
	)
	matchingService := matchingapp.NewService(
		workspaceRepo, documentRepo, extractedRepo, resultRepo,
		reconcileLock, log,
	)

	// Setup gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.BodyLimit(cfg.Upload.MaxFileSize + 1<<20))

	// Register routes
	r := router.NewRouter(engine)
	r.Register(handler.NewWorkspaceHandler(workspaceService)).
		Register(handler.NewDocumentHandler(documentService)).
		Register(handler.NewMatchingHandler(matchingService)).
		Register(handler.NewSystemHandler(db))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// newExtractor selects the extraction backend by configuration
func newExtractor(cfg config.ExtractionConfig) (appdocument.Extractor, error) {
	switch cfg.Provider {
	case "stub":
		return extraction.NewStubExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", cfg.Provider)
	}
}
