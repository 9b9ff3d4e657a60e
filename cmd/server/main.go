package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizview/backend/internal/domain/uiview"
	"github.com/bizview/backend/internal/infrastructure/config"
	"github.com/bizview/backend/internal/infrastructure/logger"
	"github.com/bizview/backend/internal/infrastructure/manifest"
	"github.com/bizview/backend/internal/infrastructure/modules"
	"github.com/bizview/backend/internal/infrastructure/telemetry"
	"github.com/bizview/backend/internal/interfaces/http/handler"
	"github.com/bizview/backend/internal/interfaces/http/middleware"
	"github.com/bizview/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting view resolution service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Build the module store per the configured driver
	store, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize module store", zap.Error(err))
	}
	log.Info("Module store ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.Bool("redis_cache", cfg.Redis.Enabled))

	// Load the build-time manifest and populate the registries
	mf, err := manifest.Load(cfg.Manifest.Path)
	if err != nil {
		log.Fatal("Failed to load view manifest", zap.String("path", cfg.Manifest.Path), zap.Error(err))
	}

	registry, err := mf.BuildRegistry(store)
	if err != nil {
		log.Fatal("Failed to build view registry", zap.Error(err))
	}

	deps := uiview.NewDependencies(log)
	catalog := modules.NewHandlerCatalog()
	handlerRegistry, err := mf.BuildHandlerRegistry(catalog, deps)
	if err != nil {
		log.Fatal("Failed to build handler registry", zap.Error(err))
	}
	log.Info("View manifest loaded",
		zap.Int("views", registry.Len()),
		zap.Int("handler_bindings", handlerRegistry.Len()))

	resolver := uiview.NewResolver(registry, handlerRegistry,
		uiview.WithLogger(log),
		uiview.WithDependencies(deps))

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack in order: request ID, panic recovery, access log,
	// tracing, CORS, tenant extraction.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
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
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.Tenant(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TraceAttributes())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(registry))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewViewHandler(resolver, cfg.HTTP.RenderTimeout))
	r.Register(handler.NewSystemHandler())
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

// buildStore assembles the module store: the configured backing driver,
// optionally wrapped in the shared Redis read-through cache.
func buildStore(cfg *config.Config, log *zap.Logger) (modules.Store, error) {
	var (
		inner modules.Store
		err   error
	)
	switch cfg.Storage.Driver {
	case "s3":
		inner, err = modules.NewS3Store(&cfg.Storage, modules.WithS3Logger(log))
	default:
		inner, err = modules.NewFSStore(cfg.Storage.Root, modules.WithFSLogger(log))
	}
	if err != nil {
		return nil, err
	}

	if !cfg.Redis.Enabled {
		return inner, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return modules.NewCachedStore(inner, client,
		modules.WithModuleTTL(cfg.Redis.TTL),
		modules.WithCacheLogger(log)), nil
}

// healthHandler reports process liveness and registry population
func healthHandler(registry *uiview.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"views":  registry.Len(),
		})
	}
}
