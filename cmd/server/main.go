package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	checkoutapp "github.com/retailpos/backend/internal/application/checkout"
	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/printing"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/retailpos/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			RetailPOS Backend API
//	@version		1.0
//	@description	Point-of-sale backend API with catalog management, session bulk loading, order capture and receipt export
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/retailpos/backend
//	@contact.email	support@retailpos.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

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

	log.Info("Starting RetailPOS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize telemetry providers before the database so the GORM
	// logger and repositories pick up the bridged logger
	var (
		tracerProvider *telemetry.TracerProvider
		meterProvider  *telemetry.MeterProvider
		logsProvider   *telemetry.LoggerProvider
	)
	if cfg.Telemetry.Enabled {
		tracerProvider, err = telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()

		meterProvider, err = telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down meter provider", zap.Error(err))
			}
		}()

		logsProvider, err = telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize logs provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := logsProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down logs provider", zap.Error(err))
			}
		}()

		// Swap in a logger that ships records to the OTEL Collector in
		// addition to the configured output
		bridgedLog, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, logsProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Warn("Failed to create bridged logger, keeping plain logger", zap.Error(err))
		} else {
			log = bridgedLog
		}

		log.Info("Telemetry initialized",
			zap.String("collector", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)

		// Continuous profiling (Pyroscope)
		if cfg.Telemetry.ProfilingEnabled {
			profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
				Enabled:             true,
				ServerAddress:       cfg.Telemetry.PyroscopeAddress,
				ApplicationName:     cfg.App.Name,
				ProfileCPU:          true,
				ProfileAllocObjects: true,
				ProfileAllocSpace:   true,
				ProfileInuseObjects: true,
				ProfileInuseSpace:   true,
				ProfileGoroutines:   true,
			}, log)
			if err != nil {
				log.Warn("Failed to start profiler", zap.Error(err))
			} else {
				defer func() {
					if err := profiler.Stop(); err != nil {
						log.Error("Error stopping profiler", zap.Error(err))
					}
				}()
				if err := tracerProvider.EnableSpanProfiles(); err != nil {
					log.Warn("Failed to enable span profiles", zap.Error(err))
				}
				log.Info("Continuous profiling enabled", zap.String("server", cfg.Telemetry.PyroscopeAddress))
			}
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database telemetry plugins
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.DBTraceEnabled {
			dbTracingCfg := telemetry.DefaultDBTracingConfig()
			dbTracingCfg.Enabled = true
			dbTracingCfg.LogFullSQL = cfg.Telemetry.DBLogFullSQL
			if cfg.Telemetry.DBSlowQueryThresh > 0 {
				dbTracingCfg.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
			}
			dbTracingPlugin := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
			if err := dbTracingPlugin.RegisterOtelGorm(db.DB); err != nil {
				log.Warn("Failed to register database tracing", zap.Error(err))
			} else {
				log.Info("Database tracing enabled",
					zap.Duration("slow_query_threshold", dbTracingCfg.SlowQueryThresh),
				)
			}
		}

		dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
		if err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		} else if dbMetrics != nil {
			dbMetrics.StartPoolStatsCollection(context.Background())
			defer dbMetrics.Stop()
		}

		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:       meterProvider.Meter("pos.business"),
			Logger:      log,
			PosProvider: telemetry.NewGormPosMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
			businessMetrics = nil
		} else {
			businessMetrics.StartPeriodicCollection(context.Background(), 0)
			defer businessMetrics.Stop()
		}
	}

	// Initialize repositories
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	sessionRepo := persistence.NewGormPosSessionRepository(db.DB)
	orderRepo := persistence.NewGormPosOrderRepository(db.DB)
	catalogProjector := persistence.NewGormCatalogProjector(db.DB)

	// Payload cache for session bulk loads, Redis-backed with in-memory
	// fallback
	cacheFactory := cache.NewCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithPayloadCacheTTL(cfg.Pos.PayloadCacheTTL),
	)
	var payloadCache catalog.PayloadCache
	if cfg.Pos.PayloadCacheEnabled {
		payloadCache, err = cacheFactory.CreatePayloadCache()
		if err != nil {
			log.Warn("Payload cache unavailable, bulk loads go direct", zap.Error(err))
			payloadCache = nil
		} else {
			log.Info("Payload cache enabled", zap.Duration("ttl", cfg.Pos.PayloadCacheTTL))
		}
	}

	// Attribute registry shared by capture, persistence and printing
	registry := attribute.DefaultRegistry()

	// Initialize application services
	brandService := catalogapp.NewBrandService(brandRepo, productRepo)
	productService := catalogapp.NewProductService(productRepo, brandRepo)

	var sessionDataService *catalogapp.SessionDataService
	if payloadCache != nil {
		sessionDataService = catalogapp.NewCachedSessionDataService(catalogProjector, payloadCache, log)
		sessionDataService.SetPayloadTTL(cfg.Pos.PayloadCacheTTL)
	} else {
		sessionDataService = catalogapp.NewSessionDataService(catalogProjector, log)
	}

	posSessionService := checkoutapp.NewPosSessionService(sessionRepo, log)
	captureService := checkoutapp.NewCaptureService(orderRepo, sessionRepo, brandRepo, registry, log)
	exportService := checkoutapp.NewExportService(orderRepo, brandRepo, registry, printing.NewFormatter(registry), log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Catalog changes invalidate cached bulk-load payloads
	if payloadCache != nil {
		var invalidationHandler shared.EventHandler = catalogapp.NewPayloadInvalidationHandler(payloadCache, log)
		if cfg.Event.IdempotencyEnabled {
			idempotencyStore, err := cacheFactory.CreateIdempotencyStore()
			if err != nil {
				log.Warn("Idempotency store unavailable, handler runs unguarded", zap.Error(err))
			} else {
				invalidationHandler = event.NewIdempotentHandler(invalidationHandler, idempotencyStore, log,
					event.WithIdempotencyConfig(shared.IdempotencyConfig{
						Enabled: true,
						TTL:     cfg.Event.IdempotencyTTL,
					}),
				)
			}
		}
		eventBus.Subscribe(invalidationHandler)
		log.Info("Payload invalidation handler registered",
			zap.Strings("event_types", invalidationHandler.EventTypes()),
		)
	}

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	brandService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	posSessionService.SetEventPublisher(eventBus)
	captureService.SetEventPublisher(eventBus)

	// Inject business metrics into services that record them
	if businessMetrics != nil {
		posSessionService.SetBusinessMetrics(businessMetrics)
		captureService.SetBusinessMetrics(businessMetrics)
		sessionDataService.SetBusinessMetrics(businessMetrics)
	}

	// Initialize HTTP handlers
	brandHandler := handler.NewBrandHandler(brandService)
	productHandler := handler.NewProductHandler(productService)
	posCatalogHandler := handler.NewPosCatalogHandler(sessionDataService)
	posSessionHandler := handler.NewPosSessionHandler(posSessionService, sessionDataService)
	posOrderHandler := handler.NewPosOrderHandler(captureService, exportService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing/Metrics/Profiling - Telemetry (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Request tracing, HTTP metrics and profiling labels
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
		if cfg.Telemetry.ProfilingEnabled {
			engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
		}
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint (IP-restricted when configured)
	if cfg.Swagger.Enabled {
		swaggerGroup := engine.Group("/swagger")
		swaggerGroup.Use(middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}))
		swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Terminal identification on API routes. The X-Terminal-ID header is
	// optional and feeds logging, tracing and metrics labels
	terminalConfig := middleware.DefaultTerminalConfig()
	terminalConfig.Logger = log
	r.Use(middleware.TerminalMiddlewareWithConfig(terminalConfig))

	// Catalog domain (brands, products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "catalog service ready"})
	})
	// Brand routes
	catalogRoutes.POST("/brands", brandHandler.Create)
	catalogRoutes.GET("/brands", brandHandler.List)
	catalogRoutes.GET("/brands/:id", brandHandler.GetByID)
	catalogRoutes.PUT("/brands/:id", brandHandler.Update)
	catalogRoutes.DELETE("/brands/:id", brandHandler.Delete)
	catalogRoutes.POST("/brands/:id/activate", brandHandler.Activate)
	catalogRoutes.POST("/brands/:id/deactivate", brandHandler.Deactivate)
	// Product routes
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/code/:code", productHandler.GetByCode)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	catalogRoutes.POST("/products/:id/activate", productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)

	// POS domain (sessions, catalog loading, order capture and export)
	posRoutes := router.NewDomainGroup("pos", "/pos")
	posRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pos service ready"})
	})
	// Session bulk-load routes
	posRoutes.POST("/catalog/load", posCatalogHandler.Load)
	// Session routes
	posRoutes.POST("/sessions", posSessionHandler.Open)
	posRoutes.GET("/sessions/:id", posSessionHandler.GetByID)
	posRoutes.POST("/sessions/:id/close", posSessionHandler.Close)
	posRoutes.GET("/sessions/:id/load-params", posSessionHandler.LoadParams)
	// Order routes
	posRoutes.POST("/orders", posOrderHandler.Capture)
	posRoutes.GET("/orders", posOrderHandler.List)
	posRoutes.GET("/orders/:id", posOrderHandler.GetByID)
	posRoutes.GET("/orders/:id/export", posOrderHandler.Export)
	posRoutes.GET("/orders/:id/receipt", posOrderHandler.Receipt)

	// Register all domain groups
	r.Register(catalogRoutes).
		Register(posRoutes)

	// Register system routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
