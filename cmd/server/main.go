package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	budgetapp "github.com/landscape/backend/internal/application/budget"
	contactapp "github.com/landscape/backend/internal/application/contact"
	dmsapp "github.com/landscape/backend/internal/application/dms"
	financeapp "github.com/landscape/backend/internal/application/finance"
	gisapp "github.com/landscape/backend/internal/application/gis"
	inventoryapp "github.com/landscape/backend/internal/application/inventory"
	landscaperapp "github.com/landscape/backend/internal/application/landscaper"
	landuseapp "github.com/landscape/backend/internal/application/landuse"
	planningapp "github.com/landscape/backend/internal/application/planning"
	projectapp "github.com/landscape/backend/internal/application/project"
	valuationapp "github.com/landscape/backend/internal/application/valuation"
	"github.com/landscape/backend/internal/domain/landscaper"
	"github.com/landscape/backend/internal/infrastructure/auth"
	"github.com/landscape/backend/internal/infrastructure/cache"
	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/landscape/backend/internal/infrastructure/gis"
	landscaperclient "github.com/landscape/backend/internal/infrastructure/landscaper"
	"github.com/landscape/backend/internal/infrastructure/logger"
	"github.com/landscape/backend/internal/infrastructure/persistence"
	"github.com/landscape/backend/internal/infrastructure/report"
	"github.com/landscape/backend/internal/infrastructure/storage"
	"github.com/landscape/backend/internal/infrastructure/telemetry"
	"github.com/landscape/backend/internal/interfaces/http/handler"
	"github.com/landscape/backend/internal/interfaces/http/middleware"
	"github.com/landscape/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/landscape/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Landscape API
//	@version		1.0
//	@description	Real-estate land development underwriting: planning, land use, budgets, finance, valuation and documents.

//	@contact.name	Landscape Engineering

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry starts before the logger so the OTLP log bridge can be teed in
	bootLog := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := logger.New(
		logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output},
		logProvider.Core(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)),
	)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Landscape backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	appMetrics, err := telemetry.NewAppMetrics(meterProvider.Meter("landscape"))
	if err != nil {
		log.Fatal("Failed to register application metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.NewDBTracing(cfg.Telemetry, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	backend := cache.NewBackend(ctx, cfg.Redis, log)

	var objects dmsapp.ObjectStorage
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Storage(ctx, cfg.Storage, storage.WithLogger(log), storage.WithPresignExpiry(cfg.Storage.PresignExpiry))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare document bucket", zap.Error(err))
		}
		objects = s3
	} else {
		log.Warn("Object storage not configured, documents are kept in memory")
		objects = storage.NewMemoryStorage("http://localhost:" + cfg.App.Port + "/objects")
	}

	exporters, err := report.NewExporters(cfg.Report, log)
	if err != nil {
		log.Fatal("Failed to initialize budget exporters", zap.Error(err))
	}

	parcelSource, err := gis.NewArcGISClient(cfg.GIS, backend.Cache, log, gis.WithMetrics(appMetrics))
	if err != nil {
		log.Fatal("Failed to initialize GIS client", zap.Error(err))
	}

	// A nil client makes every Landscaper call fail with UPSTREAM_UNAVAILABLE
	var assistant landscaper.Client
	if c, err := landscaperclient.NewHTTPClient(cfg.Landscaper, log, landscaperclient.WithMetrics(appMetrics)); err != nil {
		log.Warn("Landscaper client disabled", zap.Error(err))
	} else {
		assistant = c
	}

	// Repositories
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	areaRepo := persistence.NewGormAreaRepository(db.DB)
	phaseRepo := persistence.NewGormPhaseRepository(db.DB)
	parcelRepo := persistence.NewGormParcelRepository(db.DB)
	taxonomyRepo := persistence.NewGormTaxonomyRepository(db.DB)
	mappingRepo := persistence.NewGormMappingRepository(db.DB)
	templateRepo := persistence.NewGormBudgetTemplateRepository(db.DB)
	categoryRepo := persistence.NewGormBudgetCategoryRepository(db.DB)
	itemRepo := persistence.NewGormBudgetItemRepository(db.DB)
	facilityRepo := persistence.NewGormDebtFacilityRepository(db.DB)
	scenarioRepo := persistence.NewGormScenarioRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	attributeRepo := persistence.NewGormAttributeRepository(db.DB)
	docTemplateRepo := persistence.NewGormDocumentTemplateRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)

	// Application services
	projectService := projectapp.NewProjectService(projectRepo)
	dashboardService := projectapp.NewDashboardService(projectapp.DashboardDeps{
		Projects:   projectRepo,
		Categories: categoryRepo,
		Items:      itemRepo,
		Parcels:    parcelRepo,
		Facilities: facilityRepo,
		Inventory:  inventoryRepo,
		Scenarios:  scenarioRepo,
	})
	areaService := planningapp.NewAreaService(projectRepo, areaRepo)
	phaseService := planningapp.NewPhaseService(projectRepo, areaRepo, phaseRepo)
	parcelService := planningapp.NewParcelService(planningapp.ParcelServiceDeps{
		Projects: projectRepo,
		Areas:    areaRepo,
		Phases:   phaseRepo,
		Parcels:  parcelRepo,
		Taxonomy: taxonomyRepo,
		Mappings: mappingRepo,
		Source:   parcelSource,
		Logger:   log,
	})
	landUseService := landuseapp.NewLandUseService(taxonomyRepo, mappingRepo, log)
	templateService := budgetapp.NewTemplateService(budgetapp.TemplateServiceDeps{
		Projects:   projectRepo,
		Templates:  templateRepo,
		Categories: categoryRepo,
		Locker:     backend.Locker,
		Metrics:    appMetrics,
		Logger:     log,
	})
	budgetService := budgetapp.NewBudgetService(budgetapp.BudgetServiceDeps{
		Projects:   projectRepo,
		Phases:     phaseRepo,
		Categories: categoryRepo,
		Items:      itemRepo,
		Exporters:  exporters.ByFormat(),
		Metrics:    appMetrics,
		Logger:     log,
	})
	facilityService := financeapp.NewFacilityService(projectRepo, facilityRepo)
	scenarioService := valuationapp.NewScenarioService(projectRepo, scenarioRepo)
	contactService := contactapp.NewContactService(contactRepo, projectRepo, nil)
	attributeService := dmsapp.NewAttributeService(attributeRepo)
	docTemplateService := dmsapp.NewDocTemplateService(docTemplateRepo, attributeRepo)
	documentService := dmsapp.NewDocumentService(dmsapp.DocumentServiceDeps{
		Projects:   projectRepo,
		Documents:  documentRepo,
		Templates:  docTemplateRepo,
		Attributes: attributeRepo,
		Storage:    objects,
		Landscaper: assistant,
		Metrics:    appMetrics,
		Logger:     log,
	})
	inventoryService := inventoryapp.NewInventoryService(inventoryapp.InventoryServiceDeps{
		Projects: projectRepo,
		Phases:   phaseRepo,
		Parcels:  parcelRepo,
		Items:    inventoryRepo,
		Logger:   log,
	})
	gisService := gisapp.NewGISService(parcelSource)
	landscaperService := landscaperapp.NewLandscaperService(projectRepo, assistant, log)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	checks := map[string]handler.Pinger{"database": sqlDB}
	if backend.Distributed() {
		checks["redis"] = backend
	}
	systemHandler := handler.NewSystemHandler(version, checks)

	handlers := router.Handlers{
		Project:    handler.NewProjectHandler(projectService, dashboardService),
		Planning:   handler.NewPlanningHandler(areaService, phaseService, parcelService),
		LandUse:    handler.NewLandUseHandler(landUseService),
		Budget:     handler.NewBudgetHandler(templateService, budgetService),
		Finance:    handler.NewFinanceHandler(facilityService),
		Valuation:  handler.NewValuationHandler(scenarioService),
		Contact:    handler.NewContactHandler(contactService),
		DMS:        handler.NewDMSHandler(attributeService, docTemplateService, documentService),
		Inventory:  handler.NewInventoryHandler(inventoryService),
		GIS:        handler.NewGISHandler(gisService),
		Landscaper: handler.NewLandscaperHandler(landscaperService),
		System:     systemHandler,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: request id first so every later layer can log it,
	// tracing before metrics and profiling so their spans carry the route.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(meterProvider.Meter("landscape.http")))
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = profiler.IsEnabled()
	engine.Use(middleware.Profiling(profiling))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var apiMiddleware []gin.HandlerFunc
	if cfg.JWT.Enabled {
		jwtConfig := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.JWT))
		jwtConfig.SkipPaths = append(jwtConfig.SkipPaths, cfg.JWT.SkipPaths...)
		jwtConfig.Logger = log
		apiMiddleware = append(apiMiddleware, middleware.JWTAuthMiddleware(jwtConfig))
	} else {
		log.Warn("JWT authentication disabled")
	}
	apiMiddleware = append(apiMiddleware, middleware.TraceAttributes())

	router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithMiddleware(apiMiddleware...)).
		RegisterGroups(router.DomainGroups(handlers)...).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	exporters.Close()
	if err := backend.Close(); err != nil {
		log.Error("Error closing cache backend", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing traces", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
