package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/GENKAIYIEE/library-backend/api/swagger"
	"github.com/GENKAIYIEE/library-backend/internal/clock"
	"github.com/GENKAIYIEE/library-backend/internal/handler"
	"github.com/GENKAIYIEE/library-backend/internal/middleware"
	"github.com/GENKAIYIEE/library-backend/internal/models"
	"github.com/GENKAIYIEE/library-backend/internal/repository"
	"github.com/GENKAIYIEE/library-backend/internal/service"
	"github.com/GENKAIYIEE/library-backend/migrations"
	"github.com/GENKAIYIEE/library-backend/pkg/cache"
	"github.com/GENKAIYIEE/library-backend/pkg/config"
	"github.com/GENKAIYIEE/library-backend/pkg/database"
	"github.com/GENKAIYIEE/library-backend/pkg/jobs"
	"github.com/GENKAIYIEE/library-backend/pkg/logger"
	corsmiddleware "github.com/GENKAIYIEE/library-backend/pkg/middleware/cors"
	reqidmiddleware "github.com/GENKAIYIEE/library-backend/pkg/middleware/requestid"
)

// @title Library Circulation API
// @version 1.0.0
// @description Borrow/return lifecycle, fines, clearance, and borrow statistics for a library circulation desk.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrations.Apply(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to apply migrations", "error", err)
	}

	// Repositories.
	tx := repository.NewTransactor(db)
	patronRepo := repository.NewPatronRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	statisticRepo := repository.NewStatisticRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Policy.CacheTTL, logr, cfg.Policy.CacheEnabled)
	policySvc := service.NewPolicyService(settingRepo, cacheSvc, logr)
	systemClock := clock.NewSystem()

	statisticsSvc := service.NewStatisticsService(statisticRepo, jobs.QueueConfig{
		Workers:    cfg.Statistics.Workers,
		BufferSize: cfg.Statistics.BufferSize,
		MaxRetries: cfg.Statistics.MaxRetries,
		RetryDelay: cfg.Statistics.RetryDelay,
	}, systemClock, logr)
	statisticsSvc.Start(ctx)
	defer statisticsSvc.Stop()

	circulationSvc := service.NewCirculationService(tx, loanRepo, catalogRepo, patronRepo, policySvc, statisticsSvc, systemClock, metricsSvc, nil, logr)
	finesSvc := service.NewFinesService(loanRepo, patronRepo, systemClock, nil, logr)
	clearanceSvc := service.NewClearanceService(loanRepo, patronRepo, policySvc, systemClock, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, loanRepo, patronRepo, systemClock, nil, logr)
	loanSvc := service.NewLoanService(loanRepo, patronRepo, systemClock, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Handlers.
	circulationHandler := handler.NewCirculationHandler(circulationSvc)
	finesHandler := handler.NewFinesHandler(finesSvc)
	clearanceHandler := handler.NewClearanceHandler(clearanceSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	loanHandler := handler.NewLoanHandler(loanSvc)
	settingsHandler := handler.NewSettingsHandler(policySvc)
	statisticsHandler := handler.NewStatisticsHandler(statisticsSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	// Read endpoints; any authenticated staff member.
	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/assets/available", catalogHandler.ListAvailable)
		protected.GET("/assets/borrowed", catalogHandler.ListBorrowed)
		protected.GET("/barcode/:code", catalogHandler.Lookup)
		protected.GET("/loans", loanHandler.List)
		protected.GET("/loans/overdue", loanHandler.Overdue)
		protected.GET("/loans/export", loanHandler.ExportCSV)
		protected.GET("/loans/overdue/export", loanHandler.ExportOverduePDF)
		protected.GET("/patrons/:code/loans", loanHandler.History)
		protected.GET("/patrons/:code/fines", finesHandler.ListPatronFines)
		protected.GET("/patrons/:code/clearance", clearanceHandler.Evaluate)
		protected.GET("/settings", settingsHandler.List)
		protected.GET("/settings/policy/:class", settingsHandler.Policy)
		protected.GET("/statistics", statisticsHandler.Yearly)
		protected.GET("/statistics/export/csv", statisticsHandler.ExportCSV)
		protected.GET("/statistics/export/pdf", statisticsHandler.ExportPDF)

		protected.POST("/circulation/borrow", circulationHandler.Borrow)
		protected.POST("/circulation/return", circulationHandler.Return)
		protected.POST("/circulation/lost", circulationHandler.MarkLost)
		protected.POST("/assets/:id/damage", circulationHandler.MarkDamaged)
		protected.POST("/assets/:id/repair", circulationHandler.Repair)
		protected.POST("/assets/:id/restore", circulationHandler.Restore)
		protected.POST("/loans/:id/fine/pay", finesHandler.Pay)
		protected.POST("/loans/:id/fine/waive", finesHandler.Waive)
		protected.POST("/loans/:id/fine/unpay", finesHandler.Unpay)
	}

	// Catalog registration and policy changes are admin-only.
	admin := api.Group("")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/titles", catalogHandler.CreateTitle)
		admin.POST("/assets", catalogHandler.CreateAsset)
		admin.PUT("/settings", settingsHandler.BulkUpdate)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
