package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/marklytics/marksheet-api/api/swagger"
	"github.com/marklytics/marksheet-api/internal/grading"
	"github.com/marklytics/marksheet-api/internal/handler"
	"github.com/marklytics/marksheet-api/internal/middleware"
	"github.com/marklytics/marksheet-api/internal/models"
	"github.com/marklytics/marksheet-api/internal/repository"
	"github.com/marklytics/marksheet-api/internal/sample"
	"github.com/marklytics/marksheet-api/internal/service"
	"github.com/marklytics/marksheet-api/pkg/cache"
	"github.com/marklytics/marksheet-api/pkg/config"
	"github.com/marklytics/marksheet-api/pkg/database"
	"github.com/marklytics/marksheet-api/pkg/jobs"
	"github.com/marklytics/marksheet-api/pkg/logger"
	corsmiddleware "github.com/marklytics/marksheet-api/pkg/middleware/cors"
	reqidmiddleware "github.com/marklytics/marksheet-api/pkg/middleware/requestid"
	"github.com/marklytics/marksheet-api/pkg/storage"
)

// @title Marksheet API
// @version 1.0.0
// @description Result computation, ranking and report generation service
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

	validate := validator.New()

	subjectRepo := repository.NewSubjectRepository(db)
	resultRepo := repository.NewResultRepository(redisClient, logr, 0)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	jobRepo := repository.NewExportJobRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	var source service.MarksheetSource
	if cfg.Sample.Enabled {
		source = sample.NewGenerator(cfg.Sample.MarkFloor, cfg.Grading.InternalFraction)
	}

	computeOpts := grading.ComputeOptions{
		Scheme:           models.GradingScheme(cfg.Grading.Scheme),
		InternalFraction: cfg.Grading.InternalFraction,
		MarkFloor:        cfg.Grading.MarkFloor,
	}

	resultSvc := service.NewResultService(subjectRepo, resultRepo, cacheSvc, metricsSvc, source, validate, logr, computeOpts)
	statsSvc := service.NewStatisticsService(resultRepo, cacheSvc, metricsSvc, logr, cfg.Grading.PassThreshold)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reportHandler *handler.ReportHandler
	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(resultSvc, statsSvc, fileStore, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr)

		worker := service.NewReportWorker(jobRepo, exportSvc, metricsSvc, cfg.Reports.WorkerRetries, logr)
		reportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportQueue.Start(ctx)
		defer reportQueue.Stop()

		reportSvc := service.NewReportService(jobRepo, reportQueue, exportSvc, validate, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)

		reportHandler = handler.NewReportHandler(reportSvc)
	}

	resultHandler := handler.NewResultHandler(resultSvc)
	statsHandler := handler.NewStatisticsHandler(statsSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.JWT.Enabled {
		api.Use(middleware.JWT(cfg.JWT.Secret))
	}

	subjects := api.Group("/subjects")
	{
		subjects.GET("", subjectHandler.List)
		subjects.POST("", subjectHandler.Create)
		subjects.GET("/:code", subjectHandler.Get)
		subjects.PUT("/:code", subjectHandler.Update)
		subjects.DELETE("/:code", subjectHandler.Delete)
	}

	results := api.Group("/results")
	{
		results.POST("", resultHandler.Submit)
		results.POST("/batch", resultHandler.SubmitBatch)
		results.POST("/sample-import", resultHandler.ImportSamples)
		results.GET("", resultHandler.List)
		results.GET("/rankings", resultHandler.Rankings)
		results.GET("/:rollNumber", resultHandler.Get)
		results.DELETE("/:rollNumber", resultHandler.Delete)
		results.DELETE("", resultHandler.DeleteCohort)
	}
	api.GET("/cohorts", resultHandler.Cohorts)

	statistics := api.Group("/statistics")
	{
		statistics.GET("/summary", statsHandler.Summary)
		statistics.GET("/comparison", statsHandler.Comparison)
		statistics.GET("/system", statsHandler.System)
	}

	if reportHandler != nil {
		reports := api.Group("/reports")
		{
			reports.POST("", reportHandler.Create)
			reports.GET("/:id", reportHandler.Status)
			reports.GET("/download/:token", reportHandler.Download)
		}
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
