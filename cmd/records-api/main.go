package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campusops/ccrm-api/api/swagger"
	"github.com/campusops/ccrm-api/internal/handler"
	"github.com/campusops/ccrm-api/internal/middleware"
	"github.com/campusops/ccrm-api/internal/models"
	"github.com/campusops/ccrm-api/internal/service"
	"github.com/campusops/ccrm-api/internal/store"
	"github.com/campusops/ccrm-api/pkg/cache"
	"github.com/campusops/ccrm-api/pkg/config"
	"github.com/campusops/ccrm-api/pkg/export"
	"github.com/campusops/ccrm-api/pkg/logger"
	corsmiddleware "github.com/campusops/ccrm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusops/ccrm-api/pkg/middleware/requestid"
	"github.com/campusops/ccrm-api/pkg/storage"
)

// @title Campus Course & Records Manager API
// @version 1.0.0
// @description Enrollment, grading and transcript engine for the registrar's office
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	records := store.New()

	cacheStore := store.NewCacheStore(nil, logr)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, transcript caching disabled", zap.Error(err))
		} else {
			cacheStore = store.NewCacheStore(client, logr)
		}
	}
	defer cacheStore.Close() //nolint:errcheck

	validate := validator.New()
	metrics := service.NewMetricsService()

	authSvc := service.NewAuthService(cfg.Auth.Users, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(records, validate, logr)
	courseSvc := service.NewCourseService(records, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(records, service.EnrollmentPolicy{
		MaxCreditsPerSemester: cfg.Academic.MaxCreditsPerSemester,
		MinCreditsPerSemester: cfg.Academic.MinCreditsPerSemester,
		DropDeadline:          cfg.Academic.DropDeadline,
	}, cacheStore, metrics, validate, logr)
	transcriptSvc := service.NewTranscriptService(records, cacheStore, metrics, cfg.Transcripts.Institution, cfg.Transcripts.CacheTTL, logr)
	reportSvc := service.NewReportingService(records, logr)

	var archiveSvc *service.ArchiveService
	if cfg.Transcripts.ArchiveDir != "" {
		archive, err := storage.NewLocalArchive(cfg.Transcripts.ArchiveDir)
		if err != nil {
			log.Fatalf("failed to init transcript archive: %v", err)
		}
		archiveSvc = service.NewArchiveService(archive, cfg.Transcripts.ArchiveRetention, logr)
		archiveSvc.Start(context.Background())
		defer archiveSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	transcriptHandler := handler.NewTranscriptHandler(transcriptSvc, studentSvc, export.NewTranscriptPDF(), archiveSvc)
	reportHandler := handler.NewReportHandler(reportSvc, export.NewCSVExporter())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/students", studentHandler.List)
		authed.GET("/students/:id", studentHandler.Get)
		authed.GET("/students/:id/enrollments", enrollmentHandler.List)
		authed.GET("/students/:id/gpa", transcriptHandler.GPA)
		authed.GET("/students/:id/transcript", transcriptHandler.Transcript)
		authed.GET("/students/:id/transcript/archive", transcriptHandler.Archive)

		authed.GET("/courses", courseHandler.List)
		authed.GET("/courses/departments", courseHandler.Departments)
		authed.GET("/courses/:code", courseHandler.Get)

		authed.GET("/reports/top-students", reportHandler.TopStudents)
		authed.GET("/reports/grade-distribution", reportHandler.GradeDistribution)
	}

	registrar := authed.Group("")
	registrar.Use(middleware.RequireRoles(models.RoleRegistrar))
	{
		registrar.POST("/students", studentHandler.Create)
		registrar.PUT("/students/:id", studentHandler.Update)
		registrar.PUT("/students/:id/deactivate", studentHandler.Deactivate)
		registrar.PUT("/students/:id/reactivate", studentHandler.Reactivate)
		registrar.PUT("/students/:id/graduate", studentHandler.Graduate)

		registrar.POST("/courses", courseHandler.Create)
		registrar.PUT("/courses/:code", courseHandler.Update)
		registrar.PUT("/courses/:code/deactivate", courseHandler.Deactivate)
		registrar.PUT("/courses/:code/reactivate", courseHandler.Reactivate)

		registrar.POST("/enrollments", enrollmentHandler.Enroll)
		registrar.DELETE("/enrollments", enrollmentHandler.Drop)
		registrar.PUT("/enrollments/grade", enrollmentHandler.AssignGrade)
		registrar.PUT("/enrollments/marks", enrollmentHandler.AssignMarks)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
