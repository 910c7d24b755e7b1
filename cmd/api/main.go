package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sman1kwanyar/e-presensi-api/api/swagger"
	"github.com/sman1kwanyar/e-presensi-api/internal/handler"
	"github.com/sman1kwanyar/e-presensi-api/internal/middleware"
	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	"github.com/sman1kwanyar/e-presensi-api/internal/repository"
	"github.com/sman1kwanyar/e-presensi-api/internal/service"
	"github.com/sman1kwanyar/e-presensi-api/pkg/cache"
	"github.com/sman1kwanyar/e-presensi-api/pkg/config"
	"github.com/sman1kwanyar/e-presensi-api/pkg/database"
	"github.com/sman1kwanyar/e-presensi-api/pkg/logger"
	corsmiddleware "github.com/sman1kwanyar/e-presensi-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sman1kwanyar/e-presensi-api/pkg/middleware/requestid"
)

// @title E-Presensi SMAN 1 Kwanyar API
// @version 1.0.0
// @description Attendance, discipline, and reporting backend for SMAN 1 Kwanyar
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

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	var backupInvalidator *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
		backupInvalidator = cacheRepo
	}

	attendanceRepo := repository.NewAttendanceRepository(db)
	violationRepo := repository.NewViolationRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	principalRepo := repository.NewPrincipalRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	authSvc := service.NewAuthService(credentialRepo, teacherRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, classRepo, subjectRepo, nil, logr)
	violationSvc := service.NewViolationService(violationRepo, studentRepo, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, nil, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, nil, logr)
	classSvc := service.NewClassService(classRepo, nil, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, nil, logr)
	principalSvc := service.NewPrincipalService(principalRepo, nil, logr)
	dashboardSvc := service.NewDashboardService(attendanceRepo, violationRepo, studentRepo, teacherRepo, classRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	reportSvc := service.NewReportService(attendanceRepo, violationRepo, studentRepo, classRepo, principalRepo, cfg.School.Name, cfg.Reports.MaxRows, logr)
	backupSvc := newBackupService(snapshotRepo, backupInvalidator, logr)
	insightSvc := service.NewInsightService(attendanceRepo, cacheSvc, service.InsightConfig{
		Enabled:     cfg.Insight.Enabled,
		Endpoint:    cfg.Insight.Endpoint,
		APIKey:      cfg.Insight.APIKey,
		Model:       cfg.Insight.Model,
		Timeout:     cfg.Insight.Timeout,
		CacheTTL:    cfg.Insight.CacheTTL,
		RecentLimit: cfg.Insight.RecentLimit,
	}, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	violationHandler := handler.NewViolationHandler(violationSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	classHandler := handler.NewClassHandler(classSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	principalHandler := handler.NewPrincipalHandler(principalSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, insightSvc, metricsSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	backupHandler := handler.NewBackupHandler(backupSvc)

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
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleGuru, models.RoleBK, models.RoleKepsek)
	leadership := middleware.RequireRoles(models.RoleAdmin, models.RoleKepsek)
	discipline := middleware.RequireRoles(models.RoleAdmin, models.RoleBK)

	authed.GET("/attendance", staff, attendanceHandler.List)
	authed.POST("/attendance", middleware.RequireRoles(models.RoleAdmin, models.RoleGuru), attendanceHandler.Submit)

	authed.GET("/students", staff, studentHandler.List)
	authed.GET("/students/:id", staff, studentHandler.Get)
	authed.POST("/students", adminOnly, studentHandler.Create)
	authed.PUT("/students/:id", adminOnly, studentHandler.Update)
	authed.DELETE("/students/:id", adminOnly, studentHandler.Delete)

	authed.GET("/teachers", staff, teacherHandler.List)
	// Teachers may read their own profile; everything else needs a staff role.
	authed.GET("/teachers/:id", middleware.RBAC("ADMIN", "BK", "KEPALA_SEKOLAH", "SELF"), teacherHandler.Get)
	authed.POST("/teachers", adminOnly, teacherHandler.Create)
	authed.PUT("/teachers/:id", adminOnly, teacherHandler.Update)
	authed.DELETE("/teachers/:id", adminOnly, teacherHandler.Delete)

	authed.GET("/classes", staff, classHandler.List)
	authed.GET("/classes/:id", staff, classHandler.Get)
	authed.POST("/classes", adminOnly, classHandler.Create)
	authed.PUT("/classes/:id", adminOnly, classHandler.Update)
	authed.DELETE("/classes/:id", adminOnly, classHandler.Delete)

	authed.GET("/subjects", staff, subjectHandler.List)
	authed.POST("/subjects", adminOnly, subjectHandler.Create)
	authed.PUT("/subjects/:id", adminOnly, subjectHandler.Update)
	authed.DELETE("/subjects/:id", adminOnly, subjectHandler.Delete)

	authed.GET("/principal", staff, principalHandler.Get)
	authed.PUT("/principal", adminOnly, principalHandler.Set)

	authed.GET("/violations/items", staff, violationHandler.ListItems)
	authed.POST("/violations/items", discipline, violationHandler.CreateItem)
	authed.PUT("/violations/items/:id", discipline, violationHandler.UpdateItem)
	authed.DELETE("/violations/items/:id", discipline, violationHandler.DeleteItem)
	authed.POST("/violations/items/bulk-delete", discipline, violationHandler.BulkDeleteItems)
	authed.GET("/violations", staff, violationHandler.ListRecords)
	authed.POST("/violations", discipline, violationHandler.Record)

	authed.GET("/reports/attendance", staff, reportHandler.Attendance)
	authed.GET("/reports/violations", middleware.RequireRoles(models.RoleAdmin, models.RoleBK, models.RoleKepsek), reportHandler.Violations)

	authed.GET("/dashboard/summary", staff, dashboardHandler.Summary)
	authed.GET("/dashboard/discipline", middleware.RequireRoles(models.RoleAdmin, models.RoleBK, models.RoleKepsek), dashboardHandler.Discipline)
	authed.GET("/dashboard/students/:id/recap", staff, dashboardHandler.StudentRecap)
	authed.GET("/dashboard/insight", leadership, dashboardHandler.Insight)
	authed.GET("/dashboard/metrics", leadership, dashboardHandler.Metrics)

	authed.GET("/backup", adminOnly, backupHandler.Export)
	authed.POST("/backup/restore", adminOnly, backupHandler.Restore)

	authed.GET("/credentials/:scope", adminOnly, authHandler.ListCredentials)
	authed.POST("/credentials/:scope", adminOnly, authHandler.CreateCredential)
	authed.PUT("/credentials/:id", adminOnly, authHandler.UpdateCredential)
	authed.DELETE("/credentials/:id", adminOnly, authHandler.DeleteCredential)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// newBackupService passes a truly nil invalidator when redis is down so the
// restore path skips cache invalidation instead of calling through a typed
// nil pointer.
func newBackupService(snapshots *repository.SnapshotRepository, invalidator *repository.CacheRepository, logr *zap.Logger) *service.BackupService {
	if invalidator == nil {
		return service.NewBackupService(snapshots, nil, logr)
	}
	return service.NewBackupService(snapshots, invalidator, logr)
}
