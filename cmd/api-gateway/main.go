package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/study-plan-api/api/swagger"
	"github.com/noah-isme/study-plan-api/internal/handler"
	"github.com/noah-isme/study-plan-api/internal/middleware"
	"github.com/noah-isme/study-plan-api/internal/repository"
	"github.com/noah-isme/study-plan-api/internal/scheduling"
	"github.com/noah-isme/study-plan-api/internal/service"
	"github.com/noah-isme/study-plan-api/pkg/cache"
	"github.com/noah-isme/study-plan-api/pkg/config"
	"github.com/noah-isme/study-plan-api/pkg/database"
	"github.com/noah-isme/study-plan-api/pkg/logger"
	"github.com/noah-isme/study-plan-api/pkg/signing"
)

// @title Study Plan API
// @version 1.0.0
// @description Weekly study planning for tutoring: availability, exam-weighted plan generation, manual placement and progress.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The schedule cache is optional; reads fall through to postgres.
		logr.Warn("redis unavailable, schedule cache disabled", zap.Error(err))
		redisClient = nil
	}

	metrics := service.NewMetricsService()
	validate := validator.New()
	clock := service.NewClock(cfg.Planner.Location)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient)
	}
	var cacheBackend service.CacheRepository
	if cacheRepo != nil {
		cacheBackend = cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheBackend, metrics, cfg.Schedule.CacheTTL, logr, cfg.Schedule.CacheEnabled)

	profiles := repository.NewStudentProfileRepository(db)
	subjects := repository.NewSubjectRepository(db)
	availability := repository.NewAvailabilityRepository(db)
	exams := repository.NewExamRepository(db)
	targets := repository.NewWeeklyTargetRepository(db)
	tasks := repository.NewStudyTaskRepository(db)

	access := service.NewStudentAccess(profiles, logr)
	planSvc := service.NewPlanService(service.PlanServiceDeps{
		Access:       access,
		Tasks:        tasks,
		Subjects:     subjects,
		Exams:        exams,
		Availability: availability,
		Locker:       profiles,
		Tx:           db,
		Signer:       signing.NewSigner(cfg.Planner.SnapshotSecret, cfg.Planner.SnapshotTTL),
		Generator:    scheduling.NewGenerator(),
		Cache:        cacheSvc,
		Metrics:      metrics,
		Clock:        clock,
		Logger:       logr,
	})
	taskSvc := service.NewStudyTaskService(access, tasks, subjects, availability, profiles, db, cacheSvc, metrics, clock, validate, logr)
	scheduleSvc := service.NewScheduleQueryService(access, tasks, exams, availability, cacheSvc, cfg.Schedule.CacheTTL, clock, logr)
	exportSvc := service.NewExportService(scheduleSvc, nil, nil, logr)
	examSvc := service.NewExamService(access, exams, subjects, cacheSvc, clock, validate, logr)
	targetSvc := service.NewWeeklyTargetService(access, targets, subjects, validate, logr)
	availabilitySvc := service.NewAvailabilityService(access, availability, cacheSvc, validate, logr)

	checks := map[string]handler.Pinger{"postgres": handler.PingFunc(db.PingContext)}
	if cacheRepo != nil {
		checks["redis"] = cacheRepo
	}

	r := newRouter(cfg, logr, routeDeps{
		auth:         service.NewAuthService(cfg.JWT.Secret),
		metrics:      metrics,
		limiter:      middleware.NewRateLimiter(cfg.Planner.RatePerMinute, metrics),
		system:       handler.NewMetricsHandler(metrics, checks),
		plans:        handler.NewPlanHandler(planSvc),
		tasks:        handler.NewStudyTaskHandler(taskSvc),
		schedules:    handler.NewScheduleHandler(scheduleSvc, exportSvc),
		exams:        handler.NewExamHandler(examSvc),
		targets:      handler.NewWeeklyTargetHandler(targetSvc),
		availability: handler.NewAvailabilityHandler(availabilitySvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
