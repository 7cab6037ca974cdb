package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/study-plan-api/internal/handler"
	"github.com/noah-isme/study-plan-api/internal/middleware"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/internal/service"
	"github.com/noah-isme/study-plan-api/pkg/config"
	"github.com/noah-isme/study-plan-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/study-plan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/study-plan-api/pkg/middleware/requestid"
)

type routeDeps struct {
	auth         middleware.TokenValidator
	metrics      *service.MetricsService
	limiter      *middleware.RateLimiter
	system       *handler.MetricsHandler
	plans        *handler.PlanHandler
	tasks        *handler.StudyTaskHandler
	schedules    *handler.ScheduleHandler
	exams        *handler.ExamHandler
	targets      *handler.WeeklyTargetHandler
	availability *handler.AvailabilityHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))

	r.GET("/health", deps.system.Health)
	r.GET("/ready", deps.system.Ready)
	r.GET("/metrics", deps.system.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(deps.auth))

	teacher := api.Group("/teacher/students/:studentId")
	teacher.Use(middleware.RequireRoles(models.RoleTeacher))
	{
		plan := teacher.Group("/plan")
		plan.Use(deps.limiter.Middleware())
		plan.GET("/preview", deps.plans.Preview)
		plan.POST("/commit", deps.plans.Commit)

		teacher.POST("/tasks", deps.tasks.Create)
		teacher.POST("/tasks/clear", deps.tasks.ClearDay)
		teacher.DELETE("/tasks/:taskId", deps.tasks.Delete)

		teacher.GET("/schedule", deps.schedules.TeacherWeek)
		teacher.GET("/schedule/export", deps.schedules.Export)

		teacher.GET("/exams", deps.exams.List)
		teacher.POST("/exams", deps.exams.Create)
		teacher.PUT("/exams/:examId/score", deps.exams.Score)
		teacher.DELETE("/exams/:examId", deps.exams.Delete)

		teacher.GET("/targets", deps.targets.List)
		teacher.POST("/targets", deps.targets.Create)
		teacher.DELETE("/targets/:targetId", deps.targets.Delete)
	}

	student := api.Group("/student")
	student.Use(middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/schedule", deps.schedules.StudentWeek)
		student.POST("/tasks/:taskId/complete", deps.tasks.Complete)
		student.GET("/availability", deps.availability.List)
		student.POST("/availability", deps.availability.Create)
		student.DELETE("/availability/:id", deps.availability.Delete)
	}

	return r
}
