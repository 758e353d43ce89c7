package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushq/school-records-api/api/swagger"
	"github.com/campushq/school-records-api/internal/events"
	"github.com/campushq/school-records-api/internal/handler"
	"github.com/campushq/school-records-api/internal/middleware"
	"github.com/campushq/school-records-api/internal/repository"
	"github.com/campushq/school-records-api/internal/service"
	"github.com/campushq/school-records-api/pkg/cache"
	"github.com/campushq/school-records-api/pkg/config"
	"github.com/campushq/school-records-api/pkg/database"
	"github.com/campushq/school-records-api/pkg/logger"
	corsmiddleware "github.com/campushq/school-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/school-records-api/pkg/middleware/requestid"
)

// @title School Records API
// @version 1.0.0
// @description Administration service for departments, faculty, courses, students, enrollments, marks and attendance
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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
	}

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()

	departmentRepo := repository.NewDepartmentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	markRepo := repository.NewMarkRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	dashboardSvc := service.NewDashboardService(statsRepo, cacheSvc, logr)

	bus := events.NewBus(events.NewLogSubscriber(logr), dashboardSvc)

	departmentSvc := service.NewDepartmentService(departmentRepo, facultyRepo, courseRepo, validate, bus, logr)
	facultySvc := service.NewFacultyService(facultyRepo, validate, bus, logr)
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, validate, bus, logr)
	studentSvc := service.NewStudentService(studentRepo, enrollmentRepo, validate, bus, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, validate, bus, logr)
	markSvc := service.NewMarkService(markRepo, validate, bus, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, validate, bus, logr)
	exportSvc := service.NewExportService(enrollmentRepo, attendanceRepo, logr)

	departmentHandler := handler.NewDepartmentHandler(departmentSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	markHandler := handler.NewMarkHandler(markSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		departments := api.Group("/departments")
		departments.GET("", departmentHandler.List)
		departments.POST("", departmentHandler.Create)
		departments.GET("/:id", departmentHandler.Get)
		departments.PATCH("/:id", departmentHandler.Update)
		departments.DELETE("/:id", departmentHandler.Delete)

		faculty := api.Group("/faculty")
		faculty.GET("", facultyHandler.List)
		faculty.POST("", facultyHandler.Create)
		faculty.GET("/:id", facultyHandler.Get)
		faculty.PATCH("/:id", facultyHandler.Update)
		faculty.DELETE("/:id", facultyHandler.Delete)

		courses := api.Group("/courses")
		courses.GET("", courseHandler.List)
		courses.POST("", courseHandler.Create)
		courses.GET("/:id", courseHandler.Get)
		courses.PATCH("/:id", courseHandler.Update)
		courses.DELETE("/:id", courseHandler.Delete)
		courses.GET("/:id/roster", exportHandler.CourseRoster)

		students := api.Group("/students")
		students.GET("", studentHandler.List)
		students.POST("", studentHandler.Create)
		students.GET("/:id", studentHandler.Get)
		students.PATCH("/:id", studentHandler.Update)
		students.DELETE("/:id", studentHandler.Delete)

		enrollments := api.Group("/enrollments")
		enrollments.GET("", enrollmentHandler.List)
		enrollments.POST("", enrollmentHandler.Create)
		enrollments.POST("/bulk", enrollmentHandler.BulkCreate)
		enrollments.GET("/:id", enrollmentHandler.Get)
		enrollments.DELETE("/:id", enrollmentHandler.Delete)
		enrollments.PATCH("/:id/grade", enrollmentHandler.UpdateGrade)
		enrollments.GET("/:id/marks", markHandler.ListByEnrollment)
		enrollments.GET("/:id/attendance", attendanceHandler.ListByEnrollment)
		enrollments.GET("/:id/attendance/export", exportHandler.AttendanceRegister)

		marks := api.Group("/marks")
		marks.POST("", markHandler.Create)
		marks.GET("/:id", markHandler.Get)
		marks.PATCH("/:id", markHandler.Update)
		marks.DELETE("/:id", markHandler.Delete)

		attendance := api.Group("/attendance")
		attendance.POST("", attendanceHandler.Mark)
		attendance.GET("/:id", attendanceHandler.Get)
		attendance.PATCH("/:id", attendanceHandler.Update)
		attendance.DELETE("/:id", attendanceHandler.Delete)

		api.GET("/dashboard", dashboardHandler.Stats)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
