package app

import (
	"database/sql"
	"net/http"

	"go-leavelink/internal/auth"
	"go-leavelink/internal/department"
	"go-leavelink/internal/leave"
	"go-leavelink/internal/leavetype"
	"go-leavelink/internal/messaging/kafka"
	"go-leavelink/internal/middleware"
	"go-leavelink/internal/notification"
	"go-leavelink/internal/shared/counter"
	"go-leavelink/internal/shared/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	departmentService := department.NewService(db, departmentRepo)
	authService := auth.NewService(authRepo, departmentService)
	leaveTypeService := leavetype.NewService(db, leaveTypeRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, leaveTypeRepo, counterRepo, outboxRepo, rdb)
	notificationService := notification.NewService(notificationRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	departmentHandler := department.NewHandler(departmentService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	notificationHandler := notification.NewHandler(notificationService)

	// --- Observability ---
	httpMetrics := metrics.NewHTTPMetrics()
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(httpMetrics.Middleware())
	router.GET("/metrics", httpMetrics.Handler())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		department.RegisterRoutes(api, departmentHandler)
		leavetype.RegisterRoutes(api, leaveTypeHandler)
		leave.RegisterRoutes(api, leaveHandler, rdb)
		notification.RegisterRoutes(api, notificationHandler)
	}

	return nil
}
