package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/config"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/database"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/handlers"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/middleware"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/models"
	"github.com/hyvacanteen/canteen-coupon-backend/internal/services"
	"github.com/hyvacanteen/canteen-coupon-backend/pkg/jwt"
	"github.com/hyvacanteen/canteen-coupon-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Canteen Coupon Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Transactional repositories need the concrete *sqlx.DB for Beginx
	sqlxDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	// Initialize repositories
	couponRepo := database.NewCouponRepository(sqlxDB.DB)
	guestRequestRepo := database.NewGuestRequestRepository(sqlxDB.DB)
	redemptionLogRepo := database.NewRedemptionLogRepository(db)
	employeeRepo := database.NewEmployeeRepository(db)
	contractorRepo := database.NewContractorRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	menuRepo := database.NewMenuRepository(db)
	reportingRepo := database.NewReportingRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	couponService := services.NewCouponService(couponRepo, cfg.Coupon)
	allocationService := services.NewAllocationService(
		couponService,
		couponRepo,
		employeeRepo,
		contractorRepo,
		notificationRepo,
		cfg.Coupon,
		logger,
	)
	guestRequestService := services.NewGuestRequestService(
		guestRequestRepo,
		couponService,
		employeeRepo,
		notificationRepo,
		logger,
	)
	redemptionService := services.NewRedemptionService(couponService, redemptionLogRepo, employeeRepo, logger)
	reportingService := services.NewReportingService(reportingRepo)
	authService := services.NewAuthService(employeeRepo, contractorRepo, jwtService, cfg.Security.BcryptCost)
	codeValidator := validator.NewCodeValidator()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	employeeHandler := handlers.NewEmployeeHandler(employeeRepo, notificationRepo, couponService, allocationService, authService, logger)
	contractorHandler := handlers.NewContractorHandler(contractorRepo, allocationService, authService, logger)
	couponHandler := handlers.NewCouponHandler(couponService, redemptionService, redemptionLogRepo, codeValidator)
	guestRequestHandler := handlers.NewGuestRequestHandler(guestRequestService)
	dashboardHandler := handlers.NewDashboardHandler(reportingService)
	menuHandler := handlers.NewMenuHandler(menuRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Operational endpoints
	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// Public auth endpoints
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Everything below requires a valid access token
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtService))
	{
		authed.POST("/auth/change-password", authHandler.ChangePassword)

		dashboard := authed.Group("/dashboard")
		dashboard.Use(middleware.RequireRole(models.RoleAdmin, models.RoleCanteenManager))
		{
			dashboard.GET("/stats", dashboardHandler.Stats)
			dashboard.GET("/employee-stats", dashboardHandler.EmployeeStats)
			dashboard.GET("/employee-stats/:id", dashboardHandler.StatsForEmployee)
			dashboard.GET("/monthly", dashboardHandler.MonthlyTotals)
			dashboard.GET("/redemptions-by-type", dashboardHandler.RedemptionsByType)
		}

		employees := authed.Group("/employees")
		{
			adminOnly := middleware.RequireRole(models.RoleAdmin)
			employees.GET("", adminOnly, employeeHandler.List)
			employees.POST("", adminOnly, employeeHandler.Create)
			employees.PUT("/:id", adminOnly, employeeHandler.Update)
			employees.DELETE("/:id", adminOnly, employeeHandler.Delete)
			employees.POST("/:id/toggle-status", adminOnly, employeeHandler.ToggleStatus)
			employees.POST("/:id/generate-coupons", adminOnly, employeeHandler.GenerateCoupons)
			employees.POST("/:id/remove-last-batch", adminOnly, employeeHandler.RemoveLastBatch)
			employees.GET("/:id/coupons",
				middleware.RequireSelfOrRole("id", jwt.ActorEmployee, models.RoleAdmin),
				employeeHandler.ListCoupons)
			employees.GET("/:id/notifications",
				middleware.RequireSelfOrRole("id", jwt.ActorEmployee),
				employeeHandler.ListNotifications)
			employees.POST("/:id/notifications/mark-all-read",
				middleware.RequireSelfOrRole("id", jwt.ActorEmployee),
				employeeHandler.MarkAllNotificationsRead)
		}

		contractors := authed.Group("/contractors")
		{
			adminOnly := middleware.RequireRole(models.RoleAdmin)
			contractors.GET("", adminOnly, contractorHandler.List)
			contractors.POST("", adminOnly, contractorHandler.Create)
			contractors.PUT("/:id", adminOnly, contractorHandler.Update)
			contractors.DELETE("/:id", adminOnly, contractorHandler.Delete)
			contractors.POST("/:id/generate-coupons",
				middleware.RequireSelfOrRole("id", jwt.ActorContractor, models.RoleAdmin),
				contractorHandler.GenerateCoupons)
			contractors.POST("/:id/assign-coupons",
				middleware.RequireSelfOrRole("id", jwt.ActorContractor, models.RoleAdmin),
				contractorHandler.AssignCoupons)
			contractors.GET("/:id/pool",
				middleware.RequireSelfOrRole("id", jwt.ActorContractor, models.RoleAdmin),
				contractorHandler.PoolCounts)
		}

		coupons := authed.Group("/coupons")
		{
			coupons.GET("", middleware.RequireRole(models.RoleAdmin, models.RoleCanteenManager), couponHandler.List)
			coupons.POST("/redeem", middleware.RequireRole(models.RoleCanteenManager, models.RoleAdmin), couponHandler.Redeem)
			coupons.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), couponHandler.Delete)
		}

		guestRequests := authed.Group("/guest-requests")
		{
			guestRequests.GET("", middleware.RequireRole(models.RoleAdmin), guestRequestHandler.List)
			guestRequests.POST("",
				middleware.RequireRole(models.RoleEmployee, models.RoleContractualEmployee, models.RoleAdmin),
				guestRequestHandler.Create)
			guestRequests.POST("/:id/approve", middleware.RequireRole(models.RoleAdmin), guestRequestHandler.Approve)
			guestRequests.POST("/:id/reject", middleware.RequireRole(models.RoleAdmin), guestRequestHandler.Reject)
		}

		authed.POST("/notifications/:id/read", notificationHandler.MarkRead)

		authed.GET("/logs/redemptions",
			middleware.RequireRole(models.RoleAdmin, models.RoleCanteenManager),
			couponHandler.ListRedemptionLogs)

		menus := authed.Group("/menus")
		{
			menus.GET("/:date", menuHandler.Get)
			menus.PUT("/:date", middleware.RequireRole(models.RoleCanteenManager, models.RoleAdmin), menuHandler.Upsert)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
