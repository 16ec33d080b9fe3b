package main

import (
	"fmt"
	"net/http"
	"os"

	"hestia/internal/config"
	"hestia/internal/database"
	"hestia/internal/handlers"
	"hestia/internal/logger"
	"hestia/internal/middleware"
	"hestia/internal/realtime"
	"hestia/internal/services"
	"hestia/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "hestia/internal/docs" // Import swagger docs
)

// @title           Hestia API
// @version         1.0
// @description     Hestia is a household management application: shared shopping lists, budgets, and member management with role-based access.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Service API key for maintenance endpoints.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom validation tags
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Realtime hub for notification pushes
	hub := realtime.NewHub()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db, hub)
	householdService := services.NewHouseholdService(db)
	memberService := services.NewMemberService(db, notificationService)
	invitationService := services.NewInvitationService(db, notificationService)
	shoppingService := services.NewShoppingService(db)
	budgetService := services.NewBudgetService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	householdHandler := handlers.NewHouseholdHandler(householdService)
	memberHandler := handlers.NewMemberHandler(memberService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	maintenanceHandler := handlers.NewMaintenanceHandler(invitationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Profile and session
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.GetProfile)
	protected.PATCH("/auth/me", authHandler.UpdateProfile)
	protected.PUT("/auth/password", authHandler.ChangePassword)

	// Household routes
	households := protected.Group("/households")
	households.POST("", householdHandler.CreateHousehold)
	households.GET("", householdHandler.GetHouseholds)
	households.GET("/:id", householdHandler.GetHousehold)
	households.PUT("/:id", householdHandler.UpdateHousehold)
	households.DELETE("/:id", householdHandler.DeleteHousehold)
	households.POST("/:id/leave", memberHandler.LeaveHousehold)

	// Member routes
	households.GET("/:id/members", memberHandler.GetMembers)
	households.GET("/:id/members/me", memberHandler.GetOwnMembership)
	members := protected.Group("/members")
	members.PUT("/:memberId/role", memberHandler.ChangeRole)
	members.DELETE("/:memberId", memberHandler.RemoveMember)

	// Invitation routes
	households.POST("/:id/invitations", invitationHandler.SendInvitation)
	households.GET("/:id/invitations", invitationHandler.GetHouseholdInvitations)
	invitations := protected.Group("/invitations")
	invitations.GET("/pending", invitationHandler.GetPendingInvitations)
	invitations.POST("/:invitationId/accept", invitationHandler.AcceptInvitation)
	invitations.POST("/:invitationId/reject", invitationHandler.RejectInvitation)
	invitations.POST("/:invitationId/cancel", invitationHandler.CancelInvitation)
	invitations.DELETE("/:invitationId", invitationHandler.DeleteInvitation)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)
	notifications.POST("/:notificationId/read", notificationHandler.MarkRead)
	notifications.DELETE("/:notificationId", notificationHandler.DeleteNotification)

	// Shopping list routes
	households.GET("/:id/shopping", shoppingHandler.GetItems)
	households.POST("/:id/shopping", shoppingHandler.AddItem)
	shopping := protected.Group("/shopping")
	shopping.PUT("/:itemId", shoppingHandler.UpdateItem)
	shopping.POST("/:itemId/toggle", shoppingHandler.ToggleItem)
	shopping.DELETE("/:itemId", shoppingHandler.DeleteItem)

	// Budget routes
	households.GET("/:id/budget/entries", budgetHandler.GetEntries)
	households.POST("/:id/budget/entries", budgetHandler.CreateEntry)
	households.GET("/:id/budget/plans", budgetHandler.GetPlans)
	households.POST("/:id/budget/plans", budgetHandler.CreatePlan)
	households.GET("/:id/budget/summary", budgetHandler.GetSummary)
	households.GET("/:id/budget/progress", budgetHandler.GetProgress)
	budget := protected.Group("/budget")
	budget.PUT("/entries/:entryId", budgetHandler.UpdateEntry)
	budget.DELETE("/entries/:entryId", budgetHandler.DeleteEntry)
	budget.PUT("/plans/:planId", budgetHandler.UpdatePlan)
	budget.DELETE("/plans/:planId", budgetHandler.DeletePlan)

	// Realtime notification stream
	protected.GET("/ws/notifications", realtime.Handler(hub))

	// Service-to-service maintenance endpoints
	internal := v1.Group("/internal")
	internal.Use(middleware.ServiceAuthMiddleware(appConfig.ServiceAPIKey))
	internal.POST("/maintenance/purge-invitations", maintenanceHandler.PurgeInvitations)

	log.Infof("Starting Hestia backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
