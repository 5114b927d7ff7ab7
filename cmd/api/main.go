package main

import (
	"fmt"
	"net/http"
	"os"

	"protrack/internal/assistant"
	"protrack/internal/config"
	"protrack/internal/database"
	"protrack/internal/handlers"
	"protrack/internal/logger"
	"protrack/internal/middleware"
	"protrack/internal/services"
	"protrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "protrack/internal/docs" // Import swagger docs
)

// @title           ProTrack API
// @version         1.0
// @description     ProTrack is a time tracking and invoicing API for freelancers and small agencies: clients, projects, logged work, invoices and billing rollups.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Register custom binding validators
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

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	clientService := services.NewClientService(db)
	projectService := services.NewProjectService(db)
	timeEntryService := services.NewTimeEntryService(db)
	invoiceService := services.NewInvoiceService(db)
	dashboardService := services.NewDashboardService(db)
	assistantClient := assistant.New(appConfig.Assistant)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService)
	projectHandler := handlers.NewProjectHandler(projectService)
	timeEntryHandler := handlers.NewTimeEntryHandler(timeEntryService, assistantClient)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, assistantClient)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

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

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Dashboard
	protected.GET("/dashboard", dashboardHandler.GetDashboard)

	// Client routes
	clients := protected.Group("/clients")
	clients.GET("", clientHandler.ListClients)
	clients.POST("", clientHandler.CreateClient)
	clients.GET("/:id", clientHandler.GetClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)

	// Project routes
	projects := protected.Group("/projects")
	projects.GET("", projectHandler.ListProjects)
	projects.POST("", projectHandler.CreateProject)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)

	// Time entry routes
	timeEntries := protected.Group("/time-entries")
	timeEntries.GET("", timeEntryHandler.ListTimeEntries)
	timeEntries.POST("", timeEntryHandler.CreateTimeEntry)
	timeEntries.POST("/generate-description", timeEntryHandler.GenerateDescription)
	timeEntries.GET("/:id", timeEntryHandler.GetTimeEntry)
	timeEntries.PUT("/:id", timeEntryHandler.UpdateTimeEntry)
	timeEntries.DELETE("/:id", timeEntryHandler.DeleteTimeEntry)
	timeEntries.POST("/:id/toggle-billed", timeEntryHandler.ToggleBilled)

	// Invoice routes
	invoices := protected.Group("/invoices")
	invoices.GET("", invoiceHandler.ListInvoices)
	invoices.POST("", invoiceHandler.CreateInvoice)
	invoices.GET("/next-number", invoiceHandler.NextNumber)
	invoices.POST("/preview", invoiceHandler.Preview)
	invoices.POST("/generate-notes", invoiceHandler.GenerateNotes)
	invoices.GET("/:id", invoiceHandler.GetInvoice)
	invoices.PUT("/:id", invoiceHandler.UpdateInvoice)
	invoices.DELETE("/:id", invoiceHandler.DeleteInvoice)
	invoices.POST("/:id/toggle-paid", invoiceHandler.TogglePaid)

	log.Infof("Starting ProTrack API server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
