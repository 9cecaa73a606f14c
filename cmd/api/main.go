package main

import (
	"fmt"
	"net/http"
	"os"

	"centsible/internal/config"
	"centsible/internal/database"
	"centsible/internal/handlers"
	"centsible/internal/logger"
	"centsible/internal/middleware"
	"centsible/internal/services"
	"centsible/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "centsible/internal/docs" // Import swagger docs
)

// @title           Centsible API
// @version         1.0
// @description     Centsible is a personal finance application for monthly budgets, transaction tracking, split expenses, and savings goals.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api

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
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	reconciler := services.NewReconciler()
	transactionService := services.NewTransactionService(db, reconciler)
	expenseService := services.NewExpenseService(db)
	goalService := services.NewSavingsGoalService(db)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	goalHandler := handlers.NewSavingsGoalHandler(goalService)

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

	// API group
	api := router.Group("/api")

	// Public routes
	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and preferences
	protected.GET("/users/profile", userHandler.GetProfile)
	protected.PUT("/users/profile", userHandler.UpdateProfile)
	protected.PUT("/users/preferences", userHandler.UpdatePreferences)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.POST("/add", budgetHandler.CreateBudget)
	budgets.GET("/monthly/:month/:year", budgetHandler.GetMonthlyView)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.PUT("/:id/category/:categoryId", budgetHandler.SetCategoryActual)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("/add", transactionHandler.CreateTransaction)
	transactions.POST("/search", transactionHandler.SearchTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("/add", expenseHandler.CreateExpense)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Savings goal routes
	goals := protected.Group("/savings-goals")
	goals.GET("", goalHandler.GetGoals)
	goals.POST("/add", goalHandler.CreateGoal)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contribute", goalHandler.AddContribution)
	goals.GET("/:id/report", goalHandler.GetGoalReport)

	log.Infof("Starting Centsible backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
