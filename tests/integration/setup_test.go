package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"centsible/internal/handlers"
	"centsible/internal/logger"
	"centsible/internal/middleware"
	"centsible/internal/models"
	"centsible/internal/services"
	"centsible/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Budget{},
		&models.Category{},
		&models.Transaction{},
		&models.Expense{},
		&models.Participant{},
		&models.SavingsGoal{},
		&models.Contribution{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	reconciler := services.NewReconciler()
	transactionService := services.NewTransactionService(db, reconciler)
	expenseService := services.NewExpenseService(db)
	goalService := services.NewSavingsGoalService(db)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	goalHandler := handlers.NewSavingsGoalHandler(goalService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	// Public user routes
	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/users/profile", userHandler.GetProfile)
	protected.PUT("/users/profile", userHandler.UpdateProfile)
	protected.PUT("/users/preferences", userHandler.UpdatePreferences)

	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.POST("/add", budgetHandler.CreateBudget)
	budgets.GET("/monthly/:month/:year", budgetHandler.GetMonthlyView)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.PUT("/:id/category/:categoryId", budgetHandler.SetCategoryActual)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("/add", transactionHandler.CreateTransaction)
	transactions.POST("/search", transactionHandler.SearchTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("/add", expenseHandler.CreateExpense)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	goals := protected.Group("/savings-goals")
	goals.GET("", goalHandler.GetGoals)
	goals.POST("/add", goalHandler.CreateGoal)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contribute", goalHandler.AddContribution)
	goals.GET("/:id/report", goalHandler.GetGoalReport)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, username, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	rec := app.request("POST", "/api/users/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/users/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// createBudget creates a budget and returns its ID.
func (app *testApp) createBudget(t *testing.T, token string, month, year int) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Monthly Budget","month":%d,"year":%d,"total_income":3000,"categories":[{"name":"Groceries","planned_amount":300},{"name":"Rent","planned_amount":1000}]}`, month, year)
	rec := app.request("POST", "/api/budgets/add", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	return budget["id"].(string)
}

// seedExpense inserts an expense row directly, bypassing the split-expense API.
func (app *testApp) seedExpense(t *testing.T, userID, description string, amount float64, date time.Time) {
	t.Helper()
	expense := &models.Expense{
		UserID:      userID,
		Description: description,
		Amount:      amount,
		Date:        date,
		SplitType:   models.SplitTypeEqual,
		Status:      models.ExpenseStatusPaid,
	}
	if err := app.DB.Create(expense).Error; err != nil {
		t.Fatalf("failed to seed expense: %v", err)
	}
}

// categoryActual reads one category's actual amount from a budget response.
func categoryActual(t *testing.T, budget map[string]interface{}, name string) float64 {
	t.Helper()
	for _, raw := range budget["categories"].([]interface{}) {
		cat := raw.(map[string]interface{})
		if cat["name"] == name {
			return cat["actual_amount"].(float64)
		}
	}
	t.Fatalf("category %q not found in budget response", name)
	return 0
}
