package services

import (
	"time"

	"gorm.io/gorm"

	"centsible/internal/models"
	"centsible/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password, firstName, lastName string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateProfile(userID, firstName, lastName string) (*models.User, error)
	UpdatePreferences(userID string, prefs models.Preferences) (*models.User, error)
}

// CategoryInput carries one category of a budget create/update payload.
// On update the budget's category set is replaced wholesale, not merged.
type CategoryInput struct {
	Name          string
	PlannedAmount float64
	ActualAmount  float64
	Color         string
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, name string, month, year int, totalIncome float64, categories []CategoryInput, notes string) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID, name string, totalIncome float64, categories []CategoryInput, notes string, isActive bool) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	SetCategoryActual(userID, budgetID, categoryID string, actualAmount float64) (*models.Budget, error)
	GetMonthlyView(userID string, month, year int) (*models.Budget, error)
}

// Reconciler keeps budget category actual amounts consistent with the
// transaction ledger. Every operation runs against the caller's database
// transaction and performs a single optimistic-lock attempt; callers
// retry the enclosing transaction on ErrConcurrentUpdate.
//
// All operations are silent no-ops when the referenced budget no longer
// exists, so transactions orphaned by a budget deletion stay editable.
type Reconciler interface {
	TransactionCreated(tx *gorm.DB, userID, budgetID, category string, amount float64) error
	TransactionUpdated(tx *gorm.DB, userID, budgetID, oldCategory string, oldAmount float64, newCategory string, newAmount float64) error
	TransactionDeleted(tx *gorm.DB, userID, budgetID, category string, amount float64) error
}

// TransactionFilter holds optional filter parameters for searching transactions.
type TransactionFilter struct {
	BudgetID      *string
	Category      *string
	PaymentMethod *models.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
	MinAmount     *float64
	MaxAmount     *float64
	SearchTerm    string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, budgetID, description string, amount float64, date time.Time, category string, paymentMethod models.PaymentMethod, notes string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID, description string, amount float64, date time.Time, category string, paymentMethod models.PaymentMethod, notes string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	SearchTransactions(userID string, filter TransactionFilter) ([]models.Transaction, error)
}

// ParticipantInput carries one participant of an expense payload.
type ParticipantInput struct {
	Name    string
	Email   string
	Share   float64
	HasPaid bool
}

// ExpenseServicer defines the contract for split-expense business logic.
type ExpenseServicer interface {
	CreateExpense(userID, description string, amount float64, date time.Time, splitType models.SplitType, status models.ExpenseStatus, participants []ParticipantInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID, description string, amount float64, date time.Time, splitType models.SplitType, status models.ExpenseStatus, participants []ParticipantInput) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// GoalReport contains the computed progress report for a savings goal.
type GoalReport struct {
	GoalID                     string                `json:"goal_id"`
	Name                       string                `json:"name"`
	TargetAmount               float64               `json:"target_amount"`
	CurrentAmount              float64               `json:"current_amount"`
	RemainingAmount            float64               `json:"remaining_amount"`
	StartDate                  time.Time             `json:"start_date"`
	EndDate                    time.Time             `json:"end_date"`
	TotalDays                  int                   `json:"total_days"`
	ElapsedDays                int                   `json:"elapsed_days"`
	RemainingDays              int                   `json:"remaining_days"`
	TimeProgress               float64               `json:"time_progress"`
	AmountProgress             float64               `json:"amount_progress"`
	IsOnTrack                  bool                  `json:"is_on_track"`
	RequiredDailyContribution  float64               `json:"required_daily_contribution"`
	Contributions              []models.Contribution `json:"contributions"`
	IsCompleted                bool                  `json:"is_completed"`
	Category                   models.GoalCategory   `json:"category"`
	Priority                   models.GoalPriority   `json:"priority"`
}

// SavingsGoalServicer defines the contract for savings-goal business logic.
type SavingsGoalServicer interface {
	CreateGoal(userID, name string, targetAmount float64, startDate, endDate time.Time, category models.GoalCategory, description string, monthlyContribution float64, priority models.GoalPriority) (*models.SavingsGoal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error)
	GetGoalByID(userID, goalID string) (*models.SavingsGoal, error)
	UpdateGoal(userID, goalID, name string, targetAmount float64, endDate time.Time, category models.GoalCategory, description string, monthlyContribution float64, priority models.GoalPriority, isCompleted bool) (*models.SavingsGoal, error)
	DeleteGoal(userID, goalID string) error
	AddContribution(userID, goalID string, amount float64, note string) (*models.SavingsGoal, error)
	GetGoalReport(userID, goalID string) (*GoalReport, error)
}
