package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"centsible/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: fmt.Sprintf("user%d", nextID()),
		Email:    email,
		Password: string(hash),
		Currency: "USD",
		Theme:    "light",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a budget with two categories, Groceries
// (planned 300) and Rent (planned 1000), for the given month and year.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, month, year int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Budget %d", nextID()),
		Month:       month,
		Year:        year,
		TotalIncome: 3000,
		IsActive:    true,
		Categories: []models.Category{
			{Name: "Groceries", PlannedAmount: 300, ActualAmount: 0, Color: "#10B981"},
			{Name: "Rent", PlannedAmount: 1000, ActualAmount: 0, Color: "#3B82F6"},
		},
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestTransaction creates a transaction against the given budget.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, budgetID, category string, amount float64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:        userID,
		BudgetID:      budgetID,
		Description:   fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:        amount,
		Date:          time.Now(),
		Category:      category,
		PaymentMethod: models.PaymentMethodCash,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestExpense creates a split expense with two participants.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, amount float64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Amount:      amount,
		Date:        time.Now(),
		SplitType:   models.SplitTypeEqual,
		Status:      models.ExpenseStatusPending,
		Participants: []models.Participant{
			{Name: "Alice", Share: amount / 2},
			{Name: "Bob", Share: amount / 2},
		},
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestGoal creates a savings goal with the given target, starting
// now and ending one year out.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, targetAmount float64) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: targetAmount,
		StartDate:    time.Now(),
		EndDate:      time.Now().AddDate(1, 0, 0),
		Category:     models.GoalCategoryOther,
		Priority:     models.GoalPriorityMedium,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
