package services

import (
	"testing"
	"time"

	"centsible/internal/models"
	"centsible/internal/pagination"
	"centsible/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("valid_and_reconciles", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)

		transaction, err := svc.CreateTransaction(user.ID, budget.ID, "Weekly shop", 52.5, time.Now(), "Groceries", models.PaymentMethodDebitCard, "")
		testutil.AssertNoError(t, err)

		if transaction.ID == "" {
			t.Fatal("expected transaction ID to be set")
		}

		var cat models.Category
		testutil.AssertNoError(t, db.First(&cat, "budget_id = ? AND name = ?", budget.ID, "Groceries").Error)
		if cat.ActualAmount != 52.5 {
			t.Errorf("expected category actual 52.5, got %f", cat.ActualAmount)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)

		transaction, err := svc.CreateTransaction(user.ID, budget.ID, "Weekly shop", 10, time.Time{}, "Groceries", "", "")
		testutil.AssertNoError(t, err)

		if transaction.Date.IsZero() {
			t.Error("expected date to default to now")
		}
		if transaction.PaymentMethod != models.PaymentMethodOther {
			t.Errorf("expected payment method Other, got %s", transaction.PaymentMethod)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)

		_, err := svc.CreateTransaction(user.ID, budget.ID, "", 10, time.Now(), "Groceries", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateTransaction(user.ID, budget.ID, "Shop", 10, time.Now(), "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)

		_, err := svc.CreateTransaction(user.ID, budget.ID, "Shop", 0, time.Now(), "Groceries", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_budget_still_records", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)

		transaction, err := svc.CreateTransaction(user.ID, "00000000-0000-0000-0000-000000000000", "Shop", 10, time.Now(), "Groceries", "", "")
		testutil.AssertNoError(t, err)
		if transaction.ID == "" {
			t.Fatal("expected transaction recorded despite dangling budget reference")
		}
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)

		old := &models.Transaction{UserID: user.ID, BudgetID: budget.ID, Description: "Old", Amount: 5,
			Date: time.Now().AddDate(0, 0, -7), Category: "Groceries"}
		recent := &models.Transaction{UserID: user.ID, BudgetID: budget.ID, Description: "Recent", Amount: 5,
			Date: time.Now(), Category: "Groceries"}
		testutil.AssertNoError(t, db.Create(old).Error)
		testutil.AssertNoError(t, db.Create(recent).Error)

		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 1, PageSize: 20})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(result.Data))
		}
		if result.Data[0].Description != "Recent" {
			t.Errorf("expected Recent first, got %s", result.Data[0].Description)
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		budget1 := testutil.CreateTestBudget(t, db, user1.ID, 6, 2025)
		budget2 := testutil.CreateTestBudget(t, db, user2.ID, 6, 2025)
		testutil.CreateTestTransaction(t, db, user1.ID, budget1.ID, "Groceries", 10)
		testutil.CreateTestTransaction(t, db, user2.ID, budget2.ID, "Groceries", 10)

		result, err := svc.GetUserTransactions(user1.ID, pagination.PageRequest{Page: 1, PageSize: 20})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TotalItems)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("amount_change_applies_delta", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)
		transaction, err := svc.CreateTransaction(user.ID, budget.ID, "Shop", 50, time.Now(), "Groceries", "", "")
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateTransaction(user.ID, transaction.ID, "Shop", 80, transaction.Date, "Groceries", "", "")
		testutil.AssertNoError(t, err)

		if updated.Amount != 80 {
			t.Errorf("expected amount 80, got %f", updated.Amount)
		}

		var cat models.Category
		testutil.AssertNoError(t, db.First(&cat, "budget_id = ? AND name = ?", budget.ID, "Groceries").Error)
		if cat.ActualAmount != 80 {
			t.Errorf("expected category actual 80, got %f", cat.ActualAmount)
		}
	})

	t.Run("category_change_moves_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)
		transaction, err := svc.CreateTransaction(user.ID, budget.ID, "Shop", 50, time.Now(), "Groceries", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransaction(user.ID, transaction.ID, "Shop", 50, transaction.Date, "Rent", "", "")
		testutil.AssertNoError(t, err)

		var groceries, rent models.Category
		testutil.AssertNoError(t, db.First(&groceries, "budget_id = ? AND name = ?", budget.ID, "Groceries").Error)
		testutil.AssertNoError(t, db.First(&rent, "budget_id = ? AND name = ?", budget.ID, "Rent").Error)
		if groceries.ActualAmount != 0 {
			t.Errorf("expected Groceries drained, got %f", groceries.ActualAmount)
		}
		if rent.ActualAmount != 50 {
			t.Errorf("expected Rent at 50, got %f", rent.ActualAmount)
		}
	})

	t.Run("zero_date_rejected_and_stored_date_kept", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)
		transaction, err := svc.CreateTransaction(user.ID, budget.ID, "Shop", 50, time.Now(), "Groceries", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransaction(user.ID, transaction.ID, "Shop", 50, time.Time{}, "Groceries", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		var stored models.Transaction
		testutil.AssertNoError(t, db.First(&stored, "id = ?", transaction.ID).Error)
		if stored.Date.IsZero() {
			t.Error("stored date was wiped by a dateless update")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateTransaction(user.ID, "00000000-0000-0000-0000-000000000000", "Shop", 50, time.Now(), "Groceries", "", "")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("deletes_and_subtracts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)
		transaction, err := svc.CreateTransaction(user.ID, budget.ID, "Shop", 50, time.Now(), "Groceries", "", "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, transaction.ID))

		_, err = svc.GetTransactionByID(user.ID, transaction.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		var cat models.Category
		testutil.AssertNoError(t, db.First(&cat, "budget_id = ? AND name = ?", budget.ID, "Groceries").Error)
		if cat.ActualAmount != 0 {
			t.Errorf("expected actual back at 0, got %f", cat.ActualAmount)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteTransaction(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestSearchTransactions(t *testing.T) {
	setup := func(t *testing.T) (TransactionServicer, *testUserBudget, func()) {
		db := testutil.SetupTestDB(t)
		svc := NewTransactionService(db, NewReconciler())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 6, 2025)

		mk := func(desc, category string, amount float64, daysAgo int, pm models.PaymentMethod, notes string) {
			tx := &models.Transaction{UserID: user.ID, BudgetID: budget.ID, Description: desc,
				Amount: amount, Date: time.Now().AddDate(0, 0, -daysAgo), Category: category,
				PaymentMethod: pm, Notes: notes}
			testutil.AssertNoError(t, db.Create(tx).Error)
		}
		mk("Weekly groceries run", "Groceries", 45, 1, models.PaymentMethodDebitCard, "")
		mk("Monthly rent", "Rent", 1000, 3, models.PaymentMethodBankTransfer, "landlord")
		mk("Cinema night", "Entertainment", 25, 10, models.PaymentMethodCash, "two tickets")

		return svc, &testUserBudget{userID: user.ID, budgetID: budget.ID}, func() { testutil.TeardownTestDB(t, db) }
	}

	t.Run("free_text_matches_description", func(t *testing.T) {
		svc, ub, teardown := setup(t)
		defer teardown()

		found, err := svc.SearchTransactions(ub.userID, TransactionFilter{SearchTerm: "GROCERIES"})
		testutil.AssertNoError(t, err)
		if len(found) != 1 || found[0].Category != "Groceries" {
			t.Errorf("expected the groceries transaction, got %d results", len(found))
		}
	})

	t.Run("free_text_matches_notes", func(t *testing.T) {
		svc, ub, teardown := setup(t)
		defer teardown()

		found, err := svc.SearchTransactions(ub.userID, TransactionFilter{SearchTerm: "landlord"})
		testutil.AssertNoError(t, err)
		if len(found) != 1 || found[0].Category != "Rent" {
			t.Errorf("expected the rent transaction, got %d results", len(found))
		}
	})

	t.Run("amount_range", func(t *testing.T) {
		svc, ub, teardown := setup(t)
		defer teardown()

		min, max := 30.0, 100.0
		found, err := svc.SearchTransactions(ub.userID, TransactionFilter{MinAmount: &min, MaxAmount: &max})
		testutil.AssertNoError(t, err)
		if len(found) != 1 || found[0].Amount != 45 {
			t.Errorf("expected one mid-range transaction, got %d results", len(found))
		}
	})

	t.Run("payment_method", func(t *testing.T) {
		svc, ub, teardown := setup(t)
		defer teardown()

		pm := models.PaymentMethodCash
		found, err := svc.SearchTransactions(ub.userID, TransactionFilter{PaymentMethod: &pm})
		testutil.AssertNoError(t, err)
		if len(found) != 1 || found[0].Category != "Entertainment" {
			t.Errorf("expected the cash transaction, got %d results", len(found))
		}
	})

	t.Run("date_range", func(t *testing.T) {
		svc, ub, teardown := setup(t)
		defer teardown()

		start := time.Now().AddDate(0, 0, -5)
		found, err := svc.SearchTransactions(ub.userID, TransactionFilter{StartDate: &start})
		testutil.AssertNoError(t, err)
		if len(found) != 2 {
			t.Errorf("expected 2 transactions within 5 days, got %d", len(found))
		}
	})

	t.Run("no_filters_returns_all_newest_first", func(t *testing.T) {
		svc, ub, teardown := setup(t)
		defer teardown()

		found, err := svc.SearchTransactions(ub.userID, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(found) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(found))
		}
		if found[0].Category != "Groceries" {
			t.Errorf("expected newest first, got %s", found[0].Category)
		}
	})
}

type testUserBudget struct {
	userID   string
	budgetID string
}
