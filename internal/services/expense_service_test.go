package services

import (
	"testing"
	"time"

	"centsible/internal/models"
	"centsible/internal/pagination"
	"centsible/internal/testutil"
)

func TestCreateExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateExpense(user.ID, "Dinner out", 90, time.Now(), models.SplitTypeEqual, models.ExpenseStatusPending, []ParticipantInput{
			{Name: "Alice", Share: 45},
			{Name: "Bob", Share: 45},
		})
		testutil.AssertNoError(t, err)

		if expense.ID == "" {
			t.Fatal("expected expense ID to be set")
		}
		if len(expense.Participants) != 2 {
			t.Errorf("expected 2 participants, got %d", len(expense.Participants))
		}
	})

	t.Run("defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateExpense(user.ID, "Dinner out", 90, time.Time{}, "", "", []ParticipantInput{
			{Name: "Alice"},
		})
		testutil.AssertNoError(t, err)

		if expense.SplitType != models.SplitTypeEqual {
			t.Errorf("expected equal split, got %s", expense.SplitType)
		}
		if expense.Status != models.ExpenseStatusPending {
			t.Errorf("expected Pending status, got %s", expense.Status)
		}
		if expense.Date.IsZero() {
			t.Error("expected date to default to now")
		}
	})

	t.Run("no_participants", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, "Dinner out", 90, time.Now(), "", "", nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("amount_below_minimum", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, "Dinner out", 0, time.Now(), "", "", []ParticipantInput{{Name: "Alice"}})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserExpenses(t *testing.T) {
	t.Run("scoped_and_newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestExpense(t, db, user1.ID, 50)
		testutil.CreateTestExpense(t, db, user1.ID, 75)
		testutil.CreateTestExpense(t, db, user2.ID, 20)

		result, err := svc.GetUserExpenses(user1.ID, pagination.PageRequest{Page: 1, PageSize: 20})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 expenses, got %d", result.TotalItems)
		}
		for _, e := range result.Data {
			if len(e.Participants) == 0 {
				t.Error("expected participants preloaded")
			}
		}
	})
}

func TestGetExpenseByID(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetExpenseByID(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user1.ID, 50)

		_, err := svc.GetExpenseByID(user2.ID, expense.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestUpdateExpense(t *testing.T) {
	t.Run("replaces_participants_wholesale", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, 100)

		updated, err := svc.UpdateExpense(user.ID, expense.ID, "Dinner settled", 100, expense.Date,
			models.SplitTypeCustom, models.ExpenseStatusPaid, []ParticipantInput{
				{Name: "Carol", Share: 100, HasPaid: true},
			})
		testutil.AssertNoError(t, err)

		if updated.Status != models.ExpenseStatusPaid {
			t.Errorf("expected Paid status, got %s", updated.Status)
		}
		if len(updated.Participants) != 1 {
			t.Fatalf("expected old participants dropped, got %d", len(updated.Participants))
		}
		if updated.Participants[0].Name != "Carol" {
			t.Errorf("expected Carol, got %s", updated.Participants[0].Name)
		}
	})

	t.Run("zero_date_rejected_and_stored_date_kept", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, 100)

		_, err := svc.UpdateExpense(user.ID, expense.ID, "Dinner", 100, time.Time{},
			"", "", []ParticipantInput{{Name: "Alice", Share: 100}})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		var stored models.Expense
		testutil.AssertNoError(t, db.First(&stored, "id = ?", expense.ID).Error)
		if stored.Date.IsZero() {
			t.Error("stored date was wiped by a dateless update")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateExpense(user.ID, "00000000-0000-0000-0000-000000000000", "X", 10, time.Now(), "", "", []ParticipantInput{{Name: "A"}})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestDeleteExpense(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, 50)

		testutil.AssertNoError(t, svc.DeleteExpense(user.ID, expense.ID))

		_, err := svc.GetExpenseByID(user.ID, expense.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}
