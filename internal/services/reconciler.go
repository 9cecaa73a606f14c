package services

import (
	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
)

// reconciler adjusts budget category actuals in step with transaction
// mutations. Matching is by exact, case-sensitive category name. A
// transaction naming a category the budget does not carry retroactively
// creates one with plannedAmount = actualAmount = amount: unplanned
// spend becomes its own line in the plan.
type reconciler struct{}

// NewReconciler creates a new Reconciler.
func NewReconciler() Reconciler {
	return &reconciler{}
}

// TransactionCreated adds the transaction amount to the matching
// category, creating it retroactively when absent.
func (r *reconciler) TransactionCreated(tx *gorm.DB, userID, budgetID, category string, amount float64) error {
	budget, err := loadBudget(tx, userID, budgetID)
	if err != nil || budget == nil {
		return err
	}

	if target := budget.FindCategory(category); target != nil {
		if err := addToActual(tx, target.ID, amount); err != nil {
			return err
		}
	} else if err := createRetroactiveCategory(tx, budget.ID, category, amount); err != nil {
		return err
	}

	return bumpVersion(tx, budget)
}

// TransactionUpdated applies an amount and/or category change. The
// budget reference never changes on edit, so both adjustments target the
// same budget and persist under a single version bump.
func (r *reconciler) TransactionUpdated(tx *gorm.DB, userID, budgetID, oldCategory string, oldAmount float64, newCategory string, newAmount float64) error {
	budget, err := loadBudget(tx, userID, budgetID)
	if err != nil || budget == nil {
		return err
	}

	if newCategory == oldCategory {
		if target := budget.FindCategory(newCategory); target != nil {
			if err := addToActual(tx, target.ID, newAmount-oldAmount); err != nil {
				return err
			}
		}
		return bumpVersion(tx, budget)
	}

	// Category moved: pull the old amount out of the old category (if it
	// still exists) and push the new amount into the new one.
	if old := budget.FindCategory(oldCategory); old != nil {
		if err := addToActual(tx, old.ID, -oldAmount); err != nil {
			return err
		}
	}

	if target := budget.FindCategory(newCategory); target != nil {
		if err := addToActual(tx, target.ID, newAmount); err != nil {
			return err
		}
	} else if err := createRetroactiveCategory(tx, budget.ID, newCategory, newAmount); err != nil {
		return err
	}

	return bumpVersion(tx, budget)
}

// TransactionDeleted subtracts the transaction amount from the matching
// category. There is deliberately no floor at zero: if the ledger and
// the budget have already diverged, the negative actual surfaces it.
func (r *reconciler) TransactionDeleted(tx *gorm.DB, userID, budgetID, category string, amount float64) error {
	budget, err := loadBudget(tx, userID, budgetID)
	if err != nil || budget == nil {
		return err
	}

	if target := budget.FindCategory(category); target != nil {
		if err := addToActual(tx, target.ID, -amount); err != nil {
			return err
		}
	}

	return bumpVersion(tx, budget)
}

func addToActual(tx *gorm.DB, categoryID string, delta float64) error {
	err := tx.Model(&models.Category{}).
		Where("id = ?", categoryID).
		Update("actual_amount", gorm.Expr("actual_amount + ?", delta)).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func createRetroactiveCategory(tx *gorm.DB, budgetID, name string, amount float64) error {
	category := &models.Category{
		BudgetID:      budgetID,
		Name:          name,
		PlannedAmount: amount,
		ActualAmount:  amount,
		Color:         models.RandomCategoryColor(),
		IsCustom:      true,
	}
	if err := tx.Create(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
