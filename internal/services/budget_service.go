package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

// maxWriteRetries bounds optimistic-lock retries on budget writes.
const maxWriteRetries = 3

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// preloadCategories loads embedded categories in insertion order.
func preloadCategories(db *gorm.DB) *gorm.DB {
	return db.Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

// loadBudget fetches a budget with its categories inside tx, or nil when
// the budget does not exist. Used by reconciling writes that must
// tolerate orphaned references.
func loadBudget(tx *gorm.DB, userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	err := preloadCategories(tx).Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// bumpVersion performs the compare-and-swap on the budget's version
// column. A zero row count means another writer got there first.
func bumpVersion(tx *gorm.DB, budget *models.Budget) error {
	res := tx.Model(&models.Budget{}).
		Where("id = ? AND version = ?", budget.ID, budget.Version).
		Update("version", budget.Version+1)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrentUpdate
	}
	return nil
}

// retryOnConflict runs fn in a database transaction, retrying the whole
// transaction when it fails on the optimistic version check. fn must
// re-read all state it depends on.
func retryOnConflict(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		err = db.Transaction(fn)
		if !errors.Is(err, apperrors.ErrConcurrentUpdate) {
			return err
		}
	}
	return err
}

// CreateBudget creates a budget with its embedded categories. At most
// one budget may exist per (month, year) for a user.
func (s *budgetService) CreateBudget(
	userID, name string,
	month, year int,
	totalIncome float64,
	categories []CategoryInput,
	notes string,
) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 2000 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be 2000 or later")
	}
	if totalIncome < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total income cannot be negative")
	}
	for _, c := range categories {
		if c.PlannedAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "planned amount cannot be negative")
		}
	}

	// Existence check before insert; the unique index in the schema
	// closes the window between check and insert.
	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	budget := &models.Budget{
		UserID:      userID,
		Name:        name,
		Month:       month,
		Year:        year,
		TotalIncome: totalIncome,
		Notes:       notes,
		IsActive:    true,
		Categories:  buildCategories(categories),
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

func buildCategories(inputs []CategoryInput) []models.Category {
	out := make([]models.Category, 0, len(inputs))
	for _, c := range inputs {
		color := c.Color
		if color == "" {
			color = models.DefaultCategoryColor
		}
		out = append(out, models.Category{
			Name:          c.Name,
			PlannedAmount: c.PlannedAmount,
			ActualAmount:  c.ActualAmount,
			Color:         color,
		})
	}
	return out
}

// GetUserBudgets returns a paginated list of budgets, newest period first.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := preloadCategories(base).
		Order("year DESC, month DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := preloadCategories(s.db).
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget replaces the budget's name, income, notes, active flag
// and the entire category set. Categories are not merged: the stored set
// is dropped and the submitted set inserted in its place.
func (s *budgetService) UpdateBudget(
	userID, budgetID, name string,
	totalIncome float64,
	categories []CategoryInput,
	notes string,
	isActive bool,
) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if totalIncome < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total income cannot be negative")
	}
	for _, c := range categories {
		if c.PlannedAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "planned amount cannot be negative")
		}
	}

	err := retryOnConflict(s.db, func(tx *gorm.DB) error {
		budget, err := loadBudget(tx, userID, budgetID)
		if err != nil {
			return err
		}
		if budget == nil {
			return apperrors.ErrBudgetNotFound
		}

		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.Category{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		replacement := buildCategories(categories)
		for i := range replacement {
			replacement[i].BudgetID = budget.ID
			if err := tx.Create(&replacement[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		updates := map[string]interface{}{
			"name":         name,
			"total_income": totalIncome,
			"notes":        notes,
			"is_active":    isActive,
		}
		if err := tx.Model(&models.Budget{}).Where("id = ?", budget.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return bumpVersion(tx, budget)
	})
	if err != nil {
		return nil, err
	}

	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget removes a budget. Transactions referencing it are left in
// place with a dangling budget reference.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SetCategoryActual overrides one category's actual amount directly.
func (s *budgetService) SetCategoryActual(userID, budgetID, categoryID string, actualAmount float64) (*models.Budget, error) {
	if actualAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Valid actual amount is required")
	}

	err := retryOnConflict(s.db, func(tx *gorm.DB) error {
		budget, err := loadBudget(tx, userID, budgetID)
		if err != nil {
			return err
		}
		if budget == nil {
			return apperrors.ErrBudgetNotFound
		}

		var target *models.Category
		for i := range budget.Categories {
			if budget.Categories[i].ID == categoryID {
				target = &budget.Categories[i]
				break
			}
		}
		if target == nil {
			return apperrors.ErrCategoryNotFound
		}

		if err := tx.Model(&models.Category{}).
			Where("id = ?", target.ID).
			Update("actual_amount", actualAmount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return bumpVersion(tx, budget)
	})
	if err != nil {
		return nil, err
	}

	return s.GetBudgetByID(userID, budgetID)
}

// GetMonthlyView rebuilds a budget's category actuals from the expense
// ledger for the given calendar month. Each expense is bucketed by the
// lowercased first word of its description; bucket sums replace the
// stored actuals of matching categories, and unmatched buckets pool into
// a synthetic "Other" category. The recomputed view is never persisted.
func (s *budgetService) GetMonthlyView(userID string, month, year int) (*models.Budget, error) {
	var budget models.Budget
	if err := preloadCategories(s.db).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrBudgetNotFound, "No budget found for this month and year")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second) // last day 23:59:59

	var expenses []models.Expense
	if err := s.db.
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(expenses) == 0 {
		return &budget, nil
	}

	// Bucket expense amounts by the first word of the description.
	buckets := make(map[string]float64)
	for _, e := range expenses {
		fields := strings.Fields(e.Description)
		if len(fields) == 0 {
			continue
		}
		buckets[strings.ToLower(fields[0])] += e.Amount
	}

	// Overwrite matching category actuals with the bucket sums.
	matched := make(map[string]bool)
	for i := range budget.Categories {
		key := strings.ToLower(budget.Categories[i].Name)
		if sum, ok := buckets[key]; ok {
			budget.Categories[i].ActualAmount = sum
			matched[key] = true
		}
	}

	// Pool every unmatched bucket into "Other".
	var other float64
	for key, sum := range buckets {
		if !matched[key] {
			other += sum
		}
	}
	if other > 0 {
		if existing := findCategoryFold(&budget, "other"); existing != nil {
			existing.ActualAmount += other
		} else {
			budget.Categories = append(budget.Categories, models.Category{
				BudgetID:     budget.ID,
				Name:         "Other",
				ActualAmount: other,
				Color:        models.OtherCategoryColor,
			})
		}
	}

	return &budget, nil
}

// findCategoryFold matches a category by lowercased name.
func findCategoryFold(b *models.Budget, lower string) *models.Category {
	for i := range b.Categories {
		if strings.ToLower(b.Categories[i].Name) == lower {
			return &b.Categories[i]
		}
	}
	return nil
}
