package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

// expenseService handles split-expense business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense records a shared expense with its participants.
func (s *expenseService) CreateExpense(
	userID, description string,
	amount float64,
	date time.Time,
	splitType models.SplitType,
	status models.ExpenseStatus,
	participants []ParticipantInput,
) (*models.Expense, error) {
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense description is required")
	}
	if amount < 0.01 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than 0")
	}
	if len(participants) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "At least one participant is required")
	}
	if date.IsZero() {
		date = time.Now()
	}
	if splitType == "" {
		splitType = models.SplitTypeEqual
	}
	if status == "" {
		status = models.ExpenseStatusPending
	}

	expense := &models.Expense{
		UserID:       userID,
		Description:  description,
		Amount:       amount,
		Date:         date,
		SplitType:    splitType,
		Status:       status,
		Participants: buildParticipants(participants),
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

func buildParticipants(inputs []ParticipantInput) []models.Participant {
	out := make([]models.Participant, 0, len(inputs))
	for _, p := range inputs {
		out = append(out, models.Participant{
			Name:    p.Name,
			Email:   p.Email,
			Share:   p.Share,
			HasPaid: p.HasPaid,
		})
	}
	return out
}

// preloadParticipants loads participant rows in insertion order.
func preloadParticipants(db *gorm.DB) *gorm.DB {
	return db.Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

// GetUserExpenses returns a paginated list of expenses, newest first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := preloadParticipants(base).
		Order("date DESC").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID if it belongs to the user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := preloadParticipants(s.db).
		Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense replaces the expense's fields, including the entire
// participant set.
func (s *expenseService) UpdateExpense(
	userID, expenseID, description string,
	amount float64,
	date time.Time,
	splitType models.SplitType,
	status models.ExpenseStatus,
	participants []ParticipantInput,
) (*models.Expense, error) {
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense description is required")
	}
	if amount < 0.01 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than 0")
	}
	// A missing date would overwrite the stored one with the zero value,
	// so edits must always carry it.
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense date is required")
	}
	if len(participants) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "At least one participant is required")
	}
	if splitType == "" {
		splitType = models.SplitTypeEqual
	}
	if status == "" {
		status = models.ExpenseStatusPending
	}

	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.Participant{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		replacement := buildParticipants(participants)
		for i := range replacement {
			replacement[i].ExpenseID = expense.ID
			if err := tx.Create(&replacement[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		updates := map[string]interface{}{
			"description": description,
			"amount":      amount,
			"date":        date,
			"split_type":  splitType,
			"status":      status,
		}
		if err := tx.Model(&models.Expense{}).Where("id = ?", expense.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetExpenseByID(userID, expenseID)
}

// DeleteExpense removes a shared expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
