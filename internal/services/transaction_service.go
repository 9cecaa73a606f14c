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

// transactionService handles transaction-related business logic. Every
// ledger mutation triggers the reconciler synchronously, inside the same
// database transaction, so the budget can never observe a half-applied
// mutation.
type transactionService struct {
	db         *gorm.DB
	reconciler Reconciler
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, reconciler Reconciler) TransactionServicer {
	return &transactionService{
		db:         db,
		reconciler: reconciler,
	}
}

// CreateTransaction records a ledger entry and reconciles the owning
// budget's category actuals.
func (s *transactionService) CreateTransaction(
	userID, budgetID, description string,
	amount float64,
	date time.Time,
	category string,
	paymentMethod models.PaymentMethod,
	notes string,
) (*models.Transaction, error) {
	if description == "" || category == "" || budgetID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing required fields")
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if date.IsZero() {
		date = time.Now()
	}
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodOther
	}

	transaction := &models.Transaction{
		UserID:        userID,
		BudgetID:      budgetID,
		Description:   description,
		Amount:        amount,
		Date:          date,
		Category:      category,
		PaymentMethod: paymentMethod,
		Notes:         notes,
	}

	err := retryOnConflict(s.db, func(tx *gorm.DB) error {
		transaction.ID = ""
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.reconciler.TransactionCreated(tx, userID, budgetID, category, amount)
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// GetUserTransactions returns a paginated list of transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("date DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction amends a ledger entry and reconciles the owning
// budget against the original amount and category. The budget reference
// is taken from the stored transaction: edits never move a transaction
// between budgets.
func (s *transactionService) UpdateTransaction(
	userID, transactionID, description string,
	amount float64,
	date time.Time,
	category string,
	paymentMethod models.PaymentMethod,
	notes string,
) (*models.Transaction, error) {
	// Unlike create, edits carry no implicit date: a missing date would
	// otherwise overwrite the stored one with the zero value.
	if description == "" || category == "" || date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing required fields")
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodOther
	}

	var updated *models.Transaction
	err := retryOnConflict(s.db, func(tx *gorm.DB) error {
		var original models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", transactionID, userID).First(&original).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// Capture the pre-edit amount and category before gorm applies
		// the updates to the loaded struct.
		oldAmount := original.Amount
		oldCategory := original.Category

		updates := map[string]interface{}{
			"description":    description,
			"amount":         amount,
			"date":           date,
			"category":       category,
			"payment_method": paymentMethod,
			"notes":          notes,
		}
		if err := tx.Model(&original).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updated = &original

		return s.reconciler.TransactionUpdated(tx, userID, original.BudgetID,
			oldCategory, oldAmount, category, amount)
	})
	if err != nil {
		return nil, err
	}
	return s.GetTransactionByID(userID, updated.ID)
}

// DeleteTransaction removes a ledger entry and backs its amount out of
// the owning budget's category.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	return retryOnConflict(s.db, func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(&transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.reconciler.TransactionDeleted(tx, userID, transaction.BudgetID,
			transaction.Category, transaction.Amount)
	})
}

// SearchTransactions filters the ledger by budget, category, payment
// method, date range, amount range and a free-text term matched against
// description, category and notes.
func (s *transactionService) SearchTransactions(userID string, filter TransactionFilter) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)

	if filter.BudgetID != nil {
		q = q.Where("budget_id = ?", *filter.BudgetID)
	}
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.PaymentMethod != nil {
		q = q.Where("payment_method = ?", *filter.PaymentMethod)
	}
	if filter.StartDate != nil {
		q = q.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date <= ?", *filter.EndDate)
	}
	if filter.MinAmount != nil {
		q = q.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		q = q.Where("amount <= ?", *filter.MaxAmount)
	}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(description) LIKE ? OR LOWER(category) LIKE ? OR LOWER(notes) LIKE ?",
			pattern, pattern, pattern)
	}

	var transactions []models.Transaction
	if err := q.Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
