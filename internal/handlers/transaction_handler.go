package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
	"centsible/internal/services"
	"centsible/internal/uuid"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for recording a transaction.
type CreateTransactionRequest struct {
	BudgetID      string               `json:"budget_id" binding:"required,uuid"`
	Description   string               `json:"description" binding:"required,min=1,max=255"`
	Amount        float64              `json:"amount" binding:"required,gt=0"`
	Date          *time.Time           `json:"date"`
	Category      string               `json:"category" binding:"required,min=1,max=100"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	Notes         string               `json:"notes" binding:"max=1000"`
}

// UpdateTransactionRequest represents the request payload for editing a transaction.
type UpdateTransactionRequest struct {
	Description   string               `json:"description" binding:"required,min=1,max=255"`
	Amount        float64              `json:"amount" binding:"required,gt=0"`
	Date          time.Time            `json:"date" binding:"required"`
	Category      string               `json:"category" binding:"required,min=1,max=100"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	Notes         string               `json:"notes" binding:"max=1000"`
}

// SearchTransactionsRequest represents the filter payload for transaction search.
type SearchTransactionsRequest struct {
	Term          string     `json:"term"`
	BudgetID      string     `json:"budget_id" binding:"omitempty,uuid"`
	Category      string     `json:"category"`
	PaymentMethod string     `json:"payment_method" binding:"omitempty,payment_method"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	MinAmount     *float64   `json:"min_amount" binding:"omitempty,min=0"`
	MaxAmount     *float64   `json:"max_amount" binding:"omitempty,min=0"`
}

// CreateTransaction handles recording a new transaction.
// @Summary     Record a transaction
// @Description Record a new transaction against a budget and reconcile its category
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/add [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID, req.BudgetID, req.Description, req.Amount, date, req.Category, req.PaymentMethod, req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions handles listing transactions for the authenticated user.
// @Summary     Get transactions
// @Description Get a paginated list of transactions for the authenticated user, newest first
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles retrieving a specific transaction.
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles editing a transaction.
// @Summary     Update a transaction
// @Description Edit a transaction and reconcile the affected budget categories
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Updated transaction"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Concurrent update"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(
		userID, transactionID, req.Description, req.Amount, req.Date, req.Category, req.PaymentMethod, req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction.
// @Summary     Delete a transaction
// @Description Delete a transaction and subtract its amount from the budget category
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully", "id": transactionID})
}

// SearchTransactions handles filtered transaction search.
// @Summary     Search transactions
// @Description Search the user's transactions by free text and optional filters
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SearchTransactionsRequest true "Search filters"
// @Success     200 {array} models.Transaction "Matching transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/search [post]
func (h *TransactionHandler) SearchTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SearchTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{SearchTerm: req.Term}
	if req.BudgetID != "" && uuid.IsValid(req.BudgetID) {
		filter.BudgetID = &req.BudgetID
	}
	if req.Category != "" {
		filter.Category = &req.Category
	}
	if req.PaymentMethod != "" {
		pm := models.PaymentMethod(req.PaymentMethod)
		filter.PaymentMethod = &pm
	}
	filter.StartDate = req.StartDate
	filter.EndDate = req.EndDate
	filter.MinAmount = req.MinAmount
	filter.MaxAmount = req.MaxAmount

	transactions, err := h.transactionService.SearchTransactions(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
