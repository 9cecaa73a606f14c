package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
	"centsible/internal/services"
)

// ExpenseHandler handles split-expense requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ParticipantRequest represents one participant in an expense payload.
type ParticipantRequest struct {
	Name    string  `json:"name" binding:"required,min=1,max=100"`
	Email   string  `json:"email" binding:"omitempty,email"`
	Share   float64 `json:"share" binding:"omitempty,min=0"`
	HasPaid bool    `json:"has_paid"`
}

// CreateExpenseRequest represents the request payload for creating a split expense.
type CreateExpenseRequest struct {
	Description  string               `json:"description" binding:"required,min=1,max=255"`
	Amount       float64              `json:"amount" binding:"required,gt=0"`
	Date         *time.Time           `json:"date"`
	SplitType    models.SplitType     `json:"split_type" binding:"omitempty,split_type"`
	Status       models.ExpenseStatus `json:"status" binding:"omitempty,expense_status"`
	Participants []ParticipantRequest `json:"participants" binding:"required,min=1,dive"`
}

// UpdateExpenseRequest represents the request payload for updating a split
// expense. The participant list replaces the current set wholesale.
type UpdateExpenseRequest struct {
	Description  string               `json:"description" binding:"required,min=1,max=255"`
	Amount       float64              `json:"amount" binding:"required,gt=0"`
	Date         time.Time            `json:"date" binding:"required"`
	SplitType    models.SplitType     `json:"split_type" binding:"omitempty,split_type"`
	Status       models.ExpenseStatus `json:"status" binding:"omitempty,expense_status"`
	Participants []ParticipantRequest `json:"participants" binding:"required,min=1,dive"`
}

func participantInputs(reqs []ParticipantRequest) []services.ParticipantInput {
	inputs := make([]services.ParticipantInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, services.ParticipantInput{
			Name:    r.Name,
			Email:   r.Email,
			Share:   r.Share,
			HasPaid: r.HasPaid,
		})
	}
	return inputs
}

// CreateExpense handles the creation of a new split expense.
// @Summary     Create a split expense
// @Description Create a shared expense with its participants
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/add [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	expense, err := h.expenseService.CreateExpense(
		userID, req.Description, req.Amount, date, req.SplitType, req.Status, participantInputs(req.Participants),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses for the authenticated user.
// @Summary     Get expenses
// @Description Get a paginated list of split expenses for the authenticated user, newest first
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
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

	result, err := h.expenseService.GetUserExpenses(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Description Get a specific split expense with its participants
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles editing a split expense.
// @Summary     Update an expense
// @Description Update an expense; the participant list replaces the existing set wholesale
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated expense"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(
		userID, expenseID, req.Description, req.Amount, req.Date, req.SplitType, req.Status, participantInputs(req.Participants),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting a split expense.
// @Summary     Delete an expense
// @Description Delete a split expense and its participants
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]string "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully", "id": expenseID})
}
