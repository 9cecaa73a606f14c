package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
	"centsible/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CategoryRequest represents one category in a budget payload.
type CategoryRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=100"`
	PlannedAmount float64 `json:"planned_amount" binding:"min=0"`
	ActualAmount  float64 `json:"actual_amount" binding:"omitempty,min=0"`
	Color         string  `json:"color" binding:"omitempty,hex_color"`
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=100"`
	Month       int               `json:"month" binding:"required,min=1,max=12"`
	Year        int               `json:"year" binding:"required,min=1970,max=2100"`
	TotalIncome float64           `json:"total_income" binding:"min=0"`
	Categories  []CategoryRequest `json:"categories" binding:"dive"`
	Notes       string            `json:"notes" binding:"max=1000"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
// The category list replaces the budget's current categories wholesale.
type UpdateBudgetRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=100"`
	TotalIncome float64           `json:"total_income" binding:"min=0"`
	Categories  []CategoryRequest `json:"categories" binding:"dive"`
	Notes       string            `json:"notes" binding:"max=1000"`
	IsActive    *bool             `json:"is_active"`
}

// SetCategoryActualRequest represents the payload for overriding a
// category's actual amount.
type SetCategoryActualRequest struct {
	ActualAmount *float64 `json:"actual_amount" binding:"required,min=0"`
}

// BudgetResponse is a budget with its derived summary attached.
type BudgetResponse struct {
	models.Budget
	Summary models.BudgetSummary `json:"summary"`
}

func budgetResponse(b *models.Budget) BudgetResponse {
	return BudgetResponse{Budget: *b, Summary: b.Summary()}
}

func categoryInputs(reqs []CategoryRequest) []services.CategoryInput {
	inputs := make([]services.CategoryInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, services.CategoryInput{
			Name:          r.Name,
			PlannedAmount: r.PlannedAmount,
			ActualAmount:  r.ActualAmount,
			Color:         r.Color,
		})
	}
	return inputs
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a new monthly budget with its categories
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} BudgetResponse "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/add [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(
		userID, req.Name, req.Month, req.Year, req.TotalIncome, categoryInputs(req.Categories), req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budgetResponse(budget)})
}

// GetBudgets handles listing budgets for the authenticated user.
// @Summary     Get budgets
// @Description Get a paginated list of budgets for the authenticated user, newest period first
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 100)"
// @Success     200 {object} pagination.PageResponse[BudgetResponse] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
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

	result, err := h.budgetService.GetUserBudgets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]BudgetResponse, 0, len(result.Data))
	for i := range result.Data {
		responses = append(responses, budgetResponse(&result.Data[i]))
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(responses, result.Page, result.PageSize, result.TotalItems))
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget with its categories and derived summary
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} BudgetResponse "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budgetResponse(budget)})
}

// UpdateBudget handles replacing a budget's fields and category set.
// @Summary     Update a budget
// @Description Update a budget's fields; the category list replaces the existing set wholesale
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget"
// @Success     200 {object} BudgetResponse "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Concurrent update"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	budget, err := h.budgetService.UpdateBudget(
		userID, budgetID, req.Name, req.TotalIncome, categoryInputs(req.Categories), req.Notes, isActive,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budgetResponse(budget)})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete a budget
// @Description Delete a budget and its categories; transactions that referenced it are kept
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} map[string]string "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully", "id": budgetID})
}

// SetCategoryActual handles overriding one category's actual amount.
// @Summary     Set category actual amount
// @Description Override the actual spent amount of one budget category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path string                   true "Budget ID"
// @Param       categoryId path string                   true "Category ID"
// @Param       request    body SetCategoryActualRequest true "New actual amount"
// @Success     200 {object} BudgetResponse "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or category not found"
// @Failure     409 {object} ErrorResponse "Concurrent update"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/category/{categoryId} [put]
func (h *BudgetHandler) SetCategoryActual(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetCategoryActualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.SetCategoryActual(userID, budgetID, categoryID, *req.ActualAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budgetResponse(budget)})
}

// GetMonthlyView handles the rebuilt monthly budget view.
// @Summary     Get monthly budget view
// @Description Get the budget for a month with category actuals rebuilt from that month's transactions
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month path int true "Month (1-12)"
// @Param       year  path int true "Year"
// @Success     200 {object} BudgetResponse "Rebuilt budget view"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budget for that period"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/monthly/{month}/{year} [get]
func (h *BudgetHandler) GetMonthlyView(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid month"))
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 2100 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
		return
	}

	budget, err := h.budgetService.GetMonthlyView(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budgetResponse(budget)})
}
