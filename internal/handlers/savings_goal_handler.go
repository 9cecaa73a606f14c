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

// SavingsGoalHandler handles savings-goal requests.
type SavingsGoalHandler struct {
	goalService services.SavingsGoalServicer
}

// NewSavingsGoalHandler creates a new SavingsGoalHandler.
func NewSavingsGoalHandler(goalService services.SavingsGoalServicer) *SavingsGoalHandler {
	return &SavingsGoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the request payload for creating a savings goal.
type CreateGoalRequest struct {
	Name                string              `json:"name" binding:"required,min=1,max=100"`
	TargetAmount        float64             `json:"target_amount" binding:"required,gt=0"`
	StartDate           *time.Time          `json:"start_date"`
	EndDate             time.Time           `json:"end_date" binding:"required"`
	Category            models.GoalCategory `json:"category" binding:"omitempty,goal_category"`
	Description         string              `json:"description" binding:"max=1000"`
	MonthlyContribution float64             `json:"monthly_contribution" binding:"min=0"`
	Priority            models.GoalPriority `json:"priority" binding:"omitempty,goal_priority"`
}

// UpdateGoalRequest represents the request payload for updating a savings goal.
type UpdateGoalRequest struct {
	Name                string              `json:"name" binding:"required,min=1,max=100"`
	TargetAmount        float64             `json:"target_amount" binding:"required,gt=0"`
	EndDate             time.Time           `json:"end_date" binding:"required"`
	Category            models.GoalCategory `json:"category" binding:"omitempty,goal_category"`
	Description         string              `json:"description" binding:"max=1000"`
	MonthlyContribution float64             `json:"monthly_contribution" binding:"min=0"`
	Priority            models.GoalPriority `json:"priority" binding:"omitempty,goal_priority"`
	IsCompleted         bool                `json:"is_completed"`
}

// ContributionRequest represents the payload for adding a contribution.
type ContributionRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Note   string  `json:"note" binding:"max=500"`
}

// GoalResponse is a savings goal with its derived progress attached.
type GoalResponse struct {
	models.SavingsGoal
	Progress models.GoalProgress `json:"progress"`
}

func goalResponse(g *models.SavingsGoal) GoalResponse {
	return GoalResponse{SavingsGoal: *g, Progress: g.Progress()}
}

// CreateGoal handles the creation of a new savings goal.
// @Summary     Create a savings goal
// @Description Create a new savings goal with an end date in the future
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} GoalResponse "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/add [post]
func (h *SavingsGoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var startDate time.Time
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	goal, err := h.goalService.CreateGoal(
		userID, req.Name, req.TargetAmount, startDate, req.EndDate,
		req.Category, req.Description, req.MonthlyContribution, req.Priority,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goalResponse(goal)})
}

// GetGoals handles listing savings goals for the authenticated user.
// @Summary     Get savings goals
// @Description Get a paginated list of savings goals for the authenticated user, newest first
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 100)"
// @Success     200 {object} pagination.PageResponse[GoalResponse] "Paginated goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals [get]
func (h *SavingsGoalHandler) GetGoals(c *gin.Context) {
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

	result, err := h.goalService.GetUserGoals(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]GoalResponse, 0, len(result.Data))
	for i := range result.Data {
		responses = append(responses, goalResponse(&result.Data[i]))
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(responses, result.Page, result.PageSize, result.TotalItems))
}

// GetGoal handles retrieving a specific savings goal.
// @Summary     Get savings goal by ID
// @Description Get a specific savings goal with its contributions and progress
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} GoalResponse "Goal details"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [get]
func (h *SavingsGoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalResponse(goal)})
}

// UpdateGoal handles editing a savings goal.
// @Summary     Update a savings goal
// @Description Update a savings goal's fields
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Updated goal"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [put]
func (h *SavingsGoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.UpdateGoal(
		userID, goalID, req.Name, req.TargetAmount, req.EndDate,
		req.Category, req.Description, req.MonthlyContribution, req.Priority, req.IsCompleted,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalResponse(goal)})
}

// DeleteGoal handles deleting a savings goal.
// @Summary     Delete a savings goal
// @Description Delete a savings goal and its contributions
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} map[string]string "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [delete]
func (h *SavingsGoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Savings goal deleted successfully", "id": goalID})
}

// AddContribution handles adding a contribution to a savings goal.
// @Summary     Add a contribution
// @Description Add a contribution toward a savings goal; the goal completes once the target is reached
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Goal ID"
// @Param       request body ContributionRequest true "Contribution details"
// @Success     200 {object} GoalResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id}/contribute [post]
func (h *SavingsGoalHandler) AddContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.AddContribution(userID, goalID, req.Amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalResponse(goal)})
}

// GetGoalReport handles the progress report for a savings goal.
// @Summary     Get goal progress report
// @Description Get a time-versus-amount progress report for a savings goal
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} services.GoalReport "Progress report"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id}/report [get]
func (h *SavingsGoalHandler) GetGoalReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.goalService.GetGoalReport(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
