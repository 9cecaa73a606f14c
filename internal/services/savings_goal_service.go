package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

// savingsGoalService handles savings-goal business logic.
type savingsGoalService struct {
	db *gorm.DB
}

// NewSavingsGoalService creates a new SavingsGoalServicer.
func NewSavingsGoalService(db *gorm.DB) SavingsGoalServicer {
	return &savingsGoalService{db: db}
}

// CreateGoal creates a savings goal.
func (s *savingsGoalService) CreateGoal(
	userID, name string,
	targetAmount float64,
	startDate, endDate time.Time,
	category models.GoalCategory,
	description string,
	monthlyContribution float64,
	priority models.GoalPriority,
) (*models.SavingsGoal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target amount must be positive")
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}
	if !endDate.After(time.Now()) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "End date must be in the future")
	}
	if !endDate.After(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "End date must be after start date")
	}
	if monthlyContribution < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Monthly contribution cannot be negative")
	}
	if category == "" {
		category = models.GoalCategoryOther
	}
	if priority == "" {
		priority = models.GoalPriorityMedium
	}

	goal := &models.SavingsGoal{
		UserID:              userID,
		Name:                name,
		TargetAmount:        targetAmount,
		StartDate:           startDate,
		EndDate:             endDate,
		Category:            category,
		Description:         description,
		MonthlyContribution: monthlyContribution,
		Priority:            priority,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// preloadContributions loads contribution rows in insertion order.
func preloadContributions(db *gorm.DB) *gorm.DB {
	return db.Preload("Contributions", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

// GetUserGoals returns a paginated list of goals, newest first.
func (s *savingsGoalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error) {
	page.Defaults()

	base := s.db.Model(&models.SavingsGoal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.SavingsGoal
	if err := preloadContributions(base).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *savingsGoalService) GetGoalByID(userID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := preloadContributions(s.db).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal replaces a goal's editable fields. Setting isCompleted here
// is an explicit user action; the automatic transition only ever goes
// from active to completed via AddContribution.
func (s *savingsGoalService) UpdateGoal(
	userID, goalID, name string,
	targetAmount float64,
	endDate time.Time,
	category models.GoalCategory,
	description string,
	monthlyContribution float64,
	priority models.GoalPriority,
	isCompleted bool,
) (*models.SavingsGoal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target amount must be positive")
	}
	if !isCompleted && !endDate.After(time.Now()) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "End date must be in the future for active goals")
	}
	if category == "" {
		category = models.GoalCategoryOther
	}
	if priority == "" {
		priority = models.GoalPriorityMedium
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":                 name,
		"target_amount":        targetAmount,
		"end_date":             endDate,
		"category":             category,
		"description":          description,
		"monthly_contribution": monthlyContribution,
		"priority":             priority,
		"is_completed":         isCompleted,
	}
	if err := s.db.Model(goal).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetGoalByID(userID, goalID)
}

// DeleteGoal removes a savings goal and its contributions.
func (s *savingsGoalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddContribution appends a contribution and advances the goal. Once
// the current amount reaches the target the goal flips to completed and
// stays completed; further contributions keep accumulating past the
// target without error.
func (s *savingsGoalService) AddContribution(userID, goalID string, amount float64, note string) (*models.SavingsGoal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Contribution amount must be positive")
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		contribution := &models.Contribution{
			GoalID: goal.ID,
			Amount: amount,
			Date:   time.Now(),
			Note:   note,
		}
		if err := tx.Create(contribution).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		newAmount := goal.CurrentAmount + amount
		updates := map[string]interface{}{"current_amount": newAmount}
		if newAmount >= goal.TargetAmount {
			updates["is_completed"] = true
		}
		if err := tx.Model(&models.SavingsGoal{}).Where("id = ?", goal.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetGoalByID(userID, goalID)
}

// GetGoalReport computes the time-vs-amount progress report for a goal.
func (s *savingsGoalService) GetGoalReport(userID, goalID string) (*GoalReport, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	totalDays := int(math.Ceil(goal.EndDate.Sub(goal.StartDate).Hours() / 24))
	elapsedDays := int(math.Ceil(now.Sub(goal.StartDate).Hours() / 24))
	remainingDays := int(math.Max(0, math.Ceil(goal.EndDate.Sub(now).Hours()/24)))

	var timeProgress float64
	if totalDays > 0 {
		timeProgress = float64(elapsedDays) / float64(totalDays) * 100
	}
	amountProgress := goal.CurrentAmount / goal.TargetAmount * 100

	var requiredDaily float64
	if remainingDays > 0 {
		requiredDaily = (goal.TargetAmount - goal.CurrentAmount) / float64(remainingDays)
	}

	return &GoalReport{
		GoalID:                    goal.ID,
		Name:                      goal.Name,
		TargetAmount:              goal.TargetAmount,
		CurrentAmount:             goal.CurrentAmount,
		RemainingAmount:           goal.TargetAmount - goal.CurrentAmount,
		StartDate:                 goal.StartDate,
		EndDate:                   goal.EndDate,
		TotalDays:                 totalDays,
		ElapsedDays:               elapsedDays,
		RemainingDays:             remainingDays,
		TimeProgress:              round2(timeProgress),
		AmountProgress:            round2(amountProgress),
		IsOnTrack:                 amountProgress >= timeProgress,
		RequiredDailyContribution: round2(requiredDaily),
		Contributions:             goal.Contributions,
		IsCompleted:               goal.IsCompleted,
		Category:                  goal.Category,
		Priority:                  goal.Priority,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
