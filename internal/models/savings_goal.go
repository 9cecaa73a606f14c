package models

import (
	"math"
	"time"
)

// GoalCategory groups savings goals for display.
type GoalCategory string

const (
	GoalCategoryTravel     GoalCategory = "Travel"
	GoalCategoryEducation  GoalCategory = "Education"
	GoalCategoryEmergency  GoalCategory = "Emergency"
	GoalCategoryRetirement GoalCategory = "Retirement"
	GoalCategoryHome       GoalCategory = "Home"
	GoalCategoryVehicle    GoalCategory = "Vehicle"
	GoalCategoryOther      GoalCategory = "Other"
)

// GoalPriority ranks savings goals.
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "Low"
	GoalPriorityMedium GoalPriority = "Medium"
	GoalPriorityHigh   GoalPriority = "High"
)

// SavingsGoal tracks progress toward a target amount. IsCompleted flips
// to true once CurrentAmount reaches TargetAmount and never flips back;
// contributions past the target are still accepted.
type SavingsGoal struct {
	Base
	UserID              string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                string       `gorm:"not null" json:"name"`
	TargetAmount        float64      `gorm:"not null" json:"target_amount"`
	CurrentAmount       float64      `gorm:"not null;default:0" json:"current_amount"`
	StartDate           time.Time    `gorm:"not null" json:"start_date"`
	EndDate             time.Time    `gorm:"not null" json:"end_date"`
	Category            GoalCategory `gorm:"default:Other" json:"category"`
	Description         string       `json:"description"`
	MonthlyContribution float64      `gorm:"default:0" json:"monthly_contribution"`
	IsCompleted         bool         `gorm:"default:false" json:"is_completed"`
	Priority            GoalPriority `gorm:"default:Medium" json:"priority"`

	// Relationships
	Contributions []Contribution `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"contributions"`
}

// Contribution is one deposit toward a savings goal. Append-only.
type Contribution struct {
	Base
	GoalID string    `gorm:"type:uuid;not null;index" json:"goal_id"`
	Amount float64   `gorm:"not null" json:"amount"`
	Date   time.Time `gorm:"not null" json:"date"`
	Note   string    `json:"note"`
}

// GoalProgress holds the derived goal figures, recomputed on every read.
type GoalProgress struct {
	ProgressPercentage float64 `json:"progress_percentage"`
	RemainingAmount    float64 `json:"remaining_amount"`
	DaysRemaining      int     `json:"days_remaining"`
}

// Progress computes percentage toward target (capped at 100), amount
// still needed (floored at 0), and calendar days until the end date.
func (g *SavingsGoal) Progress() GoalProgress {
	var pct float64
	if g.TargetAmount > 0 {
		pct = math.Min(100, g.CurrentAmount/g.TargetAmount*100)
	}

	return GoalProgress{
		ProgressPercentage: pct,
		RemainingAmount:    math.Max(0, g.TargetAmount-g.CurrentAmount),
		DaysRemaining:      daysUntil(g.EndDate),
	}
}

func daysUntil(t time.Time) int {
	return int(math.Ceil(time.Until(t).Hours() / 24))
}
