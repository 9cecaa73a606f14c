package models

// BudgetStatus classifies a budget by how actual spending compares to
// the plan and to income.
type BudgetStatus string

const (
	BudgetStatusGood      BudgetStatus = "Good"
	BudgetStatusWarning   BudgetStatus = "Warning"
	BudgetStatusOverspent BudgetStatus = "Overspent"
)

// Budget represents a spending plan for one calendar month. Categories
// are embedded child rows; the per-(month, year) uniqueness invariant is
// scoped to the owning user.
type Budget struct {
	Base
	UserID      string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string  `gorm:"not null" json:"name"`
	Month       int     `gorm:"not null" json:"month"`
	Year        int     `gorm:"not null" json:"year"`
	TotalIncome float64 `gorm:"not null" json:"total_income"`
	Notes       string  `json:"notes"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`

	// Version guards read-modify-write cycles on the category set.
	// Reconciling writes compare-and-swap on it and retry on conflict.
	Version int64 `gorm:"not null;default:0" json:"-"`

	// Relationships
	Categories []Category `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"categories"`
}

// BudgetSummary holds the derived budget figures. They are computed on
// every read and never stored, so they cannot go stale.
type BudgetSummary struct {
	TotalPlanned float64      `json:"total_planned"`
	TotalActual  float64      `json:"total_actual"`
	Remaining    float64      `json:"remaining"`
	Status       BudgetStatus `json:"status"`
}

// Summary recomputes the derived totals and status from the embedded
// categories. Overspent when actual exceeds income, Warning when actual
// exceeds plan, Good otherwise.
func (b *Budget) Summary() BudgetSummary {
	var planned, actual float64
	for _, c := range b.Categories {
		planned += c.PlannedAmount
		actual += c.ActualAmount
	}

	status := BudgetStatusGood
	if actual > b.TotalIncome {
		status = BudgetStatusOverspent
	} else if actual > planned {
		status = BudgetStatusWarning
	}

	return BudgetSummary{
		TotalPlanned: planned,
		TotalActual:  actual,
		Remaining:    b.TotalIncome - actual,
		Status:       status,
	}
}

// FindCategory returns the embedded category with the given name using
// exact, case-sensitive equality, or nil if absent.
func (b *Budget) FindCategory(name string) *Category {
	for i := range b.Categories {
		if b.Categories[i].Name == name {
			return &b.Categories[i]
		}
	}
	return nil
}
