package models

import "math/rand"

// DefaultCategoryColor is the blue assigned when no color is chosen.
const DefaultCategoryColor = "#3B82F6"

// OtherCategoryColor is the gray used for the synthetic "Other" bucket
// in the monthly expense view.
const OtherCategoryColor = "#9CA3AF"

// categoryPalette holds the colors assigned to categories created
// on the fly by the reconciler.
var categoryPalette = []string{
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // yellow
	"#6366F1", // indigo
	"#EC4899", // pink
	"#8B5CF6", // purple
	"#EF4444", // red
	"#14B8A6", // teal
	"#F97316", // orange
	"#06B6D4", // cyan
}

// RandomCategoryColor picks a palette color for a retroactively created category.
func RandomCategoryColor() string {
	return categoryPalette[rand.Intn(len(categoryPalette))]
}

// Category is a named bucket embedded in a budget, carrying a planned
// amount and the actual amount maintained by the reconciler. ActualAmount
// intentionally has no floor: over-subtraction after ledger drift leaves
// it negative rather than hiding the inconsistency.
type Category struct {
	Base
	BudgetID      string  `gorm:"type:uuid;not null;index" json:"budget_id"`
	Name          string  `gorm:"not null" json:"name"`
	PlannedAmount float64 `gorm:"not null" json:"planned_amount"`
	ActualAmount  float64 `gorm:"not null;default:0" json:"actual_amount"`
	Color         string  `gorm:"default:#3B82F6" json:"color"`
	IsCustom      bool    `gorm:"default:false" json:"is_custom"`
}
