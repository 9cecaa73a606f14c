package models

import "time"

// SplitType determines how a shared expense is divided.
type SplitType string

const (
	SplitTypeEqual  SplitType = "equal"
	SplitTypeCustom SplitType = "custom"
)

// ExpenseStatus tracks settlement of a shared expense.
type ExpenseStatus string

const (
	ExpenseStatusPending ExpenseStatus = "Pending"
	ExpenseStatusPaid    ExpenseStatus = "Paid"
)

// Expense is a bill split between participants. It has no referential
// link to budgets or transactions; the monthly budget view consumes it
// as an independent ledger.
type Expense struct {
	Base
	UserID      string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Description string        `gorm:"not null" json:"description"`
	Amount      float64       `gorm:"not null" json:"amount"`
	Date        time.Time     `gorm:"not null;index" json:"date"`
	SplitType   SplitType     `gorm:"default:equal" json:"split_type"`
	Status      ExpenseStatus `gorm:"default:Pending" json:"status"`

	// Relationships
	Participants []Participant `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE" json:"participants"`
}

// Participant is one person's share of a split expense.
type Participant struct {
	Base
	ExpenseID string  `gorm:"type:uuid;not null;index" json:"expense_id"`
	Name      string  `gorm:"not null" json:"name"`
	Email     string  `json:"email"`
	Share     float64 `gorm:"default:0" json:"share"`
	HasPaid   bool    `gorm:"default:false" json:"has_paid"`
}
