package models

import "time"

// PaymentMethod enumerates how a transaction was paid.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "Credit Card"
	PaymentMethodDebitCard    PaymentMethod = "Debit Card"
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodOther        PaymentMethod = "Other"
)

// Transaction is a single ledger entry against a budget. Category is a
// free-text name matched against the budget's embedded categories, not a
// foreign key. BudgetID deliberately carries no FK constraint: deleting a
// budget orphans its transactions instead of cascading.
type Transaction struct {
	Base
	UserID        string        `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID      string        `gorm:"type:uuid;not null;index" json:"budget_id"`
	Description   string        `gorm:"not null" json:"description"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Date          time.Time     `gorm:"not null;index" json:"date"`
	Category      string        `gorm:"not null" json:"category"`
	PaymentMethod PaymentMethod `gorm:"default:Other" json:"payment_method"`
	Notes         string        `json:"notes"`
}
