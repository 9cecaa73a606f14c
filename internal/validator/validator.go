// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("split_type", validateSplitType)
		_ = v.RegisterValidation("expense_status", validateExpenseStatus)
		_ = v.RegisterValidation("goal_category", validateGoalCategory)
		_ = v.RegisterValidation("goal_priority", validateGoalPriority)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Credit Card", "Debit Card", "Cash", "Bank Transfer", "Other":
		return true
	}
	return false
}

func validateSplitType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "equal", "custom":
		return true
	}
	return false
}

func validateExpenseStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Pending", "Paid":
		return true
	}
	return false
}

func validateGoalCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Travel", "Education", "Emergency", "Retirement", "Home", "Vehicle", "Other":
		return true
	}
	return false
}

func validateGoalPriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Low", "Medium", "High":
		return true
	}
	return false
}
