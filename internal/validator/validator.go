// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hestia/internal/models"
)

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// validItemCategories is derived from the model's category list.
var validItemCategories = func() map[string]bool {
	m := make(map[string]bool, len(models.ItemCategories))
	for _, c := range models.ItemCategories {
		m[string(c)] = true
	}
	return m
}()

// validBudgetCategories is derived from the model's category list.
var validBudgetCategories = func() map[string]bool {
	m := make(map[string]bool, len(models.BudgetCategories))
	for _, c := range models.BudgetCategories {
		m[string(c)] = true
	}
	return m
}()

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("member_role", validateMemberRole)
		_ = v.RegisterValidation("invitation_role", validateInvitationRole)
		_ = v.RegisterValidation("entry_type", validateEntryType)
		_ = v.RegisterValidation("budget_category", validateBudgetCategory)
		_ = v.RegisterValidation("shopping_category", validateShoppingCategory)
		_ = v.RegisterValidation("month", validateMonth)
	}
}

func validateMemberRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "admin", "manager", "member":
		return true
	}
	return false
}

// Invitations may only grant manager or member; admin comes with ownership.
func validateInvitationRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "manager", "member":
		return true
	}
	return false
}

func validateEntryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateBudgetCategory(fl validator.FieldLevel) bool {
	return validBudgetCategories[fl.Field().String()]
}

func validateShoppingCategory(fl validator.FieldLevel) bool {
	return validItemCategories[fl.Field().String()]
}

func validateMonth(fl validator.FieldLevel) bool {
	return monthRegex.MatchString(fl.Field().String())
}
