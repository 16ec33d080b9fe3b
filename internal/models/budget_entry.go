package models

import "time"

// EntryType distinguishes income from expense entries.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

// BudgetCategory classifies entries and plans. The same set serves both
// entry types; the schema does not force a category/type pairing.
type BudgetCategory string

const (
	CategoryFood          BudgetCategory = "food"
	CategoryBills         BudgetCategory = "bills"
	CategoryTransport     BudgetCategory = "transport"
	CategoryEntertainment BudgetCategory = "entertainment"
	CategoryHealth        BudgetCategory = "health"
	CategoryClothing      BudgetCategory = "clothing"
	CategoryEducation     BudgetCategory = "education"
	CategoryOther         BudgetCategory = "other"
)

// BudgetCategories lists every known budget category, in display order.
// Monthly summaries zero-initialize expense totals over this set.
var BudgetCategories = []BudgetCategory{
	CategoryFood, CategoryBills, CategoryTransport, CategoryEntertainment,
	CategoryHealth, CategoryClothing, CategoryEducation, CategoryOther,
}

// BudgetEntry is a single income or expense record in a household budget.
type BudgetEntry struct {
	Base
	HouseholdID string         `gorm:"type:uuid;not null;index" json:"household_id"`
	CreatedByID string         `gorm:"type:uuid;not null" json:"created_by_id"`
	Category    BudgetCategory `gorm:"not null" json:"category"`
	Amount      float64        `gorm:"not null" json:"amount"`
	Type        EntryType      `gorm:"not null" json:"type"`
	Description string         `json:"description,omitempty"`
	Date        time.Time      `gorm:"not null;index" json:"date"`

	// Relationships
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
