package models

// BudgetPlan allocates a planned amount to a category for one month.
// A recurrent plan applies to every month in addition to any
// month-specific plan for the same category.
type BudgetPlan struct {
	Base
	HouseholdID string         `gorm:"type:uuid;not null;index" json:"household_id"`
	CreatedByID string         `gorm:"type:uuid;not null" json:"created_by_id"`
	Category    BudgetCategory `gorm:"not null" json:"category"`
	Amount      float64        `gorm:"not null" json:"amount"`
	Month       string         `gorm:"size:7;not null;index" json:"month"` // YYYY-MM
	Recurrent   bool           `gorm:"default:false" json:"recurrent"`

	// Relationships
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
