package models

// Household is the tenant boundary grouping users, shopping items, and
// budget records. The owner always holds an admin membership; if that row
// is ever missing the owner is still treated as an implicit admin.
type Household struct {
	Base
	Name    string `gorm:"not null" json:"name"`
	OwnerID string `gorm:"type:uuid;not null;index" json:"owner_id"`

	// Relationships
	Owner         User              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members       []HouseholdMember `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Invitations   []Invitation      `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"invitations,omitempty"`
	ShoppingItems []ShoppingItem    `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"shopping_items,omitempty"`
	BudgetEntries []BudgetEntry     `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"budget_entries,omitempty"`
	BudgetPlans   []BudgetPlan      `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"budget_plans,omitempty"`
}
