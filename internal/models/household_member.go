package models

import "time"

// MemberRole represents a member's role within a household
type MemberRole string

const (
	RoleAdmin   MemberRole = "admin"
	RoleManager MemberRole = "manager"
	RoleMember  MemberRole = "member"
)

// HouseholdMember associates a user with a household and a role.
// Each (household, user) pair is unique.
type HouseholdMember struct {
	Base
	HouseholdID string     `gorm:"type:uuid;not null;uniqueIndex:idx_household_user" json:"household_id"`
	UserID      string     `gorm:"type:uuid;not null;uniqueIndex:idx_household_user" json:"user_id"`
	Role        MemberRole `gorm:"not null;default:member" json:"role"`
	JoinedAt    time.Time  `gorm:"not null" json:"joined_at"`

	// Relationships
	Household Household `gorm:"foreignKey:HouseholdID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
