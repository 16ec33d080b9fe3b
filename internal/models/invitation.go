package models

// InvitationStatus represents the lifecycle state of an invitation.
// Pending is the only non-terminal state.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationRejected  InvitationStatus = "rejected"
	InvitationCancelled InvitationStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s InvitationStatus) IsTerminal() bool {
	return s != InvitationPending
}

// Invitation is an offer of household membership addressed by email.
// InviteeID is resolved at send time when the email matches an existing
// account, or backfilled when the invitee accepts or rejects.
type Invitation struct {
	Base
	HouseholdID  string           `gorm:"type:uuid;not null;index" json:"household_id"`
	InviterID    string           `gorm:"type:uuid;not null" json:"inviter_id"`
	InviteeEmail string           `gorm:"not null;index" json:"invitee_email"`
	InviteeID    *string          `gorm:"type:uuid" json:"invitee_id,omitempty"`
	Role         MemberRole       `gorm:"not null;default:member" json:"role"`
	Status       InvitationStatus `gorm:"not null;default:pending;index" json:"status"`
	Message      string           `json:"message,omitempty"`

	// Relationships
	Household Household `gorm:"foreignKey:HouseholdID" json:"household,omitempty"`
	Inviter   User      `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
	Invitee   *User     `gorm:"foreignKey:InviteeID" json:"invitee,omitempty"`
}
