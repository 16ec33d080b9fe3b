package models

// NotificationType classifies a notification for the client.
type NotificationType string

const (
	NotificationInvitation         NotificationType = "invitation"
	NotificationRoleChanged        NotificationType = "role_changed"
	NotificationRemoved            NotificationType = "removed"
	NotificationInvitationAccepted NotificationType = "invitation_accepted"
)

// Notification is a per-user message produced as a side effect of the
// invitation and membership flows. Only the owning user may read or
// mutate it. Data carries an opaque JSON payload for the client.
type Notification struct {
	Base
	UserID              string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type                NotificationType `gorm:"not null" json:"type"`
	Title               string           `gorm:"not null" json:"title"`
	Message             string           `json:"message"`
	Read                bool             `gorm:"default:false" json:"read"`
	Data                string           `json:"data,omitempty"`
	RelatedInvitationID *string          `gorm:"type:uuid" json:"related_invitation_id,omitempty"`

	// Relationships
	RelatedInvitation *Invitation `gorm:"foreignKey:RelatedInvitationID" json:"related_invitation,omitempty"`
}
