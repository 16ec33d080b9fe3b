package services

import (
	"time"

	"hestia/internal/models"
	"hestia/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID string, name, avatar *string) (*models.User, error)
	ChangePassword(userID, oldPassword, newPassword string) error
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ClearRefreshToken(userID string) error
}

// HouseholdServicer defines the contract for household-related business logic.
type HouseholdServicer interface {
	CreateHousehold(ownerID, name string) (*models.Household, error)
	GetUserHouseholds(userID string) ([]models.Household, error)
	GetHouseholdByID(userID, householdID string) (*models.Household, error)
	RenameHousehold(userID, householdID, name string) (*models.Household, error)
	DeleteHousehold(userID, householdID string) error
	MembershipFor(userID, householdID string) (*models.HouseholdMember, error)
}

// MemberServicer defines the contract for household membership management.
type MemberServicer interface {
	GetMembers(userID, householdID string) ([]models.HouseholdMember, error)
	GetOwnMembership(userID, householdID string) (*models.HouseholdMember, error)
	ChangeRole(actorID, memberID string, role models.MemberRole) (*models.HouseholdMember, error)
	RemoveMember(actorID, memberID string) error
	LeaveHousehold(userID, householdID string) error
}

// InvitationServicer defines the contract for the invitation lifecycle.
type InvitationServicer interface {
	SendInvitation(inviterID, householdID, inviteeEmail string, role models.MemberRole, message string) (*models.Invitation, error)
	GetHouseholdInvitations(userID, householdID string, page pagination.PageRequest) (*pagination.PageResponse[models.Invitation], error)
	GetPendingInvitationsForUser(userID string) ([]models.Invitation, error)
	AcceptInvitation(userID, invitationID string) (*models.Invitation, error)
	RejectInvitation(userID, invitationID string) (*models.Invitation, error)
	CancelInvitation(userID, invitationID string) (*models.Invitation, error)
	DeleteInvitation(userID, invitationID string) error
	PurgeTerminal(olderThan time.Time) (int64, error)
}

// NotificationServicer defines the contract for user notifications.
// Dispatch is best-effort: failures are logged, never returned, and must
// not disturb the operation that triggered the notification.
type NotificationServicer interface {
	GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, notificationID string) (*models.Notification, error)
	MarkAllRead(userID string) error
	DeleteNotification(userID, notificationID string) error
	Dispatch(userID string, kind models.NotificationType, title, message string, data map[string]interface{}, relatedInvitationID *string)
}

// ShoppingServicer defines the contract for the shared shopping list.
type ShoppingServicer interface {
	GetItems(userID, householdID string, page pagination.PageRequest) (*pagination.PageResponse[models.ShoppingItem], error)
	AddItem(userID, householdID, name string, quantity float64, unit string, category models.ItemCategory) (*models.ShoppingItem, error)
	UpdateItem(userID, itemID string, name string, quantity *float64, unit *string, category *models.ItemCategory) (*models.ShoppingItem, error)
	ToggleItem(userID, itemID string) (*models.ShoppingItem, error)
	DeleteItem(userID, itemID string) error
}

// MonthlySummary aggregates a household's entries and plans for one month.
// ExpensesByCategory carries a value for every known category, zero when
// no entries exist for it.
type MonthlySummary struct {
	Month              string                            `json:"month"`
	TotalIncome        float64                           `json:"total_income"`
	TotalExpenses      float64                           `json:"total_expenses"`
	TotalPlanned       float64                           `json:"total_planned"`
	Balance            float64                           `json:"balance"`
	AvailableBalance   float64                           `json:"available_balance"`
	ExpensesByCategory map[models.BudgetCategory]float64 `json:"expenses_by_category"`
}

// CategoryProgress contains plan-vs-actual data for one budgeted category.
type CategoryProgress struct {
	Category   models.BudgetCategory `json:"category"`
	Planned    float64               `json:"planned"`
	Spent      float64               `json:"spent"`
	Remaining  float64               `json:"remaining"`
	Percentage float64               `json:"percentage"`
}

// BudgetServicer defines the contract for budget entries, plans, and
// monthly aggregation.
type BudgetServicer interface {
	GetEntries(userID, householdID, month string) ([]models.BudgetEntry, error)
	CreateEntry(userID, householdID string, category models.BudgetCategory, amount float64, entryType models.EntryType, description string, date time.Time) (*models.BudgetEntry, error)
	UpdateEntry(userID, entryID string, category *models.BudgetCategory, amount *float64, entryType *models.EntryType, description *string, date *time.Time) (*models.BudgetEntry, error)
	DeleteEntry(userID, entryID string) error
	GetPlans(userID, householdID, month string) ([]models.BudgetPlan, error)
	CreatePlan(userID, householdID string, category models.BudgetCategory, amount float64, month string, recurrent bool) (*models.BudgetPlan, error)
	UpdatePlan(userID, planID string, category *models.BudgetCategory, amount *float64, month *string, recurrent *bool) (*models.BudgetPlan, error)
	DeletePlan(userID, planID string) error
	GetMonthlySummary(userID, householdID, month string) (*MonthlySummary, error)
	GetCategoryProgress(userID, householdID, month string) ([]CategoryProgress, error)
}
