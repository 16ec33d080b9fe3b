package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"hestia/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", nextID()),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestHousehold creates a household owned by the given user,
// including the owner's admin membership.
func CreateTestHousehold(t *testing.T, db *gorm.DB, ownerID string) *models.Household {
	t.Helper()

	household := &models.Household{
		Name:    fmt.Sprintf("Test Household %d", nextID()),
		OwnerID: ownerID,
	}
	if err := db.Create(household).Error; err != nil {
		t.Fatalf("failed to create test household: %v", err)
	}

	CreateTestMember(t, db, household.ID, ownerID, models.RoleAdmin)
	return household
}

// CreateTestMember adds a user to a household with the given role.
func CreateTestMember(t *testing.T, db *gorm.DB, householdID, userID string, role models.MemberRole) *models.HouseholdMember {
	t.Helper()

	member := &models.HouseholdMember{
		HouseholdID: householdID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now(),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestInvitation creates a pending invitation to a household.
func CreateTestInvitation(t *testing.T, db *gorm.DB, householdID, inviterID, inviteeEmail string, role models.MemberRole) *models.Invitation {
	t.Helper()

	invitation := &models.Invitation{
		HouseholdID:  householdID,
		InviterID:    inviterID,
		InviteeEmail: inviteeEmail,
		Role:         role,
		Status:       models.InvitationPending,
	}
	if err := db.Create(invitation).Error; err != nil {
		t.Fatalf("failed to create test invitation: %v", err)
	}
	return invitation
}

// CreateTestNotification creates an unread notification for a user.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string, kind models.NotificationType) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   fmt.Sprintf("Test Notification %d", nextID()),
		Message: "test message",
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return notification
}

// CreateTestShoppingItem creates an unchecked shopping item.
func CreateTestShoppingItem(t *testing.T, db *gorm.DB, householdID, addedByID, name string) *models.ShoppingItem {
	t.Helper()

	item := &models.ShoppingItem{
		HouseholdID: householdID,
		AddedByID:   addedByID,
		Name:        name,
		Quantity:    1,
		Category:    models.ItemOther,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test shopping item: %v", err)
	}
	return item
}

// CreateTestBudgetEntry creates a budget entry dated inside the given month.
func CreateTestBudgetEntry(t *testing.T, db *gorm.DB, householdID, createdByID string, entryType models.EntryType, category models.BudgetCategory, amount float64, month string) *models.BudgetEntry {
	t.Helper()

	date, err := time.Parse("2006-01", month)
	if err != nil {
		t.Fatalf("invalid month %q: %v", month, err)
	}

	entry := &models.BudgetEntry{
		HouseholdID: householdID,
		CreatedByID: createdByID,
		Category:    category,
		Amount:      amount,
		Type:        entryType,
		Date:        date.AddDate(0, 0, 14),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test budget entry: %v", err)
	}
	return entry
}

// CreateTestBudgetPlan creates a budget plan for the given month.
func CreateTestBudgetPlan(t *testing.T, db *gorm.DB, householdID, createdByID string, category models.BudgetCategory, amount float64, month string, recurrent bool) *models.BudgetPlan {
	t.Helper()

	plan := &models.BudgetPlan{
		HouseholdID: householdID,
		CreatedByID: createdByID,
		Category:    category,
		Amount:      amount,
		Month:       month,
		Recurrent:   recurrent,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test budget plan: %v", err)
	}
	return plan
}
