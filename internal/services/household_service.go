package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"hestia/internal/authz"
	apperrors "hestia/internal/errors"
	"hestia/internal/models"
)

// householdService handles household-related business logic.
type householdService struct {
	db *gorm.DB
}

// NewHouseholdService creates a new HouseholdServicer.
func NewHouseholdService(db *gorm.DB) HouseholdServicer {
	return &householdService{db: db}
}

// membershipFor resolves the caller's membership in a household. The owner
// is always an admin: if the owner's membership row is missing (for example
// after a partial import) it is recreated on the fly.
func membershipFor(db *gorm.DB, userID, householdID string) (*models.HouseholdMember, error) {
	var member models.HouseholdMember
	err := db.Where("household_id = ? AND user_id = ?", householdID, userID).First(&member).Error
	if err == nil {
		return &member, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var household models.Household
	if err := db.Where("id = ?", householdID).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if household.OwnerID != userID {
		return nil, apperrors.ErrNotMember
	}

	member = models.HouseholdMember{
		HouseholdID: householdID,
		UserID:      userID,
		Role:        models.RoleAdmin,
		JoinedAt:    time.Now(),
	}
	if err := db.Create(&member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// CreateHousehold creates a household and the owner's admin membership in
// one transaction.
func (s *householdService) CreateHousehold(ownerID, name string) (*models.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "household name is required")
	}

	household := &models.Household{
		Name:    name,
		OwnerID: ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(household).Error; err != nil {
			return err
		}
		member := &models.HouseholdMember{
			HouseholdID: household.ID,
			UserID:      ownerID,
			Role:        models.RoleAdmin,
			JoinedAt:    time.Now(),
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return household, nil
}

// GetUserHouseholds lists every household the user belongs to.
func (s *householdService) GetUserHouseholds(userID string) ([]models.Household, error) {
	var households []models.Household
	err := s.db.
		Joins("JOIN household_members ON household_members.household_id = households.id").
		Where("household_members.user_id = ? AND household_members.deleted_at IS NULL", userID).
		Order("households.created_at ASC").
		Find(&households).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return households, nil
}

// GetHouseholdByID retrieves a household the user is a member of.
func (s *householdService) GetHouseholdByID(userID, householdID string) (*models.Household, error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}

	var household models.Household
	if err := s.db.Preload("Members").Preload("Members.User").Where("id = ?", householdID).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &household, nil
}

// RenameHousehold updates the household name. Requires management rights.
func (s *householdService) RenameHousehold(userID, householdID, name string) (*models.Household, error) {
	member, err := membershipFor(s.db, userID, householdID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(member.Role, authz.ManageHousehold) {
		return nil, apperrors.ErrForbidden
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "household name is required")
	}

	var household models.Household
	if err := s.db.Where("id = ?", householdID).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&household).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &household, nil
}

// DeleteHousehold removes a household and all its dependent records.
// Only admins may delete.
func (s *householdService) DeleteHousehold(userID, householdID string) error {
	member, err := membershipFor(s.db, userID, householdID)
	if err != nil {
		return err
	}
	if !authz.Can(member.Role, authz.DeleteHousehold) {
		return apperrors.ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("household_id = ?", householdID).Delete(&models.ShoppingItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", householdID).Delete(&models.BudgetEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", householdID).Delete(&models.BudgetPlan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id = ?", householdID).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}
		// Memberships go for good; their unique index is not scoped
		// to live rows.
		if err := tx.Unscoped().Where("household_id = ?", householdID).Delete(&models.HouseholdMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", householdID).Delete(&models.Household{}).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// MembershipFor resolves the caller's membership, creating the owner's
// implicit admin membership when missing.
func (s *householdService) MembershipFor(userID, householdID string) (*models.HouseholdMember, error) {
	return membershipFor(s.db, userID, householdID)
}
