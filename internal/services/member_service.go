package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hestia/internal/authz"
	apperrors "hestia/internal/errors"
	"hestia/internal/models"
)

// memberService handles household membership management.
type memberService struct {
	db       *gorm.DB
	notifier NotificationServicer
}

// NewMemberService creates a new MemberServicer.
func NewMemberService(db *gorm.DB, notifier NotificationServicer) MemberServicer {
	return &memberService{db: db, notifier: notifier}
}

// GetMembers lists all members of a household. Any member may call this.
func (s *memberService) GetMembers(userID, householdID string) ([]models.HouseholdMember, error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}

	var members []models.HouseholdMember
	err := s.db.Preload("User").
		Where("household_id = ?", householdID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}

// GetOwnMembership returns the caller's membership in a household.
func (s *memberService) GetOwnMembership(userID, householdID string) (*models.HouseholdMember, error) {
	return membershipFor(s.db, userID, householdID)
}

// getMember loads a membership row by its ID together with the household.
func (s *memberService) getMember(memberID string) (*models.HouseholdMember, error) {
	var member models.HouseholdMember
	if err := s.db.Preload("Household").Where("id = ?", memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// ChangeRole assigns a new role to a member. Only admins may change roles,
// and the owner's admin role cannot be downgraded.
func (s *memberService) ChangeRole(actorID, memberID string, role models.MemberRole) (*models.HouseholdMember, error) {
	target, err := s.getMember(memberID)
	if err != nil {
		return nil, err
	}

	actor, err := membershipFor(s.db, actorID, target.HouseholdID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor.Role, authz.ChangeRoles) {
		return nil, apperrors.ErrForbidden
	}
	if target.Household.OwnerID == target.UserID && role != models.RoleAdmin {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "the household owner must remain an admin")
	}

	if target.Role == role {
		return target, nil
	}

	oldRole := target.Role
	if err := s.db.Model(target).Update("role", role).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	target.Role = role

	if target.UserID != actorID {
		s.notifier.Dispatch(target.UserID, models.NotificationRoleChanged,
			"Your role has changed",
			fmt.Sprintf("Your role in %s changed from %s to %s", target.Household.Name, oldRole, role),
			map[string]interface{}{
				"household_id": target.HouseholdID,
				"old_role":     string(oldRole),
				"new_role":     string(role),
			}, nil)
	}

	return target, nil
}

// RemoveMember removes a member from the household. Admins may remove
// anyone except the owner; managers may only remove plain members.
func (s *memberService) RemoveMember(actorID, memberID string) error {
	target, err := s.getMember(memberID)
	if err != nil {
		return err
	}

	actor, err := membershipFor(s.db, actorID, target.HouseholdID)
	if err != nil {
		return err
	}
	if !authz.Can(actor.Role, authz.RemoveMembers) || !authz.CanRemove(actor.Role, target.Role) {
		return apperrors.ErrForbidden
	}
	if target.Household.OwnerID == target.UserID {
		return apperrors.ErrCannotRemoveOwner
	}
	if target.UserID == actorID {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "use leave to exit a household")
	}

	// Hard delete so the (household, user) unique index does not block
	// the user from being re-invited later.
	if err := s.db.Unscoped().Delete(target).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notifier.Dispatch(target.UserID, models.NotificationRemoved,
		"Removed from household",
		fmt.Sprintf("You were removed from %s", target.Household.Name),
		map[string]interface{}{"household_id": target.HouseholdID}, nil)

	return nil
}

// LeaveHousehold removes the caller's own membership. The owner cannot
// leave; they must delete the household or transfer ownership first.
func (s *memberService) LeaveHousehold(userID, householdID string) error {
	member, err := membershipFor(s.db, userID, householdID)
	if err != nil {
		return err
	}

	var household models.Household
	if err := s.db.Where("id = ?", householdID).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrHouseholdNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if household.OwnerID == userID {
		return apperrors.ErrCannotRemoveOwner
	}

	// Hard delete; a soft-deleted row would keep the unique index
	// occupied and block rejoining.
	if err := s.db.Unscoped().Delete(member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
