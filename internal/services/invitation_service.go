package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"hestia/internal/authz"
	apperrors "hestia/internal/errors"
	"hestia/internal/models"
	"hestia/internal/pagination"
)

// invitationService handles the invitation lifecycle.
type invitationService struct {
	db       *gorm.DB
	notifier NotificationServicer
}

// NewInvitationService creates a new InvitationServicer.
func NewInvitationService(db *gorm.DB, notifier NotificationServicer) InvitationServicer {
	return &invitationService{db: db, notifier: notifier}
}

// SendInvitation creates a pending invitation. At most one pending
// invitation may exist per (household, invitee email) pair, and the
// invitee must not already be a member. If the email belongs to an
// existing account the invitation is linked to it immediately and the
// invitee is notified.
func (s *invitationService) SendInvitation(inviterID, householdID, inviteeEmail string, role models.MemberRole, message string) (*models.Invitation, error) {
	inviter, err := membershipFor(s.db, inviterID, householdID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(inviter.Role, authz.InviteMembers) {
		return nil, apperrors.ErrForbidden
	}
	if role == models.RoleAdmin {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invitations may only grant manager or member roles")
	}

	inviteeEmail = strings.ToLower(strings.TrimSpace(inviteeEmail))
	if inviteeEmail == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invitee email is required")
	}

	var pending int64
	s.db.Model(&models.Invitation{}).
		Where("household_id = ? AND invitee_email = ? AND status = ?", householdID, inviteeEmail, models.InvitationPending).
		Count(&pending)
	if pending > 0 {
		return nil, apperrors.ErrDuplicateInvitation
	}

	// Resolve the email against existing accounts
	var inviteeID *string
	var invitee models.User
	err = s.db.Where("email = ?", inviteeEmail).First(&invitee).Error
	switch {
	case err == nil:
		var member int64
		s.db.Model(&models.HouseholdMember{}).
			Where("household_id = ? AND user_id = ?", householdID, invitee.ID).
			Count(&member)
		if member > 0 {
			return nil, apperrors.ErrDuplicateMember
		}
		inviteeID = &invitee.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	invitation := &models.Invitation{
		HouseholdID:  householdID,
		InviterID:    inviterID,
		InviteeEmail: inviteeEmail,
		InviteeID:    inviteeID,
		Role:         role,
		Status:       models.InvitationPending,
		Message:      message,
	}
	if err := s.db.Create(invitation).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Preload("Household").Preload("Inviter").Where("id = ?", invitation.ID).First(invitation).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if inviteeID != nil {
		s.notifier.Dispatch(*inviteeID, models.NotificationInvitation,
			"Household invitation",
			fmt.Sprintf("%s invited you to join %s", invitation.Inviter.Name, invitation.Household.Name),
			map[string]interface{}{
				"household_id":   householdID,
				"household_name": invitation.Household.Name,
				"role":           string(role),
			}, &invitation.ID)
	}

	return invitation, nil
}

// GetHouseholdInvitations lists a household's invitations, newest first.
func (s *invitationService) GetHouseholdInvitations(userID, householdID string, page pagination.PageRequest) (*pagination.PageResponse[models.Invitation], error) {
	member, err := membershipFor(s.db, userID, householdID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(member.Role, authz.InviteMembers) {
		return nil, apperrors.ErrForbidden
	}

	page.Defaults()

	query := s.db.Model(&models.Invitation{}).Where("household_id = ?", householdID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var invitations []models.Invitation
	err = query.Preload("Inviter").Preload("Invitee").
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&invitations).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(invitations, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetPendingInvitationsForUser lists pending invitations addressed to the
// user, matched by linked account or by email. Covers invitations sent
// before the invitee registered.
func (s *invitationService) GetPendingInvitationsForUser(userID string) ([]models.Invitation, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var invitations []models.Invitation
	err := s.db.Preload("Household").Preload("Inviter").
		Where("status = ? AND (invitee_id = ? OR invitee_email = ?)", models.InvitationPending, userID, user.Email).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invitations, nil
}

// getInvitation loads an invitation with its household.
func (s *invitationService) getInvitation(invitationID string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := s.db.Preload("Household").Where("id = ?", invitationID).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvitationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &invitation, nil
}

// isInvitee reports whether the user is the addressee of the invitation,
// by linked account or by email.
func (s *invitationService) isInvitee(user *models.User, invitation *models.Invitation) bool {
	if invitation.InviteeID != nil && *invitation.InviteeID == user.ID {
		return true
	}
	return invitation.InviteeEmail == user.Email
}

// AcceptInvitation resolves a pending invitation into a membership.
// The status change and the member row are committed atomically; the
// inviter's notification is best-effort after the commit.
func (s *invitationService) AcceptInvitation(userID, invitationID string) (*models.Invitation, error) {
	invitation, err := s.getInvitation(invitationID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !s.isInvitee(&user, invitation) {
		return nil, apperrors.ErrInvitationNotForUser
	}
	if invitation.Status.IsTerminal() {
		return nil, apperrors.ErrInvitationNotPending
	}

	var existing int64
	s.db.Model(&models.HouseholdMember{}).
		Where("household_id = ? AND user_id = ?", invitation.HouseholdID, userID).
		Count(&existing)
	if existing > 0 {
		return nil, apperrors.ErrDuplicateMember
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(invitation).Updates(map[string]interface{}{
			"status":     models.InvitationAccepted,
			"invitee_id": userID,
		}).Error; err != nil {
			return err
		}
		member := &models.HouseholdMember{
			HouseholdID: invitation.HouseholdID,
			UserID:      userID,
			Role:        invitation.Role,
			JoinedAt:    time.Now(),
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	invitation.Status = models.InvitationAccepted
	invitation.InviteeID = &userID

	s.notifier.Dispatch(invitation.InviterID, models.NotificationInvitationAccepted,
		"Invitation accepted",
		fmt.Sprintf("%s joined %s", user.Name, invitation.Household.Name),
		map[string]interface{}{
			"household_id": invitation.HouseholdID,
			"user_id":      userID,
		}, &invitation.ID)

	return invitation, nil
}

// RejectInvitation declines a pending invitation. The invitee link is
// backfilled so the household can see who declined.
func (s *invitationService) RejectInvitation(userID, invitationID string) (*models.Invitation, error) {
	invitation, err := s.getInvitation(invitationID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !s.isInvitee(&user, invitation) {
		return nil, apperrors.ErrInvitationNotForUser
	}
	if invitation.Status.IsTerminal() {
		return nil, apperrors.ErrInvitationNotPending
	}

	if err := s.db.Model(invitation).Updates(map[string]interface{}{
		"status":     models.InvitationRejected,
		"invitee_id": userID,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	invitation.Status = models.InvitationRejected
	invitation.InviteeID = &userID

	// Same type as acceptance; the message carries the outcome.
	s.notifier.Dispatch(invitation.InviterID, models.NotificationInvitationAccepted,
		"Invitation declined",
		fmt.Sprintf("%s declined your invitation", user.Name),
		map[string]interface{}{
			"household_id": invitation.HouseholdID,
			"user_id":      userID,
		}, &invitation.ID)

	return invitation, nil
}

// CancelInvitation withdraws a pending invitation. The inviter or any
// household member with invite rights may cancel.
func (s *invitationService) CancelInvitation(userID, invitationID string) (*models.Invitation, error) {
	invitation, err := s.getInvitation(invitationID)
	if err != nil {
		return nil, err
	}

	if invitation.InviterID != userID {
		member, err := membershipFor(s.db, userID, invitation.HouseholdID)
		if err != nil {
			return nil, err
		}
		if !authz.Can(member.Role, authz.InviteMembers) {
			return nil, apperrors.ErrForbidden
		}
	}
	if invitation.Status.IsTerminal() {
		return nil, apperrors.ErrInvitationNotPending
	}

	if err := s.db.Model(invitation).Update("status", models.InvitationCancelled).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	invitation.Status = models.InvitationCancelled

	return invitation, nil
}

// DeleteInvitation hard-deletes an invitation from the household's
// history, whatever its status. Administrative cleanup, not a state
// transition: deleting a pending invitation leaves no cancelled record.
func (s *invitationService) DeleteInvitation(userID, invitationID string) error {
	invitation, err := s.getInvitation(invitationID)
	if err != nil {
		return err
	}

	member, err := membershipFor(s.db, userID, invitation.HouseholdID)
	if err != nil {
		return err
	}
	if !authz.Can(member.Role, authz.InviteMembers) {
		return apperrors.ErrForbidden
	}

	if err := s.db.Unscoped().Delete(invitation).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// PurgeTerminal hard-deletes terminal invitations older than the cutoff.
// Intended for the maintenance endpoint; returns the number removed.
func (s *invitationService) PurgeTerminal(olderThan time.Time) (int64, error) {
	result := s.db.Unscoped().
		Where("status <> ? AND updated_at < ?", models.InvitationPending, olderThan).
		Delete(&models.Invitation{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}
