package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "hestia/internal/errors"
	"hestia/internal/models"
	"hestia/internal/pagination"
	"hestia/internal/services"
)

// InvitationHandler handles invitation lifecycle requests.
type InvitationHandler struct {
	invitationService services.InvitationServicer
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService services.InvitationServicer) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// SendInvitationRequest represents the request payload for sending an invitation.
type SendInvitationRequest struct {
	Email   string            `json:"email" binding:"required,email,max=255"`
	Role    models.MemberRole `json:"role" binding:"required,invitation_role"`
	Message string            `json:"message" binding:"max=500"`
}

// SendInvitation sends a household invitation by email.
// @Summary     Send an invitation
// @Description Invite someone to a household by email. Requires admin or manager role.
// @Tags        invitations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Household ID"
// @Param       request body SendInvitationRequest true "Invitation details"
// @Success     201 {object} models.Invitation "Invitation sent"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     409 {object} ErrorResponse "Duplicate invitation or member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/invitations [post]
func (h *InvitationHandler) SendInvitation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	householdID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invitation, err := h.invitationService.SendInvitation(userID, householdID, req.Email, req.Role, req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invitation": invitation})
}

// GetHouseholdInvitations lists a household's invitations.
// @Summary     Get household invitations
// @Description List a household's invitations, newest first. Requires admin or manager role.
// @Tags        invitations
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Household ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Invitation] "Paginated invitations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/invitations [get]
func (h *InvitationHandler) GetHouseholdInvitations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	householdID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invitations, err := h.invitationService.GetHouseholdInvitations(userID, householdID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitations)
}

// GetPendingInvitations lists the caller's pending invitations.
// @Summary     Get pending invitations
// @Description List pending invitations addressed to the authenticated user, by account or email
// @Tags        invitations
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Invitation "Pending invitations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invitations/pending [get]
func (h *InvitationHandler) GetPendingInvitations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitations, err := h.invitationService.GetPendingInvitationsForUser(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

// AcceptInvitation accepts a pending invitation.
// @Summary     Accept an invitation
// @Description Accept a pending invitation and join the household with the invited role
// @Tags        invitations
// @Produce     json
// @Security    BearerAuth
// @Param       invitationId path string true "Invitation ID"
// @Success     200 {object} models.Invitation "Invitation accepted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Invitation addressed to someone else"
// @Failure     404 {object} ErrorResponse "Invitation not found"
// @Failure     409 {object} ErrorResponse "Invitation already resolved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invitations/{invitationId}/accept [post]
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitationID, err := parsePathID(c, "invitationId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitation, err := h.invitationService.AcceptInvitation(userID, invitationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitation": invitation})
}

// RejectInvitation declines a pending invitation.
// @Summary     Reject an invitation
// @Description Decline a pending invitation
// @Tags        invitations
// @Produce     json
// @Security    BearerAuth
// @Param       invitationId path string true "Invitation ID"
// @Success     200 {object} models.Invitation "Invitation rejected"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Invitation addressed to someone else"
// @Failure     404 {object} ErrorResponse "Invitation not found"
// @Failure     409 {object} ErrorResponse "Invitation already resolved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invitations/{invitationId}/reject [post]
func (h *InvitationHandler) RejectInvitation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitationID, err := parsePathID(c, "invitationId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitation, err := h.invitationService.RejectInvitation(userID, invitationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitation": invitation})
}

// CancelInvitation withdraws a pending invitation.
// @Summary     Cancel an invitation
// @Description Withdraw a pending invitation. Requires invite rights in the household.
// @Tags        invitations
// @Produce     json
// @Security    BearerAuth
// @Param       invitationId path string true "Invitation ID"
// @Success     200 {object} models.Invitation "Invitation cancelled"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Invitation not found"
// @Failure     409 {object} ErrorResponse "Invitation already resolved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invitations/{invitationId}/cancel [post]
func (h *InvitationHandler) CancelInvitation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitationID, err := parsePathID(c, "invitationId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitation, err := h.invitationService.CancelInvitation(userID, invitationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitation": invitation})
}

// DeleteInvitation removes an invitation from history.
// @Summary     Delete an invitation
// @Description Permanently delete an invitation regardless of its status
// @Tags        invitations
// @Produce     json
// @Security    BearerAuth
// @Param       invitationId path string true "Invitation ID"
// @Success     204 "Invitation deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Invitation not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invitations/{invitationId} [delete]
func (h *InvitationHandler) DeleteInvitation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitationID, err := parsePathID(c, "invitationId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.invitationService.DeleteInvitation(userID, invitationID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
