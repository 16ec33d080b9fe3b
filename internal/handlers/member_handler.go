package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "hestia/internal/errors"
	"hestia/internal/models"
	"hestia/internal/services"
)

// MemberHandler handles household membership requests.
type MemberHandler struct {
	memberService services.MemberServicer
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService services.MemberServicer) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// ChangeRoleRequest represents the request payload for changing a member's role.
type ChangeRoleRequest struct {
	Role models.MemberRole `json:"role" binding:"required,member_role"`
}

// GetMembers lists a household's members.
// @Summary     Get members
// @Description List all members of a household
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Household ID"
// @Success     200 {array} models.HouseholdMember "Members"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     404 {object} ErrorResponse "Household not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/members [get]
func (h *MemberHandler) GetMembers(c *gin.Context) {
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

	members, err := h.memberService.GetMembers(userID, householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// GetOwnMembership returns the caller's membership in a household.
// @Summary     Get own membership
// @Description Get the authenticated user's membership and role in a household
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Household ID"
// @Success     200 {object} models.HouseholdMember "Membership"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     404 {object} ErrorResponse "Household not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/members/me [get]
func (h *MemberHandler) GetOwnMembership(c *gin.Context) {
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

	member, err := h.memberService.GetOwnMembership(userID, householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// ChangeRole assigns a new role to a member.
// @Summary     Change a member's role
// @Description Assign a new role to a household member. Requires admin role.
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       memberId path string            true "Membership ID"
// @Param       request  body ChangeRoleRequest true "New role"
// @Success     200 {object} models.HouseholdMember "Updated membership"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /members/{memberId}/role [put]
func (h *MemberHandler) ChangeRole(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "memberId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.memberService.ChangeRole(userID, memberID, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// RemoveMember removes a member from their household.
// @Summary     Remove a member
// @Description Remove a member from the household. Admins may remove anyone but the owner; managers only plain members.
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       memberId path string true "Membership ID"
// @Success     204 "Member removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Insufficient role"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     409 {object} ErrorResponse "Owner cannot be removed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /members/{memberId} [delete]
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "memberId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.memberService.RemoveMember(userID, memberID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LeaveHousehold removes the caller's own membership.
// @Summary     Leave a household
// @Description Leave a household. The owner cannot leave their own household.
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Household ID"
// @Success     204 "Left household"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     409 {object} ErrorResponse "Owner cannot leave"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/leave [post]
func (h *MemberHandler) LeaveHousehold(c *gin.Context) {
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

	if err := h.memberService.LeaveHousehold(userID, householdID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
