package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hestia/internal/errors"
	"hestia/internal/logger"
	"hestia/internal/services"
)

// defaultPurgeAge is how long resolved invitations are kept before the
// purge removes them.
const defaultPurgeAge = 30 * 24 * time.Hour

// MaintenanceHandler handles service-to-service maintenance requests.
type MaintenanceHandler struct {
	invitationService services.InvitationServicer
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(invitationService services.InvitationServicer) *MaintenanceHandler {
	return &MaintenanceHandler{invitationService: invitationService}
}

// PurgeInvitations hard-deletes old resolved invitations.
// @Summary     Purge resolved invitations
// @Description Hard-delete accepted, rejected, and cancelled invitations older than the retention window. Requires the service API key.
// @Tags        maintenance
// @Produce     json
// @Security    ApiKeyAuth
// @Param       older_than_days query int false "Retention window in days (default 30)"
// @Success     200 {object} map[string]int64 "Number of invitations removed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Missing or invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/maintenance/purge-invitations [post]
func (h *MaintenanceHandler) PurgeInvitations(c *gin.Context) {
	age := defaultPurgeAge
	if v := c.Query("older_than_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "older_than_days must be a non-negative integer"))
			return
		}
		age = time.Duration(days) * 24 * time.Hour
	}

	removed, err := h.invitationService.PurgeTerminal(time.Now().Add(-age))
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("purged resolved invitations", "removed", removed, "older_than", age.String())

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
