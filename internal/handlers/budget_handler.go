package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hestia/internal/errors"
	"hestia/internal/models"
	"hestia/internal/services"
)

// BudgetHandler handles budget entry, plan, and summary requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateEntryRequest represents the request payload for creating a budget entry.
type CreateEntryRequest struct {
	Category    models.BudgetCategory `json:"category" binding:"required,budget_category"`
	Amount      float64               `json:"amount" binding:"required,gt=0"`
	Type        models.EntryType      `json:"type" binding:"required,entry_type"`
	Description string                `json:"description" binding:"max=500"`
	Date        time.Time             `json:"date"`
}

// UpdateEntryRequest represents the request payload for editing a budget entry.
type UpdateEntryRequest struct {
	Category    *models.BudgetCategory `json:"category" binding:"omitempty,budget_category"`
	Amount      *float64               `json:"amount" binding:"omitempty,gt=0"`
	Type        *models.EntryType      `json:"type" binding:"omitempty,entry_type"`
	Description *string                `json:"description" binding:"omitempty,max=500"`
	Date        *time.Time             `json:"date"`
}

// CreatePlanRequest represents the request payload for creating a budget plan.
type CreatePlanRequest struct {
	Category  models.BudgetCategory `json:"category" binding:"required,budget_category"`
	Amount    float64               `json:"amount" binding:"required,gt=0"`
	Month     string                `json:"month" binding:"required,month"`
	Recurrent bool                  `json:"recurrent"`
}

// UpdatePlanRequest represents the request payload for editing a budget plan.
type UpdatePlanRequest struct {
	Category  *models.BudgetCategory `json:"category" binding:"omitempty,budget_category"`
	Amount    *float64               `json:"amount" binding:"omitempty,gt=0"`
	Month     *string                `json:"month" binding:"omitempty,month"`
	Recurrent *bool                  `json:"recurrent"`
}

// monthParam reads the month query parameter, defaulting to the current month.
func monthParam(c *gin.Context) string {
	if month := c.Query("month"); month != "" {
		return month
	}
	return time.Now().Format("2006-01")
}

// GetEntries lists a household's budget entries for one month.
// @Summary     Get budget entries
// @Description List a household's budget entries for one month, newest first
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Household ID"
// @Param       month query string false "Month in YYYY-MM format (default current month)"
// @Success     200 {array} models.BudgetEntry "Entries"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/budget/entries [get]
func (h *BudgetHandler) GetEntries(c *gin.Context) {
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

	entries, err := h.budgetService.GetEntries(userID, householdID, monthParam(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CreateEntry records an income or expense entry.
// @Summary     Create a budget entry
// @Description Record an income or expense entry in a household budget
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Household ID"
// @Param       request body CreateEntryRequest true "Entry details"
// @Success     201 {object} models.BudgetEntry "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/budget/entries [post]
func (h *BudgetHandler) CreateEntry(c *gin.Context) {
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

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.budgetService.CreateEntry(userID, householdID, req.Category, req.Amount, req.Type, req.Description, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// UpdateEntry edits a budget entry.
// @Summary     Update a budget entry
// @Description Edit a budget entry's fields
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       entryId path string             true "Entry ID"
// @Param       request body UpdateEntryRequest true "Fields to update"
// @Success     200 {object} models.BudgetEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/entries/{entryId} [put]
func (h *BudgetHandler) UpdateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "entryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.budgetService.UpdateEntry(userID, entryID, req.Category, req.Amount, req.Type, req.Description, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry removes a budget entry.
// @Summary     Delete a budget entry
// @Description Remove a budget entry
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       entryId path string true "Entry ID"
// @Success     204 "Entry deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/entries/{entryId} [delete]
func (h *BudgetHandler) DeleteEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "entryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteEntry(userID, entryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPlans lists the plans applying to one month.
// @Summary     Get budget plans
// @Description List the plans applying to one month, including recurrent plans
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Household ID"
// @Param       month query string false "Month in YYYY-MM format (default current month)"
// @Success     200 {array} models.BudgetPlan "Plans"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/budget/plans [get]
func (h *BudgetHandler) GetPlans(c *gin.Context) {
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

	plans, err := h.budgetService.GetPlans(userID, householdID, monthParam(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// CreatePlan allocates a planned amount to a category.
// @Summary     Create a budget plan
// @Description Allocate a planned amount to a category for one month, or every month when recurrent
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Household ID"
// @Param       request body CreatePlanRequest true "Plan details"
// @Success     201 {object} models.BudgetPlan "Plan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/budget/plans [post]
func (h *BudgetHandler) CreatePlan(c *gin.Context) {
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

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.budgetService.CreatePlan(userID, householdID, req.Category, req.Amount, req.Month, req.Recurrent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": plan})
}

// UpdatePlan edits a budget plan.
// @Summary     Update a budget plan
// @Description Edit a budget plan's fields
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       planId  path string            true "Plan ID"
// @Param       request body UpdatePlanRequest true "Fields to update"
// @Success     200 {object} models.BudgetPlan "Updated plan"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/plans/{planId} [put]
func (h *BudgetHandler) UpdatePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "planId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.budgetService.UpdatePlan(userID, planID, req.Category, req.Amount, req.Month, req.Recurrent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// DeletePlan removes a budget plan.
// @Summary     Delete a budget plan
// @Description Remove a budget plan
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       planId path string true "Plan ID"
// @Success     204 "Plan deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/plans/{planId} [delete]
func (h *BudgetHandler) DeletePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "planId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeletePlan(userID, planID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSummary returns the monthly budget summary.
// @Summary     Get monthly summary
// @Description Aggregate a month's income, expenses by category, plans, and balances
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Household ID"
// @Param       month query string false "Month in YYYY-MM format (default current month)"
// @Success     200 {object} services.MonthlySummary "Monthly summary"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/budget/summary [get]
func (h *BudgetHandler) GetSummary(c *gin.Context) {
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

	summary, err := h.budgetService.GetMonthlySummary(userID, householdID, monthParam(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetProgress returns plan-vs-actual progress per category.
// @Summary     Get category progress
// @Description Compare planned amounts against actual spending per category for one month
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Household ID"
// @Param       month query string false "Month in YYYY-MM format (default current month)"
// @Success     200 {array} services.CategoryProgress "Category progress"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/budget/progress [get]
func (h *BudgetHandler) GetProgress(c *gin.Context) {
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

	progress, err := h.budgetService.GetCategoryProgress(userID, householdID, monthParam(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
