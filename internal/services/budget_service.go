package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "hestia/internal/errors"
	"hestia/internal/models"
)

// budgetService handles budget entries, plans, and monthly aggregation.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// parseMonth validates a YYYY-MM string and returns the half-open interval
// [start, end) covering that calendar month.
func parseMonth(month string) (start, end time.Time, err error) {
	start, err = time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidMonth
	}
	return start, start.AddDate(0, 1, 0), nil
}

// GetEntries lists a household's entries for one month, newest first.
func (s *budgetService) GetEntries(userID, householdID, month string) ([]models.BudgetEntry, error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}
	start, end, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	var entries []models.BudgetEntry
	err = s.db.Preload("CreatedBy").
		Where("household_id = ? AND date >= ? AND date < ?", householdID, start, end).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// CreateEntry records an income or expense entry.
func (s *budgetService) CreateEntry(userID, householdID string, category models.BudgetCategory, amount float64, entryType models.EntryType, description string, date time.Time) (*models.BudgetEntry, error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if date.IsZero() {
		date = time.Now()
	}

	entry := &models.BudgetEntry{
		HouseholdID: householdID,
		CreatedByID: userID,
		Category:    category,
		Amount:      amount,
		Type:        entryType,
		Description: description,
		Date:        date,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// getEntry loads an entry and verifies the caller's membership.
func (s *budgetService) getEntry(userID, entryID string) (*models.BudgetEntry, error) {
	var entry models.BudgetEntry
	if err := s.db.Where("id = ?", entryID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := membershipFor(s.db, userID, entry.HouseholdID); err != nil {
		return nil, apperrors.ErrEntryNotFound
	}
	return &entry, nil
}

// UpdateEntry edits an entry's fields.
func (s *budgetService) UpdateEntry(userID, entryID string, category *models.BudgetCategory, amount *float64, entryType *models.EntryType, description *string, date *time.Time) (*models.BudgetEntry, error) {
	entry, err := s.getEntry(userID, entryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if category != nil {
		updates["category"] = *category
	}
	if amount != nil {
		if *amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		updates["amount"] = *amount
	}
	if entryType != nil {
		updates["type"] = *entryType
	}
	if description != nil {
		updates["description"] = *description
	}
	if date != nil {
		updates["date"] = *date
	}
	if len(updates) == 0 {
		return entry, nil
	}

	if err := s.db.Model(entry).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// DeleteEntry removes an entry.
func (s *budgetService) DeleteEntry(userID, entryID string) error {
	entry, err := s.getEntry(userID, entryID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// plansForMonth returns the plans that apply to a month: plans pinned to
// that month plus recurrent plans.
func (s *budgetService) plansForMonth(householdID, month string) ([]models.BudgetPlan, error) {
	var plans []models.BudgetPlan
	err := s.db.Where("household_id = ? AND (month = ? OR recurrent = ?)", householdID, month, true).
		Order("created_at ASC").
		Find(&plans).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return plans, nil
}

// GetPlans lists the plans applying to a month.
func (s *budgetService) GetPlans(userID, householdID, month string) ([]models.BudgetPlan, error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}
	if _, _, err := parseMonth(month); err != nil {
		return nil, err
	}
	return s.plansForMonth(householdID, month)
}

// CreatePlan allocates a planned amount to a category for one month, or
// for every month when recurrent.
func (s *budgetService) CreatePlan(userID, householdID string, category models.BudgetCategory, amount float64, month string, recurrent bool) (*models.BudgetPlan, error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if _, _, err := parseMonth(month); err != nil {
		return nil, err
	}

	plan := &models.BudgetPlan{
		HouseholdID: householdID,
		CreatedByID: userID,
		Category:    category,
		Amount:      amount,
		Month:       month,
		Recurrent:   recurrent,
	}
	if err := s.db.Create(plan).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return plan, nil
}

// getPlan loads a plan and verifies the caller's membership.
func (s *budgetService) getPlan(userID, planID string) (*models.BudgetPlan, error) {
	var plan models.BudgetPlan
	if err := s.db.Where("id = ?", planID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := membershipFor(s.db, userID, plan.HouseholdID); err != nil {
		return nil, apperrors.ErrPlanNotFound
	}
	return &plan, nil
}

// UpdatePlan edits a plan's fields.
func (s *budgetService) UpdatePlan(userID, planID string, category *models.BudgetCategory, amount *float64, month *string, recurrent *bool) (*models.BudgetPlan, error) {
	plan, err := s.getPlan(userID, planID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if category != nil {
		updates["category"] = *category
	}
	if amount != nil {
		if *amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		updates["amount"] = *amount
	}
	if month != nil {
		if _, _, err := parseMonth(*month); err != nil {
			return nil, err
		}
		updates["month"] = *month
	}
	if recurrent != nil {
		updates["recurrent"] = *recurrent
	}
	if len(updates) == 0 {
		return plan, nil
	}

	if err := s.db.Model(plan).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return plan, nil
}

// DeletePlan removes a plan.
func (s *budgetService) DeletePlan(userID, planID string) error {
	plan, err := s.getPlan(userID, planID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(plan).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetMonthlySummary aggregates a month's entries and plans. Every known
// category appears in the expense breakdown, zero when unused, so clients
// can render a stable chart. Balance is income minus expenses; the
// available balance additionally subtracts the total planned.
func (s *budgetService) GetMonthlySummary(userID, householdID, month string) (*MonthlySummary, error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}
	start, end, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	var entries []models.BudgetEntry
	err = s.db.Where("household_id = ? AND date >= ? AND date < ?", householdID, start, end).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &MonthlySummary{
		Month:              month,
		ExpensesByCategory: make(map[models.BudgetCategory]float64, len(models.BudgetCategories)),
	}
	for _, category := range models.BudgetCategories {
		summary.ExpensesByCategory[category] = 0
	}

	for _, entry := range entries {
		switch entry.Type {
		case models.EntryIncome:
			summary.TotalIncome += entry.Amount
		case models.EntryExpense:
			summary.TotalExpenses += entry.Amount
			summary.ExpensesByCategory[entry.Category] += entry.Amount
		}
	}

	plans, err := s.plansForMonth(householdID, month)
	if err != nil {
		return nil, err
	}
	for _, plan := range plans {
		summary.TotalPlanned += plan.Amount
	}

	summary.Balance = summary.TotalIncome - summary.TotalExpenses
	summary.AvailableBalance = summary.Balance - summary.TotalPlanned

	return summary, nil
}

// GetCategoryProgress compares planned amounts against actual spending per
// category. Only planned categories appear; when the same category has a
// month-specific and a recurrent plan the amounts add up.
func (s *budgetService) GetCategoryProgress(userID, householdID, month string) ([]CategoryProgress, error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}
	start, end, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	plans, err := s.plansForMonth(householdID, month)
	if err != nil {
		return nil, err
	}

	planned := make(map[models.BudgetCategory]float64)
	for _, plan := range plans {
		planned[plan.Category] += plan.Amount
	}

	var entries []models.BudgetEntry
	err = s.db.Where("household_id = ? AND type = ? AND date >= ? AND date < ?",
		householdID, models.EntryExpense, start, end).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent := make(map[models.BudgetCategory]float64)
	for _, entry := range entries {
		spent[entry.Category] += entry.Amount
	}

	// Stable output order follows the category list
	progress := make([]CategoryProgress, 0, len(planned))
	for _, category := range models.BudgetCategories {
		amount, ok := planned[category]
		if !ok || amount == 0 {
			continue
		}
		p := CategoryProgress{
			Category:  category,
			Planned:   amount,
			Spent:     spent[category],
			Remaining: amount - spent[category],
		}
		p.Percentage = p.Spent / p.Planned * 100
		progress = append(progress, p)
	}
	return progress, nil
}
