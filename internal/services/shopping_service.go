package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "hestia/internal/errors"
	"hestia/internal/models"
	"hestia/internal/pagination"
)

// shoppingService handles the household shopping list.
type shoppingService struct {
	db *gorm.DB
}

// NewShoppingService creates a new ShoppingServicer.
func NewShoppingService(db *gorm.DB) ShoppingServicer {
	return &shoppingService{db: db}
}

// GetItems lists a household's shopping items, unchecked first and newest
// within each group.
func (s *shoppingService) GetItems(userID, householdID string, page pagination.PageRequest) (*pagination.PageResponse[models.ShoppingItem], error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}

	page.Defaults()

	query := s.db.Model(&models.ShoppingItem{}).Where("household_id = ?", householdID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.ShoppingItem
	err := query.Preload("AddedBy").
		Order("checked ASC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&items).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(items, page.Page, page.PageSize, total)
	return &resp, nil
}

// AddItem adds an item to the list. When an unchecked item with the same
// name (case-insensitive, surrounding whitespace ignored) already exists,
// the quantities merge instead of creating a duplicate row. Checked items
// never merge, so re-adding a bought item starts a fresh row.
func (s *shoppingService) AddItem(userID, householdID, name string, quantity float64, unit string, category models.ItemCategory) (*models.ShoppingItem, error) {
	if _, err := membershipFor(s.db, userID, householdID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "item name is required")
	}
	if quantity <= 0 {
		quantity = 1
	}
	if category == "" {
		category = models.ItemOther
	}

	var existing models.ShoppingItem
	err := s.db.Where("household_id = ? AND checked = ? AND lower(trim(name)) = ?",
		householdID, false, strings.ToLower(name)).
		First(&existing).Error
	if err == nil {
		if err := s.db.Model(&existing).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		existing.Quantity += quantity
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	item := &models.ShoppingItem{
		HouseholdID: householdID,
		AddedByID:   userID,
		Name:        name,
		Quantity:    quantity,
		Unit:        unit,
		Category:    category,
		Checked:     false,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}

// getItem loads an item and verifies the caller's membership in its
// household.
func (s *shoppingService) getItem(userID, itemID string) (*models.ShoppingItem, error) {
	var item models.ShoppingItem
	if err := s.db.Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := membershipFor(s.db, userID, item.HouseholdID); err != nil {
		return nil, apperrors.ErrItemNotFound
	}
	return &item, nil
}

// UpdateItem edits an item's fields. Any household member may edit any
// item on the shared list.
func (s *shoppingService) UpdateItem(userID, itemID string, name string, quantity *float64, unit *string, category *models.ItemCategory) (*models.ShoppingItem, error) {
	item, err := s.getItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = strings.TrimSpace(name)
	}
	if quantity != nil {
		if *quantity <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
		}
		updates["quantity"] = *quantity
	}
	if unit != nil {
		updates["unit"] = *unit
	}
	if category != nil {
		updates["category"] = *category
	}
	if len(updates) == 0 {
		return item, nil
	}

	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}

// ToggleItem flips the checked state of an item.
func (s *shoppingService) ToggleItem(userID, itemID string) (*models.ShoppingItem, error) {
	item, err := s.getItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(item).Update("checked", !item.Checked).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	item.Checked = !item.Checked
	return item, nil
}

// DeleteItem removes an item from the list.
func (s *shoppingService) DeleteItem(userID, itemID string) error {
	item, err := s.getItem(userID, itemID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
