package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "hestia/internal/errors"
	"hestia/internal/models"
	"hestia/internal/pagination"
	"hestia/internal/services"
)

// ShoppingHandler handles shopping list requests.
type ShoppingHandler struct {
	shoppingService services.ShoppingServicer
}

// NewShoppingHandler creates a new ShoppingHandler.
func NewShoppingHandler(shoppingService services.ShoppingServicer) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService}
}

// AddItemRequest represents the request payload for adding a shopping item.
type AddItemRequest struct {
	Name     string              `json:"name" binding:"required,min=1,max=200"`
	Quantity float64             `json:"quantity" binding:"omitempty,gt=0"`
	Unit     string              `json:"unit" binding:"max=50"`
	Category models.ItemCategory `json:"category" binding:"omitempty,shopping_category"`
}

// UpdateItemRequest represents the request payload for editing a shopping item.
type UpdateItemRequest struct {
	Name     string               `json:"name" binding:"omitempty,min=1,max=200"`
	Quantity *float64             `json:"quantity" binding:"omitempty,gt=0"`
	Unit     *string              `json:"unit" binding:"omitempty,max=50"`
	Category *models.ItemCategory `json:"category" binding:"omitempty,shopping_category"`
}

// GetItems lists a household's shopping items.
// @Summary     Get shopping items
// @Description List a household's shopping items, unchecked first
// @Tags        shopping
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Household ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ShoppingItem] "Paginated items"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/shopping [get]
func (h *ShoppingHandler) GetItems(c *gin.Context) {
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

	items, err := h.shoppingService.GetItems(userID, householdID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddItem adds an item to the household's shopping list.
// @Summary     Add a shopping item
// @Description Add an item to the list. Re-adding an unchecked item merges the quantities.
// @Tags        shopping
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Household ID"
// @Param       request body AddItemRequest true "Item details"
// @Success     201 {object} models.ShoppingItem "Item added or merged"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/shopping [post]
func (h *ShoppingHandler) AddItem(c *gin.Context) {
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

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.shoppingService.AddItem(userID, householdID, req.Name, req.Quantity, req.Unit, req.Category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateItem edits a shopping item.
// @Summary     Update a shopping item
// @Description Edit a shopping item's fields. Any household member may edit the shared list.
// @Tags        shopping
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       itemId  path string            true "Item ID"
// @Param       request body UpdateItemRequest true "Fields to update"
// @Success     200 {object} models.ShoppingItem "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /shopping/{itemId} [put]
func (h *ShoppingHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.shoppingService.UpdateItem(userID, itemID, req.Name, req.Quantity, req.Unit, req.Category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// ToggleItem flips an item's checked state.
// @Summary     Toggle a shopping item
// @Description Flip the checked state of a shopping item
// @Tags        shopping
// @Produce     json
// @Security    BearerAuth
// @Param       itemId path string true "Item ID"
// @Success     200 {object} models.ShoppingItem "Updated item"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /shopping/{itemId}/toggle [post]
func (h *ShoppingHandler) ToggleItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.shoppingService.ToggleItem(userID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem removes an item from the list.
// @Summary     Delete a shopping item
// @Description Remove an item from the shopping list
// @Tags        shopping
// @Produce     json
// @Security    BearerAuth
// @Param       itemId path string true "Item ID"
// @Success     204 "Item deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /shopping/{itemId} [delete]
func (h *ShoppingHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.shoppingService.DeleteItem(userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
