package models

// ItemCategory groups shopping items in the list view.
type ItemCategory string

// Item categories, matching the product catalogue.
const (
	ItemFruits     ItemCategory = "fruits"
	ItemVegetables ItemCategory = "vegetables"
	ItemMeat       ItemCategory = "meat"
	ItemFish       ItemCategory = "fish"
	ItemDairy      ItemCategory = "dairy"
	ItemBread      ItemCategory = "bread"
	ItemGrains     ItemCategory = "grains"
	ItemPasta      ItemCategory = "pasta"
	ItemCanned     ItemCategory = "canned"
	ItemFrozen     ItemCategory = "frozen"
	ItemSnacks     ItemCategory = "snacks"
	ItemSweets     ItemCategory = "sweets"
	ItemBeverages  ItemCategory = "beverages"
	ItemAlcohol    ItemCategory = "alcohol"
	ItemSpices     ItemCategory = "spices"
	ItemOils       ItemCategory = "oils"
	ItemSauces     ItemCategory = "sauces"
	ItemBaking     ItemCategory = "baking"
	ItemBaby       ItemCategory = "baby"
	ItemPet        ItemCategory = "pet"
	ItemCleaning   ItemCategory = "cleaning"
	ItemHygiene    ItemCategory = "hygiene"
	ItemCosmetics  ItemCategory = "cosmetics"
	ItemHealth     ItemCategory = "health"
	ItemHousehold  ItemCategory = "household"
	ItemOther      ItemCategory = "other"
)

// ItemCategories lists every valid shopping item category.
var ItemCategories = []ItemCategory{
	ItemFruits, ItemVegetables, ItemMeat, ItemFish, ItemDairy, ItemBread,
	ItemGrains, ItemPasta, ItemCanned, ItemFrozen, ItemSnacks, ItemSweets,
	ItemBeverages, ItemAlcohol, ItemSpices, ItemOils, ItemSauces, ItemBaking,
	ItemBaby, ItemPet, ItemCleaning, ItemHygiene, ItemCosmetics, ItemHealth,
	ItemHousehold, ItemOther,
}

// ShoppingItem is a single line on a household's shared shopping list.
// Adding an item whose trimmed, lowercased name matches an existing
// unchecked item merges into it instead of creating a new row.
type ShoppingItem struct {
	Base
	HouseholdID string       `gorm:"type:uuid;not null;index" json:"household_id"`
	AddedByID   string       `gorm:"type:uuid;not null" json:"added_by_id"`
	Name        string       `gorm:"not null" json:"name"`
	Quantity    float64      `gorm:"not null;default:1" json:"quantity"`
	Unit        string       `gorm:"size:50" json:"unit,omitempty"`
	Category    ItemCategory `json:"category,omitempty"`
	Checked     bool         `gorm:"default:false" json:"checked"`

	// Relationships
	AddedBy User `gorm:"foreignKey:AddedByID" json:"added_by,omitempty"`
}
