package services

import (
	"testing"

	"hestia/internal/models"
	"hestia/internal/pagination"
	"hestia/internal/testutil"
)

func TestAddItem(t *testing.T) {
	t.Run("creates_item_with_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		item, err := svc.AddItem(owner.ID, home.ID, "Bread", 0, "", "")
		testutil.AssertNoError(t, err)
		if item.Quantity != 1 {
			t.Errorf("expected default quantity 1, got %v", item.Quantity)
		}
		if item.Category != models.ItemOther {
			t.Errorf("expected default category other, got %s", item.Category)
		}
		if item.Checked {
			t.Error("expected new item unchecked")
		}
	})

	t.Run("merges_with_unchecked_duplicate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db)

		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)
		testutil.CreateTestMember(t, db, home.ID, other.ID, models.RoleMember)

		first, err := svc.AddItem(owner.ID, home.ID, "Milk", 1, "l", models.ItemDairy)
		testutil.AssertNoError(t, err)

		// Name matching ignores case and surrounding whitespace
		merged, err := svc.AddItem(other.ID, home.ID, "  milk ", 2, "l", models.ItemDairy)
		testutil.AssertNoError(t, err)
		if merged.ID != first.ID {
			t.Fatal("expected merge into the existing row")
		}
		if merged.Quantity != 3 {
			t.Errorf("expected quantity 3 after merge, got %v", merged.Quantity)
		}

		var count int64
		db.Model(&models.ShoppingItem{}).Where("household_id = ?", home.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected a single row, got %d", count)
		}
	})

	t.Run("checked_items_never_merge", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		bought, err := svc.AddItem(owner.ID, home.ID, "Eggs", 1, "", models.ItemDairy)
		testutil.AssertNoError(t, err)
		_, err = svc.ToggleItem(owner.ID, bought.ID)
		testutil.AssertNoError(t, err)

		fresh, err := svc.AddItem(owner.ID, home.ID, "Eggs", 1, "", models.ItemDairy)
		testutil.AssertNoError(t, err)
		if fresh.ID == bought.ID {
			t.Error("expected a fresh row instead of merging into a checked item")
		}
	})

	t.Run("no_merge_across_households", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db)

		owner := testutil.CreateTestUser(t, db)
		homeA := testutil.CreateTestHousehold(t, db, owner.ID)
		homeB := testutil.CreateTestHousehold(t, db, owner.ID)

		a, err := svc.AddItem(owner.ID, homeA.ID, "Rice", 1, "kg", models.ItemGrains)
		testutil.AssertNoError(t, err)
		b, err := svc.AddItem(owner.ID, homeB.ID, "Rice", 1, "kg", models.ItemGrains)
		testutil.AssertNoError(t, err)
		if a.ID == b.ID {
			t.Error("expected separate rows per household")
		}
	})

	t.Run("non_member_denied", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db)

		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		_, err := svc.AddItem(outsider.ID, home.ID, "Milk", 1, "", "")
		testutil.AssertAppError(t, err, "NOT_A_MEMBER")
	})
}

func TestGetItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewShoppingService(db)

	owner := testutil.CreateTestUser(t, db)
	home := testutil.CreateTestHousehold(t, db, owner.ID)

	checked := testutil.CreateTestShoppingItem(t, db, home.ID, owner.ID, "Old")
	testutil.AssertNoError(t, db.Model(checked).Update("checked", true).Error)
	testutil.CreateTestShoppingItem(t, db, home.ID, owner.ID, "New")

	page, err := svc.GetItems(owner.ID, home.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 2 {
		t.Fatalf("expected 2 items, got %d", page.TotalItems)
	}
	if page.Data[0].Checked {
		t.Error("expected unchecked items first")
	}
}

func TestToggleItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewShoppingService(db)

	owner := testutil.CreateTestUser(t, db)
	member := testutil.CreateTestUser(t, db)
	home := testutil.CreateTestHousehold(t, db, owner.ID)
	testutil.CreateTestMember(t, db, home.ID, member.ID, models.RoleMember)

	item := testutil.CreateTestShoppingItem(t, db, home.ID, owner.ID, "Butter")

	// Any member may toggle, not just the one who added it
	toggled, err := svc.ToggleItem(member.ID, item.ID)
	testutil.AssertNoError(t, err)
	if !toggled.Checked {
		t.Error("expected item checked")
	}

	toggled, err = svc.ToggleItem(member.ID, item.ID)
	testutil.AssertNoError(t, err)
	if toggled.Checked {
		t.Error("expected item unchecked again")
	}
}

func TestUpdateItem(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)
		item := testutil.CreateTestShoppingItem(t, db, home.ID, owner.ID, "Flour")

		quantity := 2.5
		unit := "kg"
		updated, err := svc.UpdateItem(owner.ID, item.ID, "", &quantity, &unit, nil)
		testutil.AssertNoError(t, err)
		if updated.Name != "Flour" {
			t.Errorf("expected name unchanged, got %s", updated.Name)
		}
	})

	t.Run("rejects_non_positive_quantity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)
		item := testutil.CreateTestShoppingItem(t, db, home.ID, owner.ID, "Flour")

		quantity := 0.0
		_, err := svc.UpdateItem(owner.ID, item.ID, "", &quantity, nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewShoppingService(db)

	owner := testutil.CreateTestUser(t, db)
	outsider := testutil.CreateTestUser(t, db)
	home := testutil.CreateTestHousehold(t, db, owner.ID)
	item := testutil.CreateTestShoppingItem(t, db, home.ID, owner.ID, "Soap")

	// Items are invisible outside the household
	err := svc.DeleteItem(outsider.ID, item.ID)
	testutil.AssertAppError(t, err, "ITEM_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeleteItem(owner.ID, item.ID))

	err = svc.DeleteItem(owner.ID, item.ID)
	testutil.AssertAppError(t, err, "ITEM_NOT_FOUND")
}
