package services

import (
	"testing"
	"time"

	"hestia/internal/models"
	"hestia/internal/testutil"
)

func TestCreateEntry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		entry, err := svc.CreateEntry(owner.ID, home.ID, models.CategoryFood, 42.50, models.EntryExpense, "groceries", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)
		if entry.CreatedByID != owner.ID {
			t.Errorf("expected creator recorded, got %s", entry.CreatedByID)
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		_, err := svc.CreateEntry(owner.ID, home.ID, models.CategoryFood, 0, models.EntryExpense, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_member_denied", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		_, err := svc.CreateEntry(outsider.ID, home.ID, models.CategoryFood, 10, models.EntryExpense, "", time.Now())
		testutil.AssertAppError(t, err, "NOT_A_MEMBER")
	})
}

func TestGetEntries(t *testing.T) {
	t.Run("month_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		testutil.CreateTestBudgetEntry(t, db, home.ID, owner.ID, models.EntryExpense, models.CategoryFood, 10, "2026-03")
		testutil.CreateTestBudgetEntry(t, db, home.ID, owner.ID, models.EntryExpense, models.CategoryFood, 20, "2026-04")

		entries, err := svc.GetEntries(owner.ID, home.ID, "2026-03")
		testutil.AssertNoError(t, err)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry in March, got %d", len(entries))
		}
		if entries[0].Amount != 10 {
			t.Errorf("expected the March entry, got amount %v", entries[0].Amount)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		_, err := svc.GetEntries(owner.ID, home.ID, "2026-13")
		testutil.AssertAppError(t, err, "INVALID_MONTH")

		_, err = svc.GetEntries(owner.ID, home.ID, "march")
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})
}

func TestGetPlans(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)

	owner := testutil.CreateTestUser(t, db)
	home := testutil.CreateTestHousehold(t, db, owner.ID)

	testutil.CreateTestBudgetPlan(t, db, home.ID, owner.ID, models.CategoryFood, 300, "2026-03", false)
	testutil.CreateTestBudgetPlan(t, db, home.ID, owner.ID, models.CategoryBills, 150, "2026-01", true)
	testutil.CreateTestBudgetPlan(t, db, home.ID, owner.ID, models.CategoryHealth, 50, "2026-04", false)

	// Month-specific plus recurrent plans apply; other months' plans do not
	plans, err := svc.GetPlans(owner.ID, home.ID, "2026-03")
	testutil.AssertNoError(t, err)
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans for March, got %d", len(plans))
	}
}

func TestGetMonthlySummary(t *testing.T) {
	t.Run("aggregates_income_expenses_and_plans", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		testutil.CreateTestBudgetEntry(t, db, home.ID, owner.ID, models.EntryIncome, models.CategoryOther, 2000, "2026-03")
		testutil.CreateTestBudgetEntry(t, db, home.ID, owner.ID, models.EntryExpense, models.CategoryFood, 300, "2026-03")
		testutil.CreateTestBudgetEntry(t, db, home.ID, owner.ID, models.EntryExpense, models.CategoryFood, 100, "2026-03")
		testutil.CreateTestBudgetEntry(t, db, home.ID, owner.ID, models.EntryExpense, models.CategoryBills, 250, "2026-03")
		testutil.CreateTestBudgetPlan(t, db, home.ID, owner.ID, models.CategoryHealth, 150, "2026-03", false)
		testutil.CreateTestBudgetPlan(t, db, home.ID, owner.ID, models.CategoryTransport, 100, "2026-01", true)

		summary, err := svc.GetMonthlySummary(owner.ID, home.ID, "2026-03")
		testutil.AssertNoError(t, err)

		if summary.TotalIncome != 2000 {
			t.Errorf("expected income 2000, got %v", summary.TotalIncome)
		}
		if summary.TotalExpenses != 650 {
			t.Errorf("expected expenses 650, got %v", summary.TotalExpenses)
		}
		if summary.TotalPlanned != 250 {
			t.Errorf("expected planned 250 (month plus recurrent), got %v", summary.TotalPlanned)
		}
		if summary.Balance != 1350 {
			t.Errorf("expected balance 1350, got %v", summary.Balance)
		}
		if summary.AvailableBalance != 1100 {
			t.Errorf("expected available balance 1100, got %v", summary.AvailableBalance)
		}
		if summary.ExpensesByCategory[models.CategoryFood] != 400 {
			t.Errorf("expected food 400, got %v", summary.ExpensesByCategory[models.CategoryFood])
		}
	})

	t.Run("empty_month_zero_initialized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		summary, err := svc.GetMonthlySummary(owner.ID, home.ID, "2026-03")
		testutil.AssertNoError(t, err)

		if len(summary.ExpensesByCategory) != len(models.BudgetCategories) {
			t.Fatalf("expected every category present, got %d", len(summary.ExpensesByCategory))
		}
		for category, amount := range summary.ExpensesByCategory {
			if amount != 0 {
				t.Errorf("expected zero for %s, got %v", category, amount)
			}
		}
	})
}

func TestGetCategoryProgress(t *testing.T) {
	t.Run("planned_vs_spent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		testutil.CreateTestBudgetPlan(t, db, home.ID, owner.ID, models.CategoryFood, 400, "2026-03", false)
		testutil.CreateTestBudgetEntry(t, db, home.ID, owner.ID, models.EntryExpense, models.CategoryFood, 100, "2026-03")
		// Spending without a plan does not appear
		testutil.CreateTestBudgetEntry(t, db, home.ID, owner.ID, models.EntryExpense, models.CategoryBills, 50, "2026-03")

		progress, err := svc.GetCategoryProgress(owner.ID, home.ID, "2026-03")
		testutil.AssertNoError(t, err)
		if len(progress) != 1 {
			t.Fatalf("expected 1 planned category, got %d", len(progress))
		}

		p := progress[0]
		if p.Category != models.CategoryFood {
			t.Errorf("expected food, got %s", p.Category)
		}
		if p.Remaining != 300 {
			t.Errorf("expected remaining 300, got %v", p.Remaining)
		}
		if p.Percentage != 25 {
			t.Errorf("expected 25%%, got %v", p.Percentage)
		}
	})

	t.Run("recurrent_and_monthly_plans_add_up", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		testutil.CreateTestBudgetPlan(t, db, home.ID, owner.ID, models.CategoryFood, 200, "2026-03", false)
		testutil.CreateTestBudgetPlan(t, db, home.ID, owner.ID, models.CategoryFood, 100, "2026-01", true)

		progress, err := svc.GetCategoryProgress(owner.ID, home.ID, "2026-03")
		testutil.AssertNoError(t, err)
		if len(progress) != 1 {
			t.Fatalf("expected 1 category, got %d", len(progress))
		}
		if progress[0].Planned != 300 {
			t.Errorf("expected combined plan 300, got %v", progress[0].Planned)
		}
	})

	t.Run("overspend_exceeds_hundred_percent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		owner := testutil.CreateTestUser(t, db)
		home := testutil.CreateTestHousehold(t, db, owner.ID)

		testutil.CreateTestBudgetPlan(t, db, home.ID, owner.ID, models.CategoryFood, 100, "2026-03", false)
		testutil.CreateTestBudgetEntry(t, db, home.ID, owner.ID, models.EntryExpense, models.CategoryFood, 150, "2026-03")

		progress, err := svc.GetCategoryProgress(owner.ID, home.ID, "2026-03")
		testutil.AssertNoError(t, err)
		if progress[0].Percentage != 150 {
			t.Errorf("expected 150%%, got %v", progress[0].Percentage)
		}
		if progress[0].Remaining != -50 {
			t.Errorf("expected remaining -50, got %v", progress[0].Remaining)
		}
	})
}

func TestUpdateAndDeletePlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)

	owner := testutil.CreateTestUser(t, db)
	outsider := testutil.CreateTestUser(t, db)
	home := testutil.CreateTestHousehold(t, db, owner.ID)

	plan, err := svc.CreatePlan(owner.ID, home.ID, models.CategoryFood, 400, "2026-03", false)
	testutil.AssertNoError(t, err)

	badMonth := "not-a-month"
	_, err = svc.UpdatePlan(owner.ID, plan.ID, nil, nil, &badMonth, nil)
	testutil.AssertAppError(t, err, "INVALID_MONTH")

	amount := 500.0
	updated, err := svc.UpdatePlan(owner.ID, plan.ID, nil, &amount, nil, nil)
	testutil.AssertNoError(t, err)
	if updated.Amount != 500 {
		t.Errorf("expected amount 500, got %v", updated.Amount)
	}

	err = svc.DeletePlan(outsider.ID, plan.ID)
	testutil.AssertAppError(t, err, "PLAN_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeletePlan(owner.ID, plan.ID))

	plans, err := svc.GetPlans(owner.ID, home.ID, "2026-03")
	testutil.AssertNoError(t, err)
	if len(plans) != 0 {
		t.Errorf("expected no plans left, got %d", len(plans))
	}
}
