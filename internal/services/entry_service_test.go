package services

import (
	"testing"
	"time"

	apperrors "github.com/M-owl-8/ACT-sub001/internal/errors"
	"github.com/M-owl-8/ACT-sub001/internal/models"
	"github.com/M-owl-8/ACT-sub001/internal/pagination"
	"github.com/M-owl-8/ACT-sub001/internal/testutil"
)

func TestEntryService_CreateEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	service := NewEntryService(db)

	now := time.Now()

	t.Run("creates entry", func(t *testing.T) {
		entry, err := service.CreateEntry(user.ID, expense.ID, 45.90, models.CategoryTypeExpense, "groceries", now)
		testutil.AssertNoError(t, err)

		if entry.ID == 0 {
			t.Error("expected entry ID to be assigned")
		}
		if entry.Amount != 45.90 {
			t.Errorf("expected amount 45.90, got %f", entry.Amount)
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := service.CreateEntry(user.ID, expense.ID, 0, models.CategoryTypeExpense, "", now)
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)

		_, err = service.CreateEntry(user.ID, expense.ID, -5, models.CategoryTypeExpense, "", now)
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})

	t.Run("rejects type mismatch with category", func(t *testing.T) {
		_, err := service.CreateEntry(user.ID, income.ID, 10, models.CategoryTypeExpense, "", now)
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := service.CreateEntry(user.ID, expense.ID, 10, models.CategoryTypeExpense, "", time.Time{})
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})

	t.Run("rejects another user's category", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeExpense)

		_, err := service.CreateEntry(user.ID, foreign.ID, 10, models.CategoryTypeExpense, "", now)
		testutil.AssertAppError(t, err, apperrors.ErrCategoryNotFound.Code)
	})
}

func TestEntryService_GetUserEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	service := NewEntryService(db)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mustCreate := func(categoryID uint, amount float64, entryType models.CategoryType, daysOffset int) {
		t.Helper()
		_, err := service.CreateEntry(user.ID, categoryID, amount, entryType, "", base.AddDate(0, 0, daysOffset))
		testutil.AssertNoError(t, err)
	}

	mustCreate(expense.ID, 10, models.CategoryTypeExpense, 0)
	mustCreate(expense.ID, 20, models.CategoryTypeExpense, 1)
	mustCreate(income.ID, 100, models.CategoryTypeIncome, 2)

	t.Run("lists newest first", func(t *testing.T) {
		result, err := service.GetUserEntries(user.ID, pagination.PageRequest{}, EntryFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Fatalf("expected 3 entries, got %d", result.TotalItems)
		}
		if result.Data[0].Amount != 100 {
			t.Errorf("expected newest entry first (amount 100), got %f", result.Data[0].Amount)
		}
	})

	t.Run("filters by type", func(t *testing.T) {
		incomeType := models.CategoryTypeIncome
		result, err := service.GetUserEntries(user.ID, pagination.PageRequest{}, EntryFilter{Type: &incomeType})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 income entry, got %d", result.TotalItems)
		}
	})

	t.Run("filters by category", func(t *testing.T) {
		result, err := service.GetUserEntries(user.ID, pagination.PageRequest{}, EntryFilter{CategoryID: &expense.ID})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 expense entries, got %d", result.TotalItems)
		}
	})

	t.Run("filters by date range", func(t *testing.T) {
		from := base.AddDate(0, 0, 1)
		result, err := service.GetUserEntries(user.ID, pagination.PageRequest{}, EntryFilter{FromDate: &from})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 entries from day 1 on, got %d", result.TotalItems)
		}
	})

	t.Run("preloads category", func(t *testing.T) {
		result, err := service.GetUserEntries(user.ID, pagination.PageRequest{}, EntryFilter{})
		testutil.AssertNoError(t, err)

		for _, e := range result.Data {
			if e.Category == nil {
				t.Error("expected category to be preloaded")
			}
		}
	})
}

func TestEntryService_UpdateEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	service := NewEntryService(db)

	entry, err := service.CreateEntry(user.ID, category.ID, 30, models.CategoryTypeExpense, "initial", time.Now())
	testutil.AssertNoError(t, err)

	t.Run("updates provided fields only", func(t *testing.T) {
		amount := 35.5
		updated, err := service.UpdateEntry(user.ID, entry.ID, &amount, nil, nil)
		testutil.AssertNoError(t, err)

		if updated.Amount != 35.5 {
			t.Errorf("expected amount 35.5, got %f", updated.Amount)
		}
		if updated.Description != "initial" {
			t.Errorf("expected description untouched, got %q", updated.Description)
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		amount := -1.0
		_, err := service.UpdateEntry(user.ID, entry.ID, &amount, nil, nil)
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})

	t.Run("returns not found for unknown entry", func(t *testing.T) {
		_, err := service.UpdateEntry(user.ID, 99999, nil, nil, nil)
		testutil.AssertAppError(t, err, apperrors.ErrEntryNotFound.Code)
	})
}

func TestEntryService_DeleteEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	service := NewEntryService(db)

	entry := testutil.CreateTestEntry(t, db, user.ID, category.ID, models.CategoryTypeExpense, 15)

	t.Run("deletes entry", func(t *testing.T) {
		err := service.DeleteEntry(user.ID, entry.ID)
		testutil.AssertNoError(t, err)

		_, err = service.GetEntryByID(user.ID, entry.ID)
		testutil.AssertAppError(t, err, apperrors.ErrEntryNotFound.Code)
	})

	t.Run("scopes deletion to the owner", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestEntry(t, db, other.ID, category.ID, models.CategoryTypeExpense, 15)

		err := service.DeleteEntry(user.ID, foreign.ID)
		testutil.AssertAppError(t, err, apperrors.ErrEntryNotFound.Code)
	})
}

func TestEntryService_GetTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	service := NewEntryService(db)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := service.CreateEntry(user.ID, income.ID, 1000, models.CategoryTypeIncome, "salary", base)
	testutil.AssertNoError(t, err)
	_, err = service.CreateEntry(user.ID, expense.ID, 300, models.CategoryTypeExpense, "rent", base.AddDate(0, 0, 5))
	testutil.AssertNoError(t, err)
	_, err = service.CreateEntry(user.ID, expense.ID, 50, models.CategoryTypeExpense, "outside range", base.AddDate(0, 1, 0))
	testutil.AssertNoError(t, err)

	t.Run("sums entries within the period", func(t *testing.T) {
		totals, err := service.GetTotals(user.ID, base, base.AddDate(0, 0, 10))
		testutil.AssertNoError(t, err)

		if totals.Income != 1000 {
			t.Errorf("expected income 1000, got %f", totals.Income)
		}
		if totals.Expense != 300 {
			t.Errorf("expected expense 300, got %f", totals.Expense)
		}
		if totals.Net != 700 {
			t.Errorf("expected net 700, got %f", totals.Net)
		}
	})

	t.Run("empty period yields zero totals", func(t *testing.T) {
		totals, err := service.GetTotals(user.ID, base.AddDate(-1, 0, 0), base.AddDate(0, 0, -1))
		testutil.AssertNoError(t, err)

		if totals.Income != 0 || totals.Expense != 0 || totals.Net != 0 {
			t.Errorf("expected zero totals, got %+v", totals)
		}
	})
}
