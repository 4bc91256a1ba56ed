package services

import (
	"context"
	"testing"
	"time"

	"tally/internal/core"
)

func seedEntry(t *testing.T, store *memStore, ownerID int64, kind core.Kind, category core.Category, cents int64, date core.Date) {
	t.Helper()
	_, err := store.CreateTransaction(context.Background(), ownerID, core.Transaction{
		Kind:        kind,
		Description: "seed",
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
		Currency:    core.DefaultCurrency,
	})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}
}

func TestDashboardSummary(t *testing.T) {
	store := newMemStore()
	reports := NewReports(store)
	ctx := context.Background()

	// January: 1000 salary in, 300 out. February traffic must not leak in.
	seedEntry(t, store, 1, core.Income, core.CategorySalary, 100000, core.NewDate(2024, 1, 5))
	seedEntry(t, store, 1, core.Expense, core.CategoryOther, 30000, core.NewDate(2024, 1, 20))
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 15000, core.NewDate(2024, 2, 3))
	// Another owner's January income stays invisible.
	seedEntry(t, store, 2, core.Income, core.CategorySalary, 500000, core.NewDate(2024, 1, 5))

	got, err := reports.DashboardSummary(ctx, 1, core.NewDate(2024, 1, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.MonthlyIncome.Cents != 100000 {
		t.Errorf("monthly income: expected 100000, got %d", got.MonthlyIncome.Cents)
	}
	if got.MonthlyExpenses.Cents != 30000 {
		t.Errorf("monthly expenses: expected 30000, got %d", got.MonthlyExpenses.Cents)
	}
	if got.TotalBalance.Cents != 70000 {
		t.Errorf("balance: expected 70000, got %d", got.TotalBalance.Cents)
	}
	if got.SavingsRate != 70 {
		t.Errorf("savings rate: expected 70, got %v", got.SavingsRate)
	}

	// Balance identity holds on every summary.
	if got.TotalBalance != got.MonthlyIncome.Sub(got.MonthlyExpenses) {
		t.Error("balance must equal income minus expenses")
	}
}

func TestDashboardSummaryZeroIncome(t *testing.T) {
	store := newMemStore()
	reports := NewReports(store)

	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 5000, core.NewDate(2024, 3, 10))

	got, err := reports.DashboardSummary(context.Background(), 1, core.NewDate(2024, 3, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SavingsRate != 0 {
		t.Fatalf("savings rate with zero income must be 0, got %v", got.SavingsRate)
	}
	if got.TotalBalance.Cents != -5000 {
		t.Fatalf("balance may go negative: expected -5000, got %d", got.TotalBalance.Cents)
	}
}

func TestDashboardSummaryEmptyMonth(t *testing.T) {
	store := newMemStore()
	reports := NewReports(store)

	got, err := reports.DashboardSummary(context.Background(), 1, core.NewDate(2024, 6, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (DashboardSummary{}) {
		t.Fatalf("empty month must produce the zero summary, got %+v", got)
	}
}

func TestExpensesByCategory(t *testing.T) {
	store := newMemStore()
	reports := NewReports(store)

	seedEntry(t, store, 1, core.Expense, core.CategoryOther, 30000, core.NewDate(2024, 1, 20))
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 15000, core.NewDate(2024, 2, 3))
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 2500, core.NewDate(2024, 2, 14))
	// Income never shows up in a category breakdown.
	seedEntry(t, store, 1, core.Income, core.CategorySalary, 100000, core.NewDate(2024, 1, 5))
	// Out of range.
	seedEntry(t, store, 1, core.Expense, core.CategoryShopping, 9999, core.NewDate(2023, 12, 31))

	got, err := reports.ExpensesByCategory(context.Background(), 1, core.NewDate(2024, 1, 1), core.NewDate(2024, 2, 29))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []CategoryTotal{
		{Category: core.CategoryOther, Amount: core.Money{Cents: 30000}},
		{Category: core.CategoryFood, Amount: core.Money{Cents: 17500}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestExpensesByCategoryTieBreak(t *testing.T) {
	store := newMemStore()
	reports := NewReports(store)

	// Equal sums order alphabetically by category.
	seedEntry(t, store, 1, core.Expense, core.CategoryUtilities, 5000, core.NewDate(2024, 1, 10))
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 5000, core.NewDate(2024, 1, 11))

	got, err := reports.ExpensesByCategory(context.Background(), 1, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Category != core.CategoryFood || got[1].Category != core.CategoryUtilities {
		t.Fatalf("expected alphabetical tie break, got %+v", got)
	}
}

func TestIncomeVsExpensesSparse(t *testing.T) {
	store := newMemStore()
	reports := NewReports(store)
	asOf := core.NewDate(2024, 6, 15)

	// April and June have entries, May does not. May must be absent from
	// the series, not zero-filled.
	seedEntry(t, store, 1, core.Income, core.CategorySalary, 100000, core.NewDate(2024, 4, 1))
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 20000, core.NewDate(2024, 4, 12))
	seedEntry(t, store, 1, core.Expense, core.CategoryShopping, 7500, core.NewDate(2024, 6, 2))
	// Outside the 3-month window.
	seedEntry(t, store, 1, core.Income, core.CategorySalary, 100000, core.NewDate(2024, 3, 1))

	got, err := reports.incomeVsExpensesAsOf(context.Background(), 1, 3, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []MonthlyFlow{
		{
			Month:    core.YearMonth{Year: 2024, Month: time.April},
			Income:   core.Money{Cents: 100000},
			Expenses: core.Money{Cents: 20000},
		},
		{
			Month:    core.YearMonth{Year: 2024, Month: time.June},
			Expenses: core.Money{Cents: 7500},
		},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d months, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestIncomeVsExpensesSingleKindMonths(t *testing.T) {
	store := newMemStore()
	reports := NewReports(store)
	asOf := core.NewDate(2024, 6, 15)

	// April only expenses, May only income, June both.
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 5000, core.NewDate(2024, 4, 10))
	seedEntry(t, store, 1, core.Income, core.CategorySalary, 100000, core.NewDate(2024, 5, 1))
	seedEntry(t, store, 1, core.Income, core.CategoryFreelance, 40000, core.NewDate(2024, 6, 3))
	seedEntry(t, store, 1, core.Expense, core.CategoryUtilities, 9000, core.NewDate(2024, 6, 20))

	got, err := reports.incomeVsExpensesAsOf(context.Background(), 1, 3, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []MonthlyFlow{
		{Month: core.YearMonth{Year: 2024, Month: time.April}, Expenses: core.Money{Cents: 5000}},
		{Month: core.YearMonth{Year: 2024, Month: time.May}, Income: core.Money{Cents: 100000}},
		{
			Month:    core.YearMonth{Year: 2024, Month: time.June},
			Income:   core.Money{Cents: 40000},
			Expenses: core.Money{Cents: 9000},
		},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d months, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestIncomeVsExpensesMonthCountFloor(t *testing.T) {
	store := newMemStore()
	reports := NewReports(store)
	asOf := core.NewDate(2024, 6, 15)

	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 1000, core.NewDate(2024, 6, 1))
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 1000, core.NewDate(2024, 5, 1))

	got, err := reports.incomeVsExpensesAsOf(context.Background(), 1, 0, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Month != (core.YearMonth{Year: 2024, Month: time.June}) {
		t.Fatalf("month count below 1 must clamp to the current month, got %+v", got)
	}
}

func TestIncomeVsExpensesEmptyLedger(t *testing.T) {
	store := newMemStore()
	reports := NewReports(store)

	got, err := reports.incomeVsExpensesAsOf(context.Background(), 1, 6, core.NewDate(2024, 6, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty ledger must produce an empty series, got %+v", got)
	}
}
