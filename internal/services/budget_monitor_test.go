package services

import (
	"context"
	"testing"
	"time"

	"tally/internal/cache"
	"tally/internal/core"
)

func TestWindowResolvers(t *testing.T) {
	cases := []struct {
		name   string
		period core.Period
		today  core.Date
		start  string
		end    string
	}{
		{"weekly midweek", core.Weekly, core.NewDate(2024, 6, 12), "2024-06-10", "2024-06-16"}, // Wednesday
		{"weekly on monday", core.Weekly, core.NewDate(2024, 6, 10), "2024-06-10", "2024-06-16"},
		{"weekly on sunday", core.Weekly, core.NewDate(2024, 6, 16), "2024-06-10", "2024-06-16"},
		{"weekly across months", core.Weekly, core.NewDate(2024, 7, 1), "2024-07-01", "2024-07-07"},
		{"monthly", core.Monthly, core.NewDate(2024, 2, 15), "2024-02-01", "2024-02-29"},
		{"yearly", core.Yearly, core.NewDate(2024, 8, 20), "2024-01-01", "2024-12-31"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver, err := ResolverFor(tc.period)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			start, end := resolver.Window(tc.today)
			if start.String() != tc.start || end.String() != tc.end {
				t.Fatalf("expected [%s, %s], got [%s, %s]", tc.start, tc.end, start, end)
			}
		})
	}

	if _, err := ResolverFor("daily"); err == nil {
		t.Fatal("unknown period must have no resolver")
	}
}

func TestEvaluateOwnerAlerts(t *testing.T) {
	store := newMemStore()
	monitor := NewBudgetMonitor(store, nil)
	ctx := context.Background()
	today := core.NewDate(2024, 6, 12)

	if _, err := store.CreateBudget(ctx, 1, core.Budget{
		Category: core.CategoryFood,
		Amount:   core.Money{Cents: 10000},
		Period:   core.Monthly,
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	if _, err := store.CreateBudget(ctx, 1, core.Budget{
		Category: core.CategoryShopping,
		Amount:   core.Money{Cents: 50000},
		Period:   core.Monthly,
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	// Food spending blows the limit; shopping stays under it. Income in
	// the food category must not count as spending.
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 8000, core.NewDate(2024, 6, 3))
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 4500, core.NewDate(2024, 6, 10))
	seedEntry(t, store, 1, core.Expense, core.CategoryShopping, 20000, core.NewDate(2024, 6, 5))
	seedEntry(t, store, 1, core.Income, core.CategoryFood, 99999, core.NewDate(2024, 6, 4))
	// Previous month's food spending is outside the window.
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 99999, core.NewDate(2024, 5, 20))

	alerts, err := monitor.evaluateOwnerAsOf(ctx, 1, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d: %+v", len(alerts), alerts)
	}
	alert := alerts[0]
	if alert.Budget.Category != core.CategoryFood {
		t.Fatalf("expected a food alert, got %s", alert.Budget.Category)
	}
	if alert.Spent.Cents != 12500 {
		t.Fatalf("expected 12500 spent, got %d", alert.Spent.Cents)
	}
	if alert.Overrun().Cents != 2500 {
		t.Fatalf("expected 2500 overrun, got %d", alert.Overrun().Cents)
	}
}

func TestEvaluateOwnerExactLimitNoAlert(t *testing.T) {
	store := newMemStore()
	monitor := NewBudgetMonitor(store, nil)
	ctx := context.Background()

	if _, err := store.CreateBudget(ctx, 1, core.Budget{
		Category: core.CategoryFood,
		Amount:   core.Money{Cents: 10000},
		Period:   core.Monthly,
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 10000, core.NewDate(2024, 6, 3))

	alerts, err := monitor.evaluateOwnerAsOf(ctx, 1, core.NewDate(2024, 6, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("spending exactly at the limit must not alert, got %+v", alerts)
	}
}

func TestEvaluateOwnerDuplicateBudgets(t *testing.T) {
	store := newMemStore()
	monitor := NewBudgetMonitor(store, nil)
	ctx := context.Background()

	// Two independent limits on the same category: one exceeded, one not.
	for _, cents := range []int64{5000, 20000} {
		if _, err := store.CreateBudget(ctx, 1, core.Budget{
			Category: core.CategoryFood,
			Amount:   core.Money{Cents: cents},
			Period:   core.Monthly,
		}); err != nil {
			t.Fatalf("seed budget: %v", err)
		}
	}
	seedEntry(t, store, 1, core.Expense, core.CategoryFood, 8000, core.NewDate(2024, 6, 3))

	alerts, err := monitor.evaluateOwnerAsOf(ctx, 1, core.NewDate(2024, 6, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected exactly the tighter budget to alert, got %+v", alerts)
	}
	if alerts[0].Budget.Amount.Cents != 5000 {
		t.Fatalf("wrong budget alerted: %+v", alerts[0].Budget)
	}
}

func TestOwnerBudgetsCached(t *testing.T) {
	store := newMemStore()
	budgetCache := cache.NewLRU[[]core.Budget](8, time.Minute)
	monitor := NewBudgetMonitor(store, budgetCache)
	ctx := context.Background()
	today := core.NewDate(2024, 6, 12)

	if _, err := store.CreateBudget(ctx, 1, core.Budget{
		Category: core.CategoryFood,
		Amount:   core.Money{Cents: 10000},
		Period:   core.Monthly,
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := monitor.evaluateOwnerAsOf(ctx, 1, today); err != nil {
			t.Fatalf("evaluate %d: %v", i, err)
		}
	}
	if store.listBudgetCalls != 1 {
		t.Fatalf("expected a single budget read behind the cache, got %d", store.listBudgetCalls)
	}

	monitor.InvalidateOwner(1)
	if _, err := monitor.evaluateOwnerAsOf(ctx, 1, today); err != nil {
		t.Fatalf("evaluate after invalidation: %v", err)
	}
	if store.listBudgetCalls != 2 {
		t.Fatalf("invalidation must force a fresh read, got %d calls", store.listBudgetCalls)
	}
}
