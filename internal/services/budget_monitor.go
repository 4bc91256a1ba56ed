// This file implements the Strategy Pattern for budget period windows.
// Each period type (weekly, monthly, yearly) has its own strategy that
// resolves the date window a budget limit currently applies to.

package services

import (
	"context"
	"fmt"
	"strconv"

	"tally/internal/cache"
	"tally/internal/core"
)

// WindowResolver is the strategy interface mapping a budget period to
// the inclusive date window the limit covers right now.
type WindowResolver interface {
	// Window returns the first and last day of the period containing today.
	Window(today core.Date) (start, end core.Date)
}

// WeeklyWindow resolves the Monday-to-Sunday week containing today.
type WeeklyWindow struct{}

func (WeeklyWindow) Window(today core.Date) (core.Date, core.Date) {
	// time.Weekday puts Sunday at 0; shift so the week starts on Monday
	offset := (int(today.Weekday()) + 6) % 7
	start := core.NewDate(today.Year(), int(today.Month()), today.Day()-offset)
	end := core.NewDate(start.Year(), int(start.Month()), start.Day()+6)
	return start, end
}

// MonthlyWindow resolves the calendar month containing today.
type MonthlyWindow struct{}

func (MonthlyWindow) Window(today core.Date) (core.Date, core.Date) {
	return today.StartOfMonth(), today.EndOfMonth()
}

// YearlyWindow resolves the calendar year containing today.
type YearlyWindow struct{}

func (YearlyWindow) Window(today core.Date) (core.Date, core.Date) {
	return core.NewDate(today.Year(), 1, 1), core.NewDate(today.Year(), 12, 31)
}

// ResolverFor returns the window strategy for a budget period.
func ResolverFor(period core.Period) (WindowResolver, error) {
	switch period {
	case core.Weekly:
		return WeeklyWindow{}, nil
	case core.Monthly:
		return MonthlyWindow{}, nil
	case core.Yearly:
		return YearlyWindow{}, nil
	default:
		return nil, fmt.Errorf("no window resolver for period %q: %w", period, core.ErrInvalidPeriod)
	}
}

// BudgetAlert reports one exceeded budget.
type BudgetAlert struct {
	Budget core.Budget
	Spent  core.Money
}

// Overrun returns how far past the limit spending has gone.
func (a BudgetAlert) Overrun() core.Money {
	return a.Spent.Sub(a.Budget.Amount)
}

// BudgetMonitor evaluates an owner's category budgets against current
// spending. Budget rows are cached per owner with a short TTL since
// they change far less often than transactions; spending itself is
// always re-read fresh. Duplicate budgets for one category are
// evaluated independently, never merged.
type BudgetMonitor struct {
	store   Store
	budgets cache.Cache[[]core.Budget]
}

func NewBudgetMonitor(store Store, budgets cache.Cache[[]core.Budget]) *BudgetMonitor {
	return &BudgetMonitor{
		store:   store,
		budgets: budgets,
	}
}

// EvaluateOwner returns one alert per budget whose window spending
// exceeds its limit, as of today.
func (m *BudgetMonitor) EvaluateOwner(ctx context.Context, ownerID int64) ([]BudgetAlert, error) {
	return m.evaluateOwnerAsOf(ctx, ownerID, core.Today())
}

func (m *BudgetMonitor) evaluateOwnerAsOf(ctx context.Context, ownerID int64, today core.Date) ([]BudgetAlert, error) {
	budgets, err := m.ownerBudgets(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}

	var alerts []BudgetAlert
	for _, b := range budgets {
		resolver, err := ResolverFor(b.Period)
		if err != nil {
			return nil, err
		}
		start, end := resolver.Window(today)

		spent, err := m.categorySpend(ctx, ownerID, b.Category, start, end)
		if err != nil {
			return nil, fmt.Errorf("sum spending for %s: %w", b.Category, err)
		}
		if spent.Cents > b.Amount.Cents {
			alerts = append(alerts, BudgetAlert{Budget: b, Spent: spent})
		}
	}
	return alerts, nil
}

// InvalidateOwner drops the cached budget rows for an owner. Called
// after budget mutations so the next evaluation sees them.
func (m *BudgetMonitor) InvalidateOwner(ownerID int64) {
	if m.budgets != nil {
		m.budgets.Delete(ownerCacheKey(ownerID))
	}
}

func (m *BudgetMonitor) ownerBudgets(ctx context.Context, ownerID int64) ([]core.Budget, error) {
	cacheKey := ownerCacheKey(ownerID)
	if m.budgets != nil {
		if cached, ok := m.budgets.Get(cacheKey); ok {
			return cached, nil
		}
	}

	budgets, err := m.store.ListBudgets(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if m.budgets != nil {
		m.budgets.Set(cacheKey, budgets)
	}
	return budgets, nil
}

func (m *BudgetMonitor) categorySpend(ctx context.Context, ownerID int64, category core.Category, start, end core.Date) (core.Money, error) {
	kind := core.Expense
	entries, err := m.store.ListTransactions(ctx, ownerID, core.TransactionFilter{
		Start:    &start,
		End:      &end,
		Category: &category,
		Kind:     &kind,
	})
	if err != nil {
		return core.Money{}, err
	}

	var total core.Money
	for _, t := range entries {
		total = total.Add(t.Amount)
	}
	return total, nil
}

func ownerCacheKey(ownerID int64) string {
	return strconv.FormatInt(ownerID, 10)
}
