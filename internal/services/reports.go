package services

import (
	"context"
	"fmt"
	"sort"

	"tally/internal/core"
)

// DashboardSummary is the net-of-month view of the ledger. TotalBalance
// is income minus expenses for the summary month, not a cumulative
// all-time balance.
type DashboardSummary struct {
	MonthlyIncome   core.Money `json:"monthly_income"`
	MonthlyExpenses core.Money `json:"monthly_expenses"`
	TotalBalance    core.Money `json:"total_balance"`
	SavingsRate     float64    `json:"savings_rate"`
}

// CategoryTotal is one category's expense sum over a date range.
type CategoryTotal struct {
	Category core.Category `json:"category"`
	Amount   core.Money    `json:"amount"`
}

// MonthlyFlow is the income/expense sum of one calendar month.
type MonthlyFlow struct {
	Month    core.YearMonth `json:"month"`
	Income   core.Money     `json:"income"`
	Expenses core.Money     `json:"expenses"`
}

// Reports is the aggregation engine. It holds no state: every call is a
// fresh read of the owner's current ledger followed by a reduction, so
// results are never staler than the last committed write. Cost scales
// with ledger size per call, which is fine at personal scale.
type Reports struct {
	store TransactionReader
}

func NewReports(store TransactionReader) *Reports {
	return &Reports{store: store}
}

// DashboardSummary reduces the calendar month containing asOf. With
// zero income the savings rate is 0, never a division by zero.
func (r *Reports) DashboardSummary(ctx context.Context, ownerID int64, asOf core.Date) (DashboardSummary, error) {
	start := asOf.StartOfMonth()
	end := asOf.EndOfMonth()

	entries, err := r.store.ListTransactions(ctx, ownerID, core.TransactionFilter{
		Start: &start,
		End:   &end,
	})
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("read month entries: %w", err)
	}

	var summary DashboardSummary
	for _, t := range entries {
		switch t.Kind {
		case core.Income:
			summary.MonthlyIncome = summary.MonthlyIncome.Add(t.Amount)
		case core.Expense:
			summary.MonthlyExpenses = summary.MonthlyExpenses.Add(t.Amount)
		}
	}

	summary.TotalBalance = summary.MonthlyIncome.Sub(summary.MonthlyExpenses)
	if summary.MonthlyIncome.Cents > 0 {
		summary.SavingsRate = float64(summary.TotalBalance.Cents) / float64(summary.MonthlyIncome.Cents) * 100
	}
	return summary, nil
}

// ExpensesByCategory sums expenses per category over [start, end],
// inclusive on both bounds. Categories with no matching expense are
// omitted rather than zero-filled. Order is amount descending with
// category name breaking ties, so repeated calls over identical data
// return identical sequences.
func (r *Reports) ExpensesByCategory(ctx context.Context, ownerID int64, start, end core.Date) ([]CategoryTotal, error) {
	kind := core.Expense
	entries, err := r.store.ListTransactions(ctx, ownerID, core.TransactionFilter{
		Start: &start,
		End:   &end,
		Kind:  &kind,
	})
	if err != nil {
		return nil, fmt.Errorf("read expense entries: %w", err)
	}

	sums := make(map[core.Category]core.Money)
	for _, t := range entries {
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for category, amount := range sums {
		out = append(out, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// IncomeVsExpenses buckets the monthCount calendar months ending with
// the current month. Only months holding at least one transaction
// appear in the series; a caller needing a gap-free series must fill
// the missing months itself. Entries are ascending by month, and a
// month with only one kind reports zero for the other.
func (r *Reports) IncomeVsExpenses(ctx context.Context, ownerID int64, monthCount int) ([]MonthlyFlow, error) {
	return r.incomeVsExpensesAsOf(ctx, ownerID, monthCount, core.Today())
}

func (r *Reports) incomeVsExpensesAsOf(ctx context.Context, ownerID int64, monthCount int, asOf core.Date) ([]MonthlyFlow, error) {
	if monthCount < 1 {
		monthCount = 1
	}

	endMonth := asOf.YearMonth()
	startMonth := endMonth.AddMonths(-(monthCount - 1))
	start := core.NewDate(startMonth.Year, int(startMonth.Month), 1)
	end := asOf.EndOfMonth()

	entries, err := r.store.ListTransactions(ctx, ownerID, core.TransactionFilter{
		Start: &start,
		End:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("read series entries: %w", err)
	}

	buckets := make(map[core.YearMonth]*MonthlyFlow)
	for _, t := range entries {
		month := t.Date.YearMonth()
		flow, ok := buckets[month]
		if !ok {
			flow = &MonthlyFlow{Month: month}
			buckets[month] = flow
		}
		switch t.Kind {
		case core.Income:
			flow.Income = flow.Income.Add(t.Amount)
		case core.Expense:
			flow.Expenses = flow.Expenses.Add(t.Amount)
		}
	}

	out := make([]MonthlyFlow, 0, len(buckets))
	for _, flow := range buckets {
		out = append(out, *flow)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out, nil
}
