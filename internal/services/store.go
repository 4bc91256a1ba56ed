// Package services holds the business logic of the ledger: the write
// orchestration service, the aggregation engine and the budget monitor.
package services

import (
	"context"

	"tally/internal/core"
)

// Store is the ledger store contract the services operate against.
// *storage.Repository satisfies it; tests use in-memory fakes.
//
// All methods are owner-scoped: rows of other owners are invisible, and
// a foreign-owned id behaves exactly like an absent one.
type Store interface {
	CreateTransaction(ctx context.Context, ownerID int64, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, ownerID int64, filter core.TransactionFilter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, ownerID, id int64, patch core.TransactionPatch) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id int64) (bool, error)

	CreateBudget(ctx context.Context, ownerID int64, b core.Budget) (core.Budget, error)
	ListBudgets(ctx context.Context, ownerID int64) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, ownerID, id int64, patch core.BudgetPatch) (core.Budget, error)
	DeleteBudget(ctx context.Context, ownerID, id int64) (bool, error)

	CreateGoal(ctx context.Context, ownerID int64, g core.Goal) (core.Goal, error)
	ListGoals(ctx context.Context, ownerID int64) ([]core.Goal, error)
	UpdateGoal(ctx context.Context, ownerID, id int64, patch core.GoalPatch) (core.Goal, error)
	AddGoalFunds(ctx context.Context, ownerID, id int64, delta core.Money) (core.Goal, error)
	DeleteGoal(ctx context.Context, ownerID, id int64) (bool, error)

	UpsertOwnerProfile(ctx context.Context, profile core.OwnerProfile) (core.OwnerProfile, error)
}

// TransactionReader is the slice of the store the aggregation engine
// needs.
type TransactionReader interface {
	ListTransactions(ctx context.Context, ownerID int64, filter core.TransactionFilter) ([]core.Transaction, error)
}
