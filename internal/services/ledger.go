package services

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
)

// EventPublisher publishes ledger change events. *amqp.Client satisfies
// it; a nil publisher disables eventing.
type EventPublisher interface {
	PublishEntryEvent(ctx context.Context, ev *amqp.EntryEvent) error
}

// Ledger validates and orchestrates every write to the store, and
// announces transaction mutations to the event publisher. Publish
// failures never fail the request: the store write already committed.
type Ledger struct {
	store  Store
	events EventPublisher
}

func NewLedger(store Store, events EventPublisher) *Ledger {
	return &Ledger{
		store:  store,
		events: events,
	}
}

func (l *Ledger) CreateTransaction(ctx context.Context, ownerID int64, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := l.store.CreateTransaction(ctx, ownerID, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	l.publish(ctx, amqp.NewEntryEvent(ownerID, created.ID, amqp.ActionCreated, created.Kind))
	return created, nil
}

func (l *Ledger) ListTransactions(ctx context.Context, ownerID int64, filter core.TransactionFilter) ([]core.Transaction, error) {
	return l.store.ListTransactions(ctx, ownerID, filter)
}

func (l *Ledger) UpdateTransaction(ctx context.Context, ownerID, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	if err := patch.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, err := l.store.UpdateTransaction(ctx, ownerID, id, patch)
	if err != nil {
		return core.Transaction{}, err
	}

	l.publish(ctx, amqp.NewEntryEvent(ownerID, id, amqp.ActionUpdated, updated.Kind))
	return updated, nil
}

func (l *Ledger) DeleteTransaction(ctx context.Context, ownerID, id int64) (bool, error) {
	deleted, err := l.store.DeleteTransaction(ctx, ownerID, id)
	if err != nil {
		return false, err
	}
	if deleted {
		// Kind is unknown after deletion; consumers re-derive anyway.
		l.publish(ctx, amqp.NewEntryEvent(ownerID, id, amqp.ActionDeleted, core.Expense))
	}
	return deleted, nil
}

func (l *Ledger) CreateBudget(ctx context.Context, ownerID int64, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	return l.store.CreateBudget(ctx, ownerID, b)
}

func (l *Ledger) ListBudgets(ctx context.Context, ownerID int64) ([]core.Budget, error) {
	return l.store.ListBudgets(ctx, ownerID)
}

func (l *Ledger) UpdateBudget(ctx context.Context, ownerID, id int64, patch core.BudgetPatch) (core.Budget, error) {
	if err := patch.Validate(); err != nil {
		return core.Budget{}, err
	}
	return l.store.UpdateBudget(ctx, ownerID, id, patch)
}

func (l *Ledger) DeleteBudget(ctx context.Context, ownerID, id int64) (bool, error) {
	return l.store.DeleteBudget(ctx, ownerID, id)
}

func (l *Ledger) CreateGoal(ctx context.Context, ownerID int64, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	return l.store.CreateGoal(ctx, ownerID, g)
}

func (l *Ledger) ListGoals(ctx context.Context, ownerID int64) ([]core.Goal, error) {
	return l.store.ListGoals(ctx, ownerID)
}

func (l *Ledger) UpdateGoal(ctx context.Context, ownerID, id int64, patch core.GoalPatch) (core.Goal, error) {
	if err := patch.Validate(); err != nil {
		return core.Goal{}, err
	}
	return l.store.UpdateGoal(ctx, ownerID, id, patch)
}

// AddGoalFunds moves a goal's saved amount forward by delta.
func (l *Ledger) AddGoalFunds(ctx context.Context, ownerID, id int64, delta core.Money) (core.Goal, error) {
	if delta.Cents <= 0 {
		return core.Goal{}, core.ErrInvalidDelta
	}
	return l.store.AddGoalFunds(ctx, ownerID, id, delta)
}

func (l *Ledger) DeleteGoal(ctx context.Context, ownerID, id int64) (bool, error) {
	return l.store.DeleteGoal(ctx, ownerID, id)
}

func (l *Ledger) UpsertOwnerProfile(ctx context.Context, profile core.OwnerProfile) (core.OwnerProfile, error) {
	return l.store.UpsertOwnerProfile(ctx, profile)
}

func (l *Ledger) publish(ctx context.Context, ev *amqp.EntryEvent) {
	if l.events == nil {
		return
	}
	if err := l.events.PublishEntryEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"owner_id", ev.OwnerID,
			"entry_id", ev.EntryID,
			"action", ev.Action,
			"error", err)
	}
}
