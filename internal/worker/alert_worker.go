// Package worker reacts to ledger change events by re-evaluating the
// affected owner's budgets and reporting every exceeded one.
package worker

import (
	"context"
	"fmt"

	"tally/internal/amqp"
	"tally/internal/core"
	applog "tally/internal/log"
	"tally/internal/services"
)

type AlertWorker struct {
	monitor *services.BudgetMonitor
	logger  *applog.Logger
}

func NewAlertWorker(monitor *services.BudgetMonitor, logger *applog.Logger) *AlertWorker {
	return &AlertWorker{
		monitor: monitor,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleEntryEvent processes a single ledger change event. Income
// creations and updates cannot push a budget over its limit, so they
// are skipped without touching the store; deletions always re-evaluate
// because the deleted entry's kind is unknown.
func (w *AlertWorker) HandleEntryEvent(ctx context.Context, ev *amqp.EntryEvent) error {
	if ev.Action != amqp.ActionDeleted && ev.Kind != core.Expense {
		w.logger.DebugContext(ctx, "Skipping non-expense event",
			applog.FieldOwnerID, ev.OwnerID,
			applog.FieldEntryID, ev.EntryID,
			applog.FieldAction, ev.Action)
		return nil
	}

	alerts, err := w.monitor.EvaluateOwner(ctx, ev.OwnerID)
	if err != nil {
		return fmt.Errorf("evaluate budgets for owner %d: %w", ev.OwnerID, err)
	}

	for _, alert := range alerts {
		w.logger.WarnContext(ctx, "Budget exceeded",
			applog.FieldOwnerID, ev.OwnerID,
			applog.FieldCategory, string(alert.Budget.Category),
			applog.FieldPeriod, string(alert.Budget.Period),
			applog.FieldAmount, alert.Budget.Amount.String(),
			applog.FieldSpent, alert.Spent.String(),
			"overrun", alert.Overrun().String())
	}

	if len(alerts) == 0 {
		w.logger.DebugContext(ctx, "All budgets within limits",
			applog.FieldOwnerID, ev.OwnerID)
	}
	return nil
}
