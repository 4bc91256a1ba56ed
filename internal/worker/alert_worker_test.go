package worker

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"tally/internal/amqp"
	"tally/internal/core"
	applog "tally/internal/log"
	"tally/internal/services"
	"tally/internal/storage"
)

func newTestWorker(t *testing.T) (*AlertWorker, *storage.Repository, *bytes.Buffer) {
	t.Helper()

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	var buf bytes.Buffer
	logger := applog.New(applog.Config{
		Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})

	monitor := services.NewBudgetMonitor(repo, nil)
	return NewAlertWorker(monitor, logger), repo, &buf
}

func TestHandleEntryEventWarnsOnExceededBudget(t *testing.T) {
	w, repo, buf := newTestWorker(t)
	ctx := context.Background()

	if _, err := repo.CreateBudget(ctx, 1, core.Budget{
		Category: core.CategoryFood,
		Amount:   core.Money{Cents: 10000},
		Period:   core.Monthly,
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	created, err := repo.CreateTransaction(ctx, 1, core.Transaction{
		Kind:        core.Expense,
		Description: "big shop",
		Amount:      core.Money{Cents: 15000},
		Category:    core.CategoryFood,
		Date:        core.Today(),
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	ev := amqp.NewEntryEvent(1, created.ID, amqp.ActionCreated, core.Expense)
	if err := w.HandleEntryEvent(ctx, ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Budget exceeded") {
		t.Fatalf("expected a budget exceeded warning, got:\n%s", buf.String())
	}
}

func TestHandleEntryEventSkipsIncome(t *testing.T) {
	w, _, buf := newTestWorker(t)

	ev := amqp.NewEntryEvent(1, 42, amqp.ActionCreated, core.Income)
	if err := w.HandleEntryEvent(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Skipping non-expense event") {
		t.Fatalf("expected the income event to be skipped, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Budget exceeded") {
		t.Fatal("income events must never warn")
	}
}

func TestHandleEntryEventDeletionReEvaluates(t *testing.T) {
	w, repo, buf := newTestWorker(t)
	ctx := context.Background()

	if _, err := repo.CreateBudget(ctx, 1, core.Budget{
		Category: core.CategoryFood,
		Amount:   core.Money{Cents: 10000},
		Period:   core.Monthly,
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	// The deleted entry's kind travels as expense regardless of what it
	// was, so deletions always reach the monitor.
	ev := amqp.NewEntryEvent(1, 99, amqp.ActionDeleted, core.Expense)
	if err := w.HandleEntryEvent(ctx, ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "All budgets within limits") {
		t.Fatalf("expected a within-limits evaluation, got:\n%s", buf.String())
	}
}
