package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tally/internal/core"
)

const budgetColumns = `id, owner_id, category, amount_cents, period,
	currency_code, created_at, updated_at`

func scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var (
		b                    core.Budget
		createdAt, updatedAt int64
	)
	err := row.Scan(&b.ID, &b.OwnerID, &b.Category, &b.Amount.Cents, &b.Period,
		&b.Currency, &createdAt, &updatedAt)
	if err != nil {
		return core.Budget{}, err
	}
	b.CreatedAt = time.Unix(0, createdAt).UTC()
	b.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return b, nil
}

func (r *Repository) CreateBudget(ctx context.Context, ownerID int64, b core.Budget) (core.Budget, error) {
	now := time.Now().UTC()
	b.OwnerID = ownerID
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Currency == "" {
		b.Currency = core.DefaultCurrency
	}

	const query = `
		INSERT INTO budgets (owner_id, category, amount_cents, period,
			currency_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		b.OwnerID, b.Category, b.Amount.Cents, b.Period, b.Currency,
		now.UnixNano(), now.UnixNano())
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget id: %w", err)
	}
	return b, nil
}

// ListBudgets returns the owner's budgets ordered by category. Several
// rows may carry the same category; they are independent limits.
func (r *Repository) ListBudgets(ctx context.Context, ownerID int64) ([]core.Budget, error) {
	const query = "SELECT " + budgetColumns + ` FROM budgets
		WHERE owner_id = ? ORDER BY category ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateBudget(ctx context.Context, ownerID, id int64, patch core.BudgetPatch) (core.Budget, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Budget{}, fmt.Errorf("begin update budget: %w", err)
	}
	defer tx.Rollback()

	const selectQuery = "SELECT " + budgetColumns + " FROM budgets WHERE id = ? AND owner_id = ?"
	current, err := scanBudget(tx.QueryRowContext(ctx, selectQuery, id, ownerID))
	if err == sql.ErrNoRows {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("read budget for update: %w", err)
	}

	patch.Apply(&current)
	current.UpdatedAt = time.Now().UTC()

	const updateQuery = `
		UPDATE budgets
		SET category = ?, amount_cents = ?, period = ?, currency_code = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`

	_, err = tx.ExecContext(ctx, updateQuery,
		current.Category, current.Amount.Cents, current.Period, current.Currency,
		current.UpdatedAt.UnixNano(), id, ownerID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Budget{}, fmt.Errorf("commit budget update: %w", err)
	}
	return current, nil
}

func (r *Repository) DeleteBudget(ctx context.Context, ownerID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete budget result: %w", err)
	}
	return affected > 0, nil
}
