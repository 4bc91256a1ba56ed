package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tally/internal/core"
)

const transactionColumns = `id, owner_id, kind, description, amount_cents,
	category, entry_date, currency_code, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t                    core.Transaction
		entryDate            string
		createdAt, updatedAt int64
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Kind, &t.Description, &t.Amount.Cents,
		&t.Category, &entryDate, &t.Currency, &createdAt, &updatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Date, err = core.ParseDate(entryDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode entry date %q: %w", entryDate, err)
	}
	t.CreatedAt = time.Unix(0, createdAt).UTC()
	t.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return t, nil
}

// CreateTransaction inserts the entry and returns it with the assigned
// id and timestamps. The entry must already be validated.
func (r *Repository) CreateTransaction(ctx context.Context, ownerID int64, t core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	t.OwnerID = ownerID
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Currency == "" {
		t.Currency = core.DefaultCurrency
	}

	const query = `
		INSERT INTO transactions (owner_id, kind, description, amount_cents,
			category, entry_date, currency_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		t.OwnerID, t.Kind, t.Description, t.Amount.Cents,
		t.Category, t.Date.String(), t.Currency,
		now.UnixNano(), now.UnixNano())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}
	return t, nil
}

// ListTransactions returns the owner's entries ordered by date
// descending, insertion order breaking ties. Entry dates are stored as
// ISO text so lexicographic comparison is date comparison.
func (r *Repository) ListTransactions(ctx context.Context, ownerID int64, filter core.TransactionFilter) ([]core.Transaction, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + transactionColumns + " FROM transactions WHERE owner_id = ?")
	args := []any{ownerID}

	if filter.Start != nil {
		sb.WriteString(" AND entry_date >= ?")
		args = append(args, filter.Start.String())
	}
	if filter.End != nil {
		sb.WriteString(" AND entry_date <= ?")
		args = append(args, filter.End.String())
	}
	if filter.Category != nil {
		sb.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Kind != nil {
		sb.WriteString(" AND kind = ?")
		args = append(args, *filter.Kind)
	}
	sb.WriteString(" ORDER BY entry_date DESC, id ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// UpdateTransaction applies the present patch fields in one atomic row
// write and returns the updated entry. A row owned by someone else is
// indistinguishable from an absent one.
func (r *Repository) UpdateTransaction(ctx context.Context, ownerID, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin update transaction: %w", err)
	}
	defer tx.Rollback()

	const selectQuery = "SELECT " + transactionColumns + " FROM transactions WHERE id = ? AND owner_id = ?"
	current, err := scanTransaction(tx.QueryRowContext(ctx, selectQuery, id, ownerID))
	if err == sql.ErrNoRows {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("read transaction for update: %w", err)
	}

	patch.Apply(&current)
	current.UpdatedAt = time.Now().UTC()

	const updateQuery = `
		UPDATE transactions
		SET kind = ?, description = ?, amount_cents = ?, category = ?,
			entry_date = ?, currency_code = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`

	_, err = tx.ExecContext(ctx, updateQuery,
		current.Kind, current.Description, current.Amount.Cents, current.Category,
		current.Date.String(), current.Currency, current.UpdatedAt.UnixNano(),
		id, ownerID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction update: %w", err)
	}
	return current, nil
}

// DeleteTransaction removes the entry if owned by the caller and
// reports whether a row was actually removed.
func (r *Repository) DeleteTransaction(ctx context.Context, ownerID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete transaction result: %w", err)
	}
	return affected > 0, nil
}
