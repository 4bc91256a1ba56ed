package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tally/internal/core"
)

const goalColumns = `id, owner_id, name, description, target_cents,
	current_cents, target_date, currency_code, created_at, updated_at`

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var (
		g                    core.Goal
		targetDate           string
		createdAt, updatedAt int64
	)
	err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Description, &g.Target.Cents,
		&g.Current.Cents, &targetDate, &g.Currency, &createdAt, &updatedAt)
	if err != nil {
		return core.Goal{}, err
	}
	if targetDate != "" {
		g.TargetDate, err = core.ParseDate(targetDate)
		if err != nil {
			return core.Goal{}, fmt.Errorf("decode target date %q: %w", targetDate, err)
		}
	}
	g.CreatedAt = time.Unix(0, createdAt).UTC()
	g.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return g, nil
}

func encodeTargetDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func (r *Repository) CreateGoal(ctx context.Context, ownerID int64, g core.Goal) (core.Goal, error) {
	now := time.Now().UTC()
	g.OwnerID = ownerID
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.Currency == "" {
		g.Currency = core.DefaultCurrency
	}

	const query = `
		INSERT INTO goals (owner_id, name, description, target_cents,
			current_cents, target_date, currency_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		g.OwnerID, g.Name, g.Description, g.Target.Cents, g.Current.Cents,
		encodeTargetDate(g.TargetDate), g.Currency,
		now.UnixNano(), now.UnixNano())
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	g.ID, err = res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal id: %w", err)
	}
	return g, nil
}

// ListGoals returns the owner's goals in creation order.
func (r *Repository) ListGoals(ctx context.Context, ownerID int64) ([]core.Goal, error) {
	const query = "SELECT " + goalColumns + ` FROM goals
		WHERE owner_id = ? ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateGoal(ctx context.Context, ownerID, id int64, patch core.GoalPatch) (core.Goal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Goal{}, fmt.Errorf("begin update goal: %w", err)
	}
	defer tx.Rollback()

	const selectQuery = "SELECT " + goalColumns + " FROM goals WHERE id = ? AND owner_id = ?"
	current, err := scanGoal(tx.QueryRowContext(ctx, selectQuery, id, ownerID))
	if err == sql.ErrNoRows {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("read goal for update: %w", err)
	}

	patch.Apply(&current)
	current.UpdatedAt = time.Now().UTC()

	const updateQuery = `
		UPDATE goals
		SET name = ?, description = ?, target_cents = ?, target_date = ?,
			currency_code = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`

	_, err = tx.ExecContext(ctx, updateQuery,
		current.Name, current.Description, current.Target.Cents,
		encodeTargetDate(current.TargetDate), current.Currency,
		current.UpdatedAt.UnixNano(), id, ownerID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Goal{}, fmt.Errorf("commit goal update: %w", err)
	}
	return current, nil
}

// AddGoalFunds moves the goal's current amount by delta in a single
// atomic write. Goals are independent trackers: the amount is never
// recomputed from transactions.
func (r *Repository) AddGoalFunds(ctx context.Context, ownerID, id int64, delta core.Money) (core.Goal, error) {
	now := time.Now().UTC()
	const query = `
		UPDATE goals SET current_cents = current_cents + ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`

	res, err := r.db.ExecContext(ctx, query, delta.Cents, now.UnixNano(), id, ownerID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("add goal funds: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Goal{}, fmt.Errorf("add goal funds result: %w", err)
	}
	if affected == 0 {
		return core.Goal{}, core.ErrNotFound
	}

	const selectQuery = "SELECT " + goalColumns + " FROM goals WHERE id = ? AND owner_id = ?"
	g, err := scanGoal(r.db.QueryRowContext(ctx, selectQuery, id, ownerID))
	if err != nil {
		return core.Goal{}, fmt.Errorf("read goal after add funds: %w", err)
	}
	return g, nil
}

func (r *Repository) DeleteGoal(ctx context.Context, ownerID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM goals WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete goal result: %w", err)
	}
	return affected > 0, nil
}
