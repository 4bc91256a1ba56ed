// Package storage implements the ledger store on SQLite.
//
// Every read and mutation is scoped to the owner id passed by the
// caller: a row belonging to another owner behaves exactly like an
// absent row. Same-row concurrent updates are last-write-wins; each
// single-row write is atomic.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// UpsertOwnerProfile inserts the profile or overwrites the mutable
// fields of an existing one keyed by id.
func (r *Repository) UpsertOwnerProfile(ctx context.Context, profile core.OwnerProfile) (core.OwnerProfile, error) {
	if err := profile.Validate(); err != nil {
		return core.OwnerProfile{}, err
	}
	if profile.Currency == "" {
		profile.Currency = core.DefaultCurrency
	}

	now := time.Now().UTC()
	const query = `
		INSERT INTO owners (id, name, email, currency_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			currency_code = excluded.currency_code,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Name, profile.Email, profile.Currency,
		now.UnixNano(), now.UnixNano())
	if err != nil {
		return core.OwnerProfile{}, fmt.Errorf("upsert owner profile: %w", err)
	}

	return r.getOwnerProfile(ctx, profile.ID)
}

func (r *Repository) getOwnerProfile(ctx context.Context, id int64) (core.OwnerProfile, error) {
	const query = `
		SELECT id, name, email, currency_code, created_at, updated_at
		FROM owners WHERE id = ?`

	var (
		profile              core.OwnerProfile
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID, &profile.Name, &profile.Email, &profile.Currency,
		&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return core.OwnerProfile{}, core.ErrNotFound
	}
	if err != nil {
		return core.OwnerProfile{}, fmt.Errorf("get owner profile: %w", err)
	}
	profile.CreatedAt = time.Unix(0, createdAt).UTC()
	profile.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return profile, nil
}
