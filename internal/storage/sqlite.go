package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"
	"fintrack/internal/ledger"

	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO
)

// SQLiteRepository holds the same wholesale registry snapshot as the text
// file, just in SQLite. Save replaces the complete snapshot inside one
// transaction; Load rebuilds the registry in insertion order.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
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
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load rebuilds the registry from the database, preserving profile and
// transaction insertion order.
func (r *SQLiteRepository) Load(ctx context.Context) (*ledger.Registry, error) {
	reg := ledger.NewRegistry()

	rows, err := r.db.QueryContext(ctx,
		"SELECT username, password, next_id FROM profiles ORDER BY pos")
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	type profileRow struct {
		username string
		password string
		nextID   int64
	}
	var profiles []profileRow
	for rows.Next() {
		var p profileRow
		if err := rows.Scan(&p.username, &p.password, &p.nextID); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	for _, p := range profiles {
		budgets, err := r.loadBudgets(ctx, p.username)
		if err != nil {
			return nil, err
		}
		transactions, err := r.loadTransactions(ctx, p.username)
		if err != nil {
			return nil, err
		}
		reg.Append(&ledger.Profile{
			Username:     p.username,
			Password:     p.password,
			Transactions: ledger.RestoreStore(transactions, p.nextID),
			Budgets:      budgets,
		})
	}

	slog.InfoContext(ctx, "Ledger loaded from SQLite", "profiles", reg.Len())
	return reg, nil
}

func (r *SQLiteRepository) loadBudgets(ctx context.Context, username string) (*ledger.BudgetMap, error) {
	budgets := ledger.NewBudgetMap()
	rows, err := r.db.QueryContext(ctx,
		"SELECT category, ceiling_cents FROM budgets WHERE username = ?", username)
	if err != nil {
		return nil, fmt.Errorf("query budgets for %s: %w", username, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var cents int64
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets.Set(category, core.Money{Cents: cents})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func (r *SQLiteRepository) loadTransactions(ctx context.Context, username string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, category, description, amount_cents, kind
		 FROM transactions WHERE username = ? ORDER BY pos`, username)
	if err != nil {
		return nil, fmt.Errorf("query transactions for %s: %w", username, err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var cents int64
		var kind string
		if err := rows.Scan(&t.ID, &t.Date, &t.Category, &t.Description, &cents, &kind); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount = core.Money{Cents: cents}
		k, err := core.ParseKind(kind)
		if err != nil {
			// The CHECK constraint should make this unreachable; skip the
			// row rather than poison the whole load.
			slog.WarnContext(ctx, "Skipped transaction with bad kind",
				"username", username, "id", t.ID, "kind", kind)
			continue
		}
		t.Kind = k
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Save replaces the stored snapshot with the given registry. Delete-all
// plus insert-all in one transaction mirrors the text file's wholesale
// rewrite semantics.
func (r *SQLiteRepository) Save(ctx context.Context, reg *ledger.Registry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "budgets", "profiles"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, p := range reg.All() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO profiles (username, password, next_id) VALUES (?, ?, ?)",
			p.Username, p.Password, p.Transactions.NextID()); err != nil {
			return fmt.Errorf("insert profile %s: %w", p.Username, err)
		}
		for _, cat := range p.Budgets.Categories() {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO budgets (username, category, ceiling_cents) VALUES (?, ?, ?)",
				p.Username, cat, p.Budgets.Get(cat).Cents); err != nil {
				return fmt.Errorf("insert budget %s/%s: %w", p.Username, cat, err)
			}
		}
		for _, t := range p.Transactions.All() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (username, id, date, category, description, amount_cents, kind)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				p.Username, t.ID, t.Date, t.Category, t.Description, t.Amount.Cents, t.Kind.String()); err != nil {
				return fmt.Errorf("insert transaction %s/%d: %w", p.Username, t.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite", "profiles", reg.Len())
	return nil
}
