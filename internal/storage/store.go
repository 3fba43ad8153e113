package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ledger/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultCategories is the starter set inserted on first run.
var DefaultCategories = []core.Category{
	{Name: "Vivienda", Kind: core.KindExpense},
	{Name: "Transporte", Kind: core.KindExpense},
	{Name: "Comida", Kind: core.KindExpense},
	{Name: "Servicios", Kind: core.KindExpense},
	{Name: "Salud", Kind: core.KindExpense},
	{Name: "Ocio", Kind: core.KindExpense},
	{Name: "Salario", Kind: core.KindIncome},
	{Name: "Otros ingresos", Kind: core.KindIncome},
}

// Store owns the single ledger database handle.
type Store struct {
	db      *sql.DB
	queries *Queries
	path    string
}

// Open opens the ledger at dbPath, applies pending migrations and seeds the
// default categories when the category table is empty. It is safe to call
// on every startup.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{
		db:      db,
		queries: New(db),
		path:    dbPath,
	}

	if err := s.seedCategories(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file the store was opened on.
func (s *Store) Path() string {
	return s.path
}

// Queries returns the statements bound to the shared handle.
func (s *Store) Queries() *Queries {
	return s.queries
}

// InTx runs fn as one unit of work. Every statement issued through the
// given Queries commits together, or none does if fn or the commit fails.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) seedCategories(ctx context.Context) error {
	return s.InTx(ctx, func(q *Queries) error {
		n, err := q.CountCategories(ctx)
		if err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if n > 0 {
			return nil
		}
		for _, c := range DefaultCategories {
			if _, err := q.CreateCategory(ctx, c); err != nil {
				return fmt.Errorf("seed category %s: %w", c.Name, err)
			}
		}
		slog.InfoContext(ctx, "Seeded default categories", "count", len(DefaultCategories))
		return nil
	})
}
