package storage

import (
	"context"
	"database/sql"
	"fmt"

	"ledger/internal/core"
)

func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	return q.Count(ctx, "categories")
}

func (q *Queries) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO categories(name, parent_id, kind) VALUES (?, ?, ?)`,
		c.Name, nullInt64(c.ParentID), string(c.Kind))
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	row := q.db.QueryRowContext(ctx, `SELECT id, name, parent_id, kind FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		return core.Category{}, notFound(err, "category", id)
	}
	return c, nil
}

// ListCategories returns categories ordered by name, optionally of one kind.
func (q *Queries) ListCategories(ctx context.Context, kind core.CategoryKind) ([]core.Category, error) {
	query := `SELECT id, name, parent_id, kind FROM categories`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY name ASC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCategory removes a category. Children lose their parent and
// transactions lose their category through the foreign key actions; a
// category still used by a split cannot be deleted.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanCategory(s scanner) (core.Category, error) {
	var (
		c      core.Category
		parent sql.NullInt64
		kind   string
	)
	if err := s.Scan(&c.ID, &c.Name, &parent, &kind); err != nil {
		return core.Category{}, err
	}
	c.ParentID = int64Ptr(parent)
	c.Kind = core.CategoryKind(kind)
	return c, nil
}
