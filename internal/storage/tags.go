package storage

import (
	"context"
	"fmt"

	"ledger/internal/core"
)

// UpsertTag returns the id of the tag with the given normalized name,
// creating it when missing.
func (q *Queries) UpsertTag(ctx context.Context, name string) (int64, error) {
	if _, err := q.db.ExecContext(ctx, `INSERT OR IGNORE INTO tags(name) VALUES (?)`, name); err != nil {
		return 0, fmt.Errorf("insert tag: %w", err)
	}
	var id int64
	if err := q.db.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("get tag %q: %w", name, err)
	}
	return id, nil
}

func (q *Queries) ListTags(ctx context.Context) ([]core.Tag, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []core.Tag
	for rows.Next() {
		var t core.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TagTransaction associates a tag with a transaction; repeating it is a no-op.
func (q *Queries) TagTransaction(ctx context.Context, transactionID, tagID int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO transaction_tags(transaction_id, tag_id) VALUES (?, ?)`,
		transactionID, tagID)
	if err != nil {
		return fmt.Errorf("tag transaction: %w", err)
	}
	return nil
}

func (q *Queries) TransactionTags(ctx context.Context, transactionID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT t.name FROM transaction_tags tt
		 JOIN tags t ON t.id = tt.tag_id
		 WHERE tt.transaction_id = ?
		 ORDER BY t.name ASC`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction tags: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag name: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
