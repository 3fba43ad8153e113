package storage

import (
	"context"
	"fmt"

	"ledger/internal/core"
)

// UpsertBudget inserts the budget or replaces amount and rollover of the
// existing one for the same month and category.
func (q *Queries) UpsertBudget(ctx context.Context, b core.BudgetEntry) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO budgets(month, category_id, amount, rollover) VALUES (?, ?, ?, ?)
		 ON CONFLICT(month, category_id) DO UPDATE SET amount = excluded.amount, rollover = excluded.rollover
		 RETURNING id`,
		b.Month.String(), b.CategoryID, int64(b.Amount), boolInt(b.Rollover)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert budget %s/%d: %w", b.Month, b.CategoryID, err)
	}
	return id, nil
}

// ListBudgets returns the month's budgets with their category names.
func (q *Queries) ListBudgets(ctx context.Context, month core.Month) ([]core.Budget, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT b.id, b.category_id, c.name, b.amount, b.rollover
		 FROM budgets b
		 JOIN categories c ON c.id = b.category_id
		 WHERE b.month = ?
		 ORDER BY c.name ASC`, month.String())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b        core.Budget
			amount   int64
			rollover int64
		)
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.CategoryName, &amount, &rollover); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Month = month
		b.Amount = core.Money(amount)
		b.Rollover = rollover != 0
		out = append(out, b)
	}
	return out, rows.Err()
}
