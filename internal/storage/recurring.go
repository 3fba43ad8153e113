package storage

import (
	"context"
	"database/sql"
	"fmt"

	"ledger/internal/core"
)

const recurringColumns = `r.id, r.name, r.type, r.amount, r.account_id, a.name, r.category_id, c.name,
	r.day_of_month, r.next_date, r.active, r.note`

const recurringJoins = `FROM recurring r
	JOIN accounts a ON a.id = r.account_id
	LEFT JOIN categories c ON c.id = r.category_id`

func (q *Queries) InsertRecurring(ctx context.Context, r core.Recurring) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO recurring(name, type, amount, account_id, category_id, day_of_month, next_date, active, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, string(r.Type), int64(r.Amount), r.AccountID, nullInt64(r.CategoryID),
		r.DayOfMonth, r.NextDate.String(), boolInt(r.Active), nullString(r.Note))
	if err != nil {
		return 0, fmt.Errorf("insert recurring: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetRecurring(ctx context.Context, id int64) (core.Recurring, error) {
	r, err := scanRecurring(q.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` `+recurringJoins+` WHERE r.id = ?`, id))
	if err != nil {
		return core.Recurring{}, notFound(err, "recurring", id)
	}
	return r, nil
}

// ListRecurring returns active entries first, newest first.
func (q *Queries) ListRecurring(ctx context.Context) ([]core.Recurring, error) {
	return q.queryRecurring(ctx,
		`SELECT `+recurringColumns+` `+recurringJoins+` ORDER BY r.active DESC, r.id DESC`)
}

// DueRecurring returns active entries whose next date is on or before today.
func (q *Queries) DueRecurring(ctx context.Context, today core.Date) ([]core.Recurring, error) {
	return q.queryRecurring(ctx,
		`SELECT `+recurringColumns+` `+recurringJoins+`
		 WHERE r.active = 1 AND r.next_date <= ?
		 ORDER BY r.next_date ASC, r.id ASC`, today.String())
}

func (q *Queries) queryRecurring(ctx context.Context, query string, args ...any) ([]core.Recurring, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring: %w", err)
	}
	defer rows.Close()

	var out []core.Recurring
	for rows.Next() {
		r, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) SetRecurringNextDate(ctx context.Context, id int64, next core.Date) error {
	return q.updateRecurring(ctx, id, `UPDATE recurring SET next_date = ? WHERE id = ?`, next.String())
}

func (q *Queries) SetRecurringActive(ctx context.Context, id int64, active bool) error {
	return q.updateRecurring(ctx, id, `UPDATE recurring SET active = ? WHERE id = ?`, boolInt(active))
}

func (q *Queries) updateRecurring(ctx context.Context, id int64, stmt string, value any) error {
	res, err := q.db.ExecContext(ctx, stmt, value, id)
	if err != nil {
		return fmt.Errorf("update recurring %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("recurring %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanRecurring(s scanner) (core.Recurring, error) {
	var (
		r                  core.Recurring
		typ, next          string
		amount, active     int64
		category           sql.NullInt64
		categoryName, note sql.NullString
	)
	err := s.Scan(&r.ID, &r.Name, &typ, &amount, &r.AccountID, &r.AccountName, &category,
		&categoryName, &r.DayOfMonth, &next, &active, &note)
	if err != nil {
		return core.Recurring{}, err
	}
	r.Type = core.TransactionType(typ)
	r.Amount = core.Money(amount)
	r.CategoryID = int64Ptr(category)
	r.CategoryName = categoryName.String
	r.NextDate = parseDate(next)
	r.Active = active != 0
	r.Note = note.String
	return r, nil
}
