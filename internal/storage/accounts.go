package storage

import (
	"context"
	"fmt"

	"ledger/internal/core"
)

func (q *Queries) CreateAccount(ctx context.Context, a core.Account) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts(name, type, currency, created_at) VALUES (?, ?, ?, ?)`,
		a.Name, string(a.Type), a.Currency, now())
	if err != nil {
		return 0, fmt.Errorf("insert account: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, type, currency, created_at FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return core.Account{}, notFound(err, "account", id)
	}
	return a, nil
}

// ListAccounts returns accounts newest first.
func (q *Queries) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, type, currency, created_at FROM accounts ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// TypeTotals returns the stored amounts summed per transaction type, for one
// account or, with accountID 0, for the whole ledger. Folding them with
// core.FoldBalance yields the balance.
func (q *Queries) TypeTotals(ctx context.Context, accountID int64) ([]core.Entry, error) {
	query := `SELECT type, COALESCE(SUM(amount), 0) FROM transactions`
	var args []any
	if accountID != 0 {
		query += ` WHERE account_id = ?`
		args = append(args, accountID)
	}
	query += ` GROUP BY type`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum transactions by type: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		var (
			typ    string
			amount int64
		)
		if err := rows.Scan(&typ, &amount); err != nil {
			return nil, fmt.Errorf("scan type total: %w", err)
		}
		out = append(out, core.Entry{Type: core.TransactionType(typ), Amount: core.Money(amount)})
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (core.Account, error) {
	var (
		a         core.Account
		typ       string
		createdAt string
	)
	if err := s.Scan(&a.ID, &a.Name, &typ, &a.Currency, &createdAt); err != nil {
		return core.Account{}, err
	}
	a.Type = core.AccountType(typ)
	a.CreatedAt = parseTimestamp(createdAt)
	return a, nil
}
