package storage

import (
	"context"
	"database/sql"
	"fmt"

	"ledger/internal/core"
)

const transactionColumns = `t.id, t.date, t.type, t.amount, t.account_id, t.category_id, t.note,
	t.attachment_uri, t.transfer_group, t.related_id, t.created_at, a.name, c.name`

const transactionJoins = `FROM transactions t
	JOIN accounts a ON a.id = t.account_id
	LEFT JOIN categories c ON c.id = t.category_id`

// TransactionFilter narrows ListTransactions. Zero values mean no filter.
type TransactionFilter struct {
	AccountID int64
	Limit     int
}

func (q *Queries) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions(date, type, amount, account_id, category_id, note,
			attachment_uri, transfer_group, related_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Date.String(), string(t.Type), int64(t.Amount), t.AccountID, nullInt64(t.CategoryID),
		nullString(t.Note), nullString(t.AttachmentURI), nullString(t.TransferGroup),
		nullInt64(t.RelatedID), now())
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) InsertSplit(ctx context.Context, transactionID int64, s core.SplitEntry) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO transaction_splits(transaction_id, category_id, amount) VALUES (?, ?, ?)`,
		transactionID, s.CategoryID, int64(s.Amount))
	if err != nil {
		return 0, fmt.Errorf("insert split: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` `+transactionJoins+` WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, notFound(err, "transaction", id)
	}
	return t, nil
}

// ListTransactions returns transactions newest first (date, then id).
func (q *Queries) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` ` + transactionJoins
	var args []any
	if f.AccountID != 0 {
		query += ` WHERE t.account_id = ?`
		args = append(args, f.AccountID)
	}
	query += ` ORDER BY t.date DESC, t.id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	return q.queryTransactions(ctx, query, args...)
}

// TransferLegs returns both rows sharing a transfer group.
func (q *Queries) TransferLegs(ctx context.Context, group string) ([]core.Transaction, error) {
	return q.queryTransactions(ctx,
		`SELECT `+transactionColumns+` `+transactionJoins+` WHERE t.transfer_group = ? ORDER BY t.id ASC`, group)
}

func (q *Queries) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
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
	return out, rows.Err()
}

func (q *Queries) ListSplits(ctx context.Context, transactionID int64) ([]core.Split, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT s.id, s.transaction_id, s.category_id, c.name, s.amount
		 FROM transaction_splits s
		 JOIN categories c ON c.id = s.category_id
		 WHERE s.transaction_id = ?
		 ORDER BY s.id ASC`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list splits: %w", err)
	}
	defer rows.Close()

	var out []core.Split
	for rows.Next() {
		var (
			s      core.Split
			amount int64
		)
		if err := rows.Scan(&s.ID, &s.TransactionID, &s.CategoryID, &s.CategoryName, &amount); err != nil {
			return nil, fmt.Errorf("scan split: %w", err)
		}
		s.Amount = core.Money(amount)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ExpensesByCategory sums the month's expenses per category name. A
// transaction with splits is counted only through its splits, never under
// its own category.
func (q *Queries) ExpensesByCategory(ctx context.Context, month core.Month) ([]core.CategoryAmount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT name, SUM(amount) AS total FROM (
			SELECT c.name AS name, t.amount AS amount
			FROM transactions t
			JOIN categories c ON c.id = t.category_id
			WHERE t.type = 'expense' AND substr(t.date, 1, 7) = ?
			  AND NOT EXISTS (SELECT 1 FROM transaction_splits s WHERE s.transaction_id = t.id)
			UNION ALL
			SELECT c2.name AS name, s.amount AS amount
			FROM transaction_splits s
			JOIN transactions t2 ON t2.id = s.transaction_id
			JOIN categories c2 ON c2.id = s.category_id
			WHERE t2.type = 'expense' AND substr(t2.date, 1, 7) = ?
		)
		GROUP BY name
		ORDER BY total DESC, name ASC`, month.String(), month.String())
	if err != nil {
		return nil, fmt.Errorf("aggregate expenses by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryAmount
	for rows.Next() {
		var (
			ca    core.CategoryAmount
			total int64
		)
		if err := rows.Scan(&ca.Name, &total); err != nil {
			return nil, fmt.Errorf("scan category amount: %w", err)
		}
		ca.Amount = core.Money(total)
		out = append(out, ca)
	}
	return out, rows.Err()
}

// MonthTotal sums the stored amounts of one type in a month.
func (q *Queries) MonthTotal(ctx context.Context, month core.Month, typ core.TransactionType) (core.Money, error) {
	total, err := scanMoney(q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = ? AND substr(date, 1, 7) = ?`,
		string(typ), month.String()))
	if err != nil {
		return 0, fmt.Errorf("sum %s for %s: %w", typ, month, err)
	}
	return total, nil
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		t            core.Transaction
		date, typ    string
		amount       int64
		category     sql.NullInt64
		note, attach sql.NullString
		group        sql.NullString
		related      sql.NullInt64
		createdAt    string
		categoryName sql.NullString
	)
	err := s.Scan(&t.ID, &date, &typ, &amount, &t.AccountID, &category, &note, &attach,
		&group, &related, &createdAt, &t.AccountName, &categoryName)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Date = parseDate(date)
	t.Type = core.TransactionType(typ)
	t.Amount = core.Money(amount)
	t.CategoryID = int64Ptr(category)
	t.Note = note.String
	t.AttachmentURI = attach.String
	t.TransferGroup = group.String
	t.RelatedID = int64Ptr(related)
	t.CreatedAt = parseTimestamp(createdAt)
	t.CategoryName = categoryName.String
	return t, nil
}
