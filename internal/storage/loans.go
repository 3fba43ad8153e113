package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

const loanColumns = `id, direction, person, principal, interest_rate, start_date, note, status`

func (q *Queries) InsertLoan(ctx context.Context, l core.Loan) (int64, error) {
	status := l.Status
	if status == "" {
		status = core.LoanOpen
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO loans(direction, person, principal, interest_rate, start_date, note, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(l.Direction), l.Person, int64(l.Principal), l.InterestRate.InexactFloat64(),
		l.StartDate.String(), nullString(l.Note), string(status))
	if err != nil {
		return 0, fmt.Errorf("insert loan: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetLoan(ctx context.Context, id int64) (core.Loan, error) {
	l, err := scanLoan(q.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id))
	if err != nil {
		return core.Loan{}, notFound(err, "loan", id)
	}
	return l, nil
}

// ListLoans returns open loans before closed ones, newest first.
func (q *Queries) ListLoans(ctx context.Context) ([]core.Loan, error) {
	return q.queryLoans(ctx, `SELECT `+loanColumns+` FROM loans ORDER BY (status = 'open') DESC, id DESC`)
}

func (q *Queries) OpenLoans(ctx context.Context) ([]core.Loan, error) {
	return q.queryLoans(ctx, `SELECT `+loanColumns+` FROM loans WHERE status = 'open' ORDER BY id ASC`)
}

func (q *Queries) queryLoans(ctx context.Context, query string) ([]core.Loan, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	var out []core.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (q *Queries) SetLoanStatus(ctx context.Context, id int64, status core.LoanStatus) error {
	res, err := q.db.ExecContext(ctx, `UPDATE loans SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update loan %d status: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("loan %d: %w", id, ErrNotFound)
	}
	return nil
}

// InsertPayment stores the unsigned payment amount.
func (q *Queries) InsertPayment(ctx context.Context, p core.LoanPayment) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO loan_payments(loan_id, date, amount, account_id, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.LoanID, p.Date.String(), int64(p.Amount.Abs()), p.AccountID, nullString(p.Note), now())
	if err != nil {
		return 0, fmt.Errorf("insert loan payment: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) SumPayments(ctx context.Context, loanID int64) (core.Money, error) {
	paid, err := scanMoney(q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM loan_payments WHERE loan_id = ?`, loanID))
	if err != nil {
		return 0, fmt.Errorf("sum payments of loan %d: %w", loanID, err)
	}
	return paid, nil
}

func (q *Queries) ListPayments(ctx context.Context, loanID int64) ([]core.LoanPayment, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT p.id, p.loan_id, p.date, p.amount, p.account_id, a.name, p.note, p.created_at
		 FROM loan_payments p
		 JOIN accounts a ON a.id = p.account_id
		 WHERE p.loan_id = ?
		 ORDER BY p.date DESC, p.id DESC`, loanID)
	if err != nil {
		return nil, fmt.Errorf("list loan payments: %w", err)
	}
	defer rows.Close()

	var out []core.LoanPayment
	for rows.Next() {
		var (
			p               core.LoanPayment
			date, createdAt string
			amount          int64
			note            sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.LoanID, &date, &amount, &p.AccountID, &p.AccountName, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan loan payment: %w", err)
		}
		p.Date = parseDate(date)
		p.Amount = core.Money(amount)
		p.Note = note.String
		p.CreatedAt = parseTimestamp(createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanLoan(s scanner) (core.Loan, error) {
	var (
		l                            core.Loan
		direction, startDate, status string
		principal                    int64
		rate                         float64
		note                         sql.NullString
	)
	if err := s.Scan(&l.ID, &direction, &l.Person, &principal, &rate, &startDate, &note, &status); err != nil {
		return core.Loan{}, err
	}
	l.Direction = core.LoanDirection(direction)
	l.Principal = core.Money(principal)
	l.InterestRate = decimal.NewFromFloat(rate)
	l.StartDate = parseDate(startDate)
	l.Note = note.String
	l.Status = core.LoanStatus(status)
	return l, nil
}
