package storage

import (
	"context"
	"database/sql"
	"fmt"

	"ledger/internal/core"
)

// The goals.saved_amount column is never written past its default nor read:
// progress always comes from contributions.

func (q *Queries) InsertGoal(ctx context.Context, g core.Goal) (int64, error) {
	var target sql.NullString
	if g.TargetDate != nil {
		target = nullString(g.TargetDate.String())
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO goals(name, target_amount, target_date, note) VALUES (?, ?, ?, ?)`,
		g.Name, int64(g.TargetAmount), target, nullString(g.Note))
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	g, err := scanGoal(q.db.QueryRowContext(ctx,
		`SELECT id, name, target_amount, target_date, note FROM goals WHERE id = ?`, id))
	if err != nil {
		return core.Goal{}, notFound(err, "goal", id)
	}
	return g, nil
}

func (q *Queries) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, target_amount, target_date, note FROM goals ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// InsertContribution stores the signed amount as given.
func (q *Queries) InsertContribution(ctx context.Context, c core.GoalContribution) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO goal_contributions(goal_id, date, amount, account_id, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.GoalID, c.Date.String(), int64(c.Amount), nullInt64(c.AccountID), nullString(c.Note), now())
	if err != nil {
		return 0, fmt.Errorf("insert goal contribution: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) SumContributions(ctx context.Context, goalID int64) (core.Money, error) {
	saved, err := scanMoney(q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM goal_contributions WHERE goal_id = ?`, goalID))
	if err != nil {
		return 0, fmt.Errorf("sum contributions of goal %d: %w", goalID, err)
	}
	return saved, nil
}

func (q *Queries) ListContributions(ctx context.Context, goalID int64) ([]core.GoalContribution, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT g.id, g.goal_id, g.date, g.amount, g.account_id, a.name, g.note, g.created_at
		 FROM goal_contributions g
		 LEFT JOIN accounts a ON a.id = g.account_id
		 WHERE g.goal_id = ?
		 ORDER BY g.date DESC, g.id DESC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list goal contributions: %w", err)
	}
	defer rows.Close()

	var out []core.GoalContribution
	for rows.Next() {
		var (
			c                 core.GoalContribution
			date, createdAt   string
			amount            int64
			account           sql.NullInt64
			accountName, note sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.GoalID, &date, &amount, &account, &accountName, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan goal contribution: %w", err)
		}
		c.Date = parseDate(date)
		c.Amount = core.Money(amount)
		c.AccountID = int64Ptr(account)
		c.AccountName = accountName.String
		c.Note = note.String
		c.CreatedAt = parseTimestamp(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanGoal(s scanner) (core.Goal, error) {
	var (
		g          core.Goal
		target     int64
		date, note sql.NullString
	)
	if err := s.Scan(&g.ID, &g.Name, &target, &date, &note); err != nil {
		return core.Goal{}, err
	}
	g.TargetAmount = core.Money(target)
	if date.Valid && date.String != "" {
		if d, err := core.ParseDate(date.String); err == nil {
			g.TargetDate = &d
		}
	}
	g.Note = note.String
	return g, nil
}
