package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Tables lists every backed-up table, parents before children.
var Tables = []string{
	"accounts",
	"categories",
	"tags",
	"transactions",
	"transaction_splits",
	"transaction_tags",
	"loans",
	"loan_payments",
	"budgets",
	"goals",
	"goal_contributions",
	"recurring",
	"settings",
}

// Row is one result row keyed by column name.
type Row map[string]any

// Result has the same shape for reads and writes: reads fill Rows, writes
// fill InsertID and RowsAffected.
type Result struct {
	Rows         []Row
	InsertID     int64
	RowsAffected int64
}

var returningClause = regexp.MustCompile(`\bRETURNING\b`)

// IsReadStatement reports whether the statement returns rows. Leading
// comments are skipped and writes with a RETURNING clause count as reads.
func IsReadStatement(query string) bool {
	t := strings.ToUpper(stripLeadingComments(query))
	for _, prefix := range []string{"SELECT", "PRAGMA", "WITH", "EXPLAIN", "VALUES"} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return returningClause.MatchString(t)
}

func stripLeadingComments(query string) string {
	for {
		query = strings.TrimSpace(query)
		switch {
		case strings.HasPrefix(query, "--"):
			end := strings.IndexByte(query, '\n')
			if end < 0 {
				return ""
			}
			query = query[end+1:]
		case strings.HasPrefix(query, "/*"):
			end := strings.Index(query, "*/")
			if end < 0 {
				return ""
			}
			query = query[end+2:]
		default:
			return query
		}
	}
}

// Run executes an arbitrary statement, classifying it as read or write.
func (q *Queries) Run(ctx context.Context, query string, args ...any) (Result, error) {
	if !IsReadStatement(query) {
		res, err := q.db.ExecContext(ctx, query, args...)
		if err != nil {
			return Result{}, fmt.Errorf("exec statement: %w", err)
		}
		var out Result
		out.InsertID, _ = res.LastInsertId()
		out.RowsAffected, _ = res.RowsAffected()
		return out, nil
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("query statement: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("read columns: %w", err)
	}

	out := Result{Rows: []Row{}}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, fmt.Errorf("scan row: %w", err)
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				values[i] = string(b)
			}
			row[c] = values[i]
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Columns returns the column names of a known table.
func (q *Queries) Columns(ctx context.Context, table string) ([]string, error) {
	if !isTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	res, err := q.Run(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		if name, ok := r["name"].(string); ok {
			cols = append(cols, name)
		}
	}
	return cols, nil
}

// Count returns the number of rows of a known table.
func (q *Queries) Count(ctx context.Context, table string) (int64, error) {
	if !isTable(table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int64
	if err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func isTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}
