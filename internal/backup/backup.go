// Package backup exports and restores the whole ledger as a JSON snapshot
// and exports transactions as CSV.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"ledger/internal/log"
	"ledger/internal/storage"
)

// Version is the snapshot format written by Export.
const Version = 1

var ErrUnsupportedVersion = errors.New("unsupported backup version")

// Store is the persistence a backup reads from and restores into.
type Store interface {
	Queries() *storage.Queries
	InTx(ctx context.Context, fn func(q *storage.Queries) error) error
}

// Snapshot is the logical copy of every ledger table.
type Snapshot struct {
	Version    int                      `json:"version"`
	ExportedAt time.Time                `json:"exported_at"`
	Data       map[string][]storage.Row `json:"data"`
}

// Export reads every table in one read transaction so the snapshot is
// consistent.
func Export(ctx context.Context, store Store) (*Snapshot, error) {
	snap := &Snapshot{
		Version:    Version,
		ExportedAt: time.Now().UTC(),
		Data:       make(map[string][]storage.Row, len(storage.Tables)),
	}
	err := store.InTx(ctx, func(q *storage.Queries) error {
		for _, table := range storage.Tables {
			res, err := q.Run(ctx, "SELECT * FROM "+table+" ORDER BY rowid")
			if err != nil {
				return fmt.Errorf("export %s: %w", table, err)
			}
			snap.Data[table] = res.Rows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.ForComponent(log.ComponentBackup).InfoContext(ctx, "Backup exported",
		log.FieldOperation, log.OpExport,
		log.FieldRows, snap.rowCount())
	return snap, nil
}

func (s *Snapshot) rowCount() int {
	n := 0
	for _, rows := range s.Data {
		n += len(rows)
	}
	return n
}

// Restore replaces the content of every table with the snapshot. Tables
// missing from the snapshot end up empty. Nothing changes if any row fails.
func Restore(ctx context.Context, store Store, snap *Snapshot) error {
	if snap == nil || snap.Version != Version {
		v := 0
		if snap != nil {
			v = snap.Version
		}
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	err := store.InTx(ctx, func(q *storage.Queries) error {
		if _, err := q.Run(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
			return err
		}
		children := slices.Clone(storage.Tables)
		slices.Reverse(children)
		for _, table := range children {
			if _, err := q.Run(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, table := range storage.Tables {
			rows := snap.Data[table]
			if table == "budgets" {
				rows = latestBudgets(rows)
			}
			if err := insertRows(ctx, q, table, rows); err != nil {
				return fmt.Errorf("restore %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.ForComponent(log.ComponentBackup).InfoContext(ctx, "Backup restored",
		log.FieldOperation, log.OpRestore,
		log.FieldRows, snap.rowCount())
	return nil
}

func insertRows(ctx context.Context, q *storage.Queries, table string, rows []storage.Row) error {
	if len(rows) == 0 {
		return nil
	}
	known, err := q.Columns(ctx, table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		cols := make([]string, 0, len(row))
		for c := range row {
			if !slices.Contains(known, c) {
				return fmt.Errorf("unknown column %q", c)
			}
			cols = append(cols, c)
		}
		sort.Strings(cols)

		args := make([]any, len(cols))
		for i, c := range cols {
			args[i] = sqlValue(row[c])
		}
		stmt := fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s)",
			table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
		if _, err := q.Run(ctx, stmt, args...); err != nil {
			return err
		}
	}
	return nil
}

// latestBudgets keeps one row per (month, category_id), the one with the
// highest id. Older snapshots may hold duplicates the unique index rejects.
func latestBudgets(rows []storage.Row) []storage.Row {
	key := func(r storage.Row) string {
		return fmt.Sprint(sqlValue(r["month"]), "|", sqlValue(r["category_id"]))
	}
	id := func(r storage.Row) int64 {
		n, _ := sqlValue(r["id"]).(int64)
		return n
	}

	latest := make(map[string]int, len(rows))
	for i, r := range rows {
		if j, ok := latest[key(r)]; !ok || id(r) > id(rows[j]) {
			latest[key(r)] = i
		}
	}
	if len(latest) == len(rows) {
		return rows
	}
	out := make([]storage.Row, 0, len(latest))
	for i, r := range rows {
		if latest[key(r)] == i {
			out = append(out, r)
		}
	}
	return out
}

// sqlValue turns decoded JSON numbers back into integers where possible.
func sqlValue(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case float64:
		if n == float64(int64(n)) {
			return int64(n)
		}
	}
	return v
}

// WriteJSON encodes the snapshot.
func WriteJSON(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// ReadSnapshot decodes a snapshot, keeping numbers exact.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}
	if snap.Data == nil {
		snap.Data = map[string][]storage.Row{}
	}
	return &snap, nil
}

// WriteFile writes the snapshot to a new file in dir and returns its path.
func WriteFile(dir string, snap *Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	name := fmt.Sprintf("backup-%s-%s.json", snap.ExportedAt.Format("20060102T150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	if err := WriteJSON(f, snap); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write backup file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close backup file: %w", err)
	}
	return path, nil
}

// ReadFile reads a snapshot written by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}
