package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"ledger/internal/core"
)

func parseDateFlag(s string) (core.Date, error) {
	if s == "" {
		return core.Today(), nil
	}
	return core.ParseDate(s)
}

func parseMonthFlag(s string) (core.Month, error) {
	if s == "" {
		return core.Today().Month(), nil
	}
	return core.ParseMonth(s)
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// parseSplits reads "categoryID:amount" pairs separated by commas.
func parseSplits(s string) ([]core.SplitEntry, error) {
	var out []core.SplitEntry
	for _, part := range splitList(s) {
		cat, amount, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q, want category:amount", core.ErrInvalidSplit, part)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(cat), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: category %q", core.ErrInvalidSplit, cat)
		}
		m, err := core.ParseAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("split %q: %w", part, err)
		}
		out = append(out, core.SplitEntry{CategoryID: id, Amount: m})
	}
	return out, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func stdoutTable() *tabwriter.Writer {
	return newTable(os.Stdout)
}

func money(m core.Money) string {
	return m.Format(cfg.Currency)
}
