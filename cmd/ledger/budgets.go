package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"ledger/internal/core"
	"ledger/internal/services"
	"ledger/internal/storage"
)

type budgetSetCmd struct {
	month    string
	category int64
	amount   string
	rollover bool
}

func (*budgetSetCmd) Name() string     { return "budget-set" }
func (*budgetSetCmd) Synopsis() string { return "set the monthly budget of a category" }
func (*budgetSetCmd) Usage() string {
	return "ledger budget-set -category <id> -amount <amount> [-m <YYYY-MM>] [-rollover]\n"
}

func (c *budgetSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "month (YYYY-MM), defaults to the current month")
	f.Int64Var(&c.category, "category", 0, "category id")
	f.StringVar(&c.amount, "amount", "", "budget amount")
	f.BoolVar(&c.rollover, "rollover", false, "carry the unused amount over")
}

func (c *budgetSetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonthFlag(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -m: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	e := core.BudgetEntry{Month: month, CategoryID: c.category, Amount: amount, Rollover: c.rollover}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		_, err := l.Budgets.UpsertBudget(ctx, e)
		return err
	})
}

type budgetsCmd struct {
	month string
}

func (*budgetsCmd) Name() string     { return "budgets" }
func (*budgetsCmd) Synopsis() string { return "display budget progress for a month" }
func (*budgetsCmd) Usage() string    { return "ledger budgets [-m <YYYY-MM>]\n" }

func (c *budgetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "month (YYYY-MM), defaults to the current month")
}

func (c *budgetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonthFlag(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -m: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		progress, err := l.Budgets.Progress(ctx, month)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintln(w, "Category\tSpent\tBudget\tUsed\tStatus")
		for _, p := range progress {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\t%s\n",
				p.CategoryName, money(p.Spent), money(p.Amount), p.Percent, p.Status)
		}
		return w.Flush()
	})
}
