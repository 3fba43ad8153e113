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

type recurringAddCmd struct {
	name     string
	typ      string
	amount   string
	account  int64
	category int64
	day      int
	note     string
}

func (*recurringAddCmd) Name() string     { return "recurring-add" }
func (*recurringAddCmd) Synopsis() string { return "create a monthly recurring payment" }
func (*recurringAddCmd) Usage() string {
	return `ledger recurring-add -name <name> -amount <amount> -account <id> -day <1-31>
  [-type income|expense] [-category <id>] [-note <text>]:
  Create a monthly template and schedule its first reminder.
`
}

func (c *recurringAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "template name")
	f.StringVar(&c.typ, "type", string(core.TypeExpense), "income or expense")
	f.StringVar(&c.amount, "amount", "", "amount")
	f.Int64Var(&c.account, "account", 0, "account id")
	f.Int64Var(&c.category, "category", 0, "category id")
	f.IntVar(&c.day, "day", 1, "day of month")
	f.StringVar(&c.note, "note", "", "free text note")
}

func (c *recurringAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	e := core.RecurringEntry{
		Name:       c.name,
		Type:       core.TransactionType(c.typ),
		Amount:     amount,
		AccountID:  c.account,
		CategoryID: optionalID(c.category),
		DayOfMonth: c.day,
		Note:       c.note,
	}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		id, err := l.Recurring.CreateRecurring(ctx, e)
		if err != nil {
			return err
		}
		fmt.Printf("Created recurring payment %d\n", id)
		return nil
	})
}

type recurringCmd struct{}

func (*recurringCmd) Name() string             { return "recurring" }
func (*recurringCmd) Synopsis() string         { return "list recurring payments" }
func (*recurringCmd) Usage() string            { return "ledger recurring\n" }
func (*recurringCmd) SetFlags(*flag.FlagSet) {}

func (*recurringCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		items, err := l.Recurring.ListRecurring(ctx)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintln(w, "ID\tName\tType\tAmount\tAccount\tDay\tNext\tActive")
		for _, r := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%t\n",
				r.ID, r.Name, r.Type, money(r.Amount), r.AccountName, r.DayOfMonth, r.NextDate, r.Active)
		}
		return w.Flush()
	})
}

// recurringToggleCmd serves both pause and resume.
type recurringToggleCmd struct {
	name   string
	active bool
	id     int64
}

func (c *recurringToggleCmd) Name() string { return c.name }
func (c *recurringToggleCmd) Synopsis() string {
	return fmt.Sprintf("%s a recurring payment", c.name)
}
func (c *recurringToggleCmd) Usage() string { return fmt.Sprintf("ledger %s -id <id>\n", c.name) }

func (c *recurringToggleCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "recurring payment id")
}

func (c *recurringToggleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		return l.Recurring.SetRecurringActive(ctx, c.id, c.active)
	})
}
