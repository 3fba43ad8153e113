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

type goalAddCmd struct {
	name   string
	target string
	by     string
	note   string
}

func (*goalAddCmd) Name() string     { return "goal-add" }
func (*goalAddCmd) Synopsis() string { return "create a savings goal" }
func (*goalAddCmd) Usage() string {
	return "ledger goal-add -name <name> -target <amount> [-by <date>] [-note <text>]\n"
}

func (c *goalAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "goal name")
	f.StringVar(&c.target, "target", "", "target amount")
	f.StringVar(&c.by, "by", "", "target date (YYYY-MM-DD)")
	f.StringVar(&c.note, "note", "", "free text note")
}

func (c *goalAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	target, err := core.ParseAmount(c.target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -target: %v\n", err)
		return subcommands.ExitUsageError
	}
	e := core.GoalEntry{Name: c.name, TargetAmount: target, Note: c.note}
	if c.by != "" {
		d, err := core.ParseDate(c.by)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -by: %v\n", err)
			return subcommands.ExitUsageError
		}
		e.TargetDate = &d
	}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		id, err := l.Goals.CreateGoal(ctx, e)
		if err != nil {
			return err
		}
		fmt.Printf("Created goal %d\n", id)
		return nil
	})
}

type goalsCmd struct{}

func (*goalsCmd) Name() string             { return "goals" }
func (*goalsCmd) Synopsis() string         { return "list goals with their progress" }
func (*goalsCmd) Usage() string            { return "ledger goals\n" }
func (*goalsCmd) SetFlags(*flag.FlagSet) {}

func (*goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		goals, err := l.Goals.ListGoals(ctx)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintln(w, "ID\tName\tSaved\tTarget\tProgress\tBy")
		for _, g := range goals {
			by := ""
			if g.TargetDate != nil {
				by = g.TargetDate.String()
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f%%\t%s\n",
				g.ID, g.Name, money(g.Saved), money(g.TargetAmount), g.Percent, by)
		}
		return w.Flush()
	})
}

type goalContributeCmd struct {
	goal    int64
	amount  string
	account int64
	date    string
	note    string
}

func (*goalContributeCmd) Name() string     { return "goal-contribute" }
func (*goalContributeCmd) Synopsis() string { return "add to or withdraw from a goal" }
func (*goalContributeCmd) Usage() string {
	return `ledger goal-contribute -goal <id> -amount <+/-amount> [-account <id>] [-d <date>] [-note <text>]:
  A negative amount withdraws savings.
`
}

func (c *goalContributeCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.goal, "goal", 0, "goal id")
	f.StringVar(&c.amount, "amount", "", "signed amount")
	f.Int64Var(&c.account, "account", 0, "source account id, informational")
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.note, "note", "", "free text note")
}

func (c *goalContributeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := core.ParseSignedAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	d, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -d: %v\n", err)
		return subcommands.ExitUsageError
	}
	e := core.ContributionEntry{GoalID: c.goal, Date: d, Amount: amount, AccountID: optionalID(c.account), Note: c.note}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		if _, err := l.Goals.AddContribution(ctx, e); err != nil {
			return err
		}
		saved, err := l.Goals.SavedAmount(ctx, c.goal)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", money(saved))
		return nil
	})
}

type goalShowCmd struct {
	id int64
}

func (*goalShowCmd) Name() string     { return "goal-show" }
func (*goalShowCmd) Synopsis() string { return "display a goal and its contributions" }
func (*goalShowCmd) Usage() string    { return "ledger goal-show -id <id>\n" }

func (c *goalShowCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "goal id")
}

func (c *goalShowCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		g, err := l.Goals.GetGoal(ctx, c.id)
		if err != nil {
			return err
		}
		contributions, err := l.Goals.ListContributions(ctx, c.id)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintf(w, "%s\t%s of %s\t%.1f%%\n", g.Name, money(g.Saved), money(g.TargetAmount), g.Bar())
		for _, gc := range contributions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", gc.Date, money(gc.Amount), gc.AccountName, gc.Note)
		}
		return w.Flush()
	})
}
