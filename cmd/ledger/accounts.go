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

type accountAddCmd struct {
	name     string
	typ      string
	currency string
	initial  string
	date     string
}

func (*accountAddCmd) Name() string     { return "account-add" }
func (*accountAddCmd) Synopsis() string { return "create an account with an optional opening balance" }
func (*accountAddCmd) Usage() string {
	return `ledger account-add -name <name> [-type bank|cash|wallet|investment] [-initial <amount>] [-d <date>]:
  Create an account. A non-zero opening balance is recorded as an adjustment.
`
}

func (c *accountAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "account name")
	f.StringVar(&c.typ, "type", string(core.AccountBank), "account type")
	f.StringVar(&c.currency, "currency", "", "ISO currency, defaults to the ledger currency")
	f.StringVar(&c.initial, "initial", "", "opening balance, may be negative")
	f.StringVar(&c.date, "d", "", "opening balance date (YYYY-MM-DD), defaults to today")
}

func (c *accountAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := core.AccountEntry{Name: c.name, Type: core.AccountType(c.typ), Currency: c.currency}
	if c.initial != "" {
		m, err := core.ParseSignedAmount(c.initial)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -initial: %v\n", err)
			return subcommands.ExitUsageError
		}
		e.InitialBalance = m
	}
	d, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -d: %v\n", err)
		return subcommands.ExitUsageError
	}
	e.InitialDate = d

	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		id, err := l.Accounts.CreateAccount(ctx, e)
		if err != nil {
			return err
		}
		fmt.Printf("Created account %d (%s)\n", id, e.Name)
		return nil
	})
}

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts with their balances" }
func (*accountsCmd) Usage() string    { return "ledger accounts\n" }
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		accounts, err := l.Accounts.ListWithBalances(ctx)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintln(w, "ID\tName\tType\tBalance")
		for _, a := range accounts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Name, a.Type, money(a.Balance))
		}
		return w.Flush()
	})
}

type netWorthCmd struct{}

func (*netWorthCmd) Name() string     { return "networth" }
func (*netWorthCmd) Synopsis() string { return "display cash, open loans and net worth" }
func (*netWorthCmd) Usage() string    { return "ledger networth\n" }
func (*netWorthCmd) SetFlags(*flag.FlagSet) {}

func (*netWorthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		nw, err := l.Accounts.NetWorth(ctx)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintf(w, "Cash\t%s\n", money(nw.Cash))
		fmt.Fprintf(w, "Owed to me\t%s\n", money(nw.Receivable))
		fmt.Fprintf(w, "I owe\t%s\n", money(nw.Payable))
		fmt.Fprintf(w, "Net worth\t%s\n", money(nw.Net))
		return w.Flush()
	})
}

type categoriesCmd struct {
	kind string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories" }
func (*categoriesCmd) Usage() string    { return "ledger categories [-kind income|expense]\n" }

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "only list categories of this kind")
}

func (c *categoriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		cats, err := l.Categories.ListCategories(ctx, core.CategoryKind(c.kind))
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintln(w, "ID\tName\tKind\tParent")
		for _, cat := range cats {
			parent := ""
			if cat.ParentID != nil {
				parent = fmt.Sprint(*cat.ParentID)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Kind, parent)
		}
		return w.Flush()
	})
}

type categoryAddCmd struct {
	name   string
	kind   string
	parent int64
}

func (*categoryAddCmd) Name() string     { return "category-add" }
func (*categoryAddCmd) Synopsis() string { return "create a category" }
func (*categoryAddCmd) Usage() string {
	return "ledger category-add -name <name> [-kind income|expense] [-parent <id>]\n"
}

func (c *categoryAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "category name")
	f.StringVar(&c.kind, "kind", string(core.KindExpense), "category kind")
	f.Int64Var(&c.parent, "parent", 0, "parent category id")
}

func (c *categoryAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		id, err := l.Categories.CreateCategory(ctx, c.name, core.CategoryKind(c.kind), optionalID(c.parent))
		if err != nil {
			return err
		}
		fmt.Printf("Created category %d (%s)\n", id, c.name)
		return nil
	})
}

type categoryRmCmd struct {
	id int64
}

func (*categoryRmCmd) Name() string     { return "category-rm" }
func (*categoryRmCmd) Synopsis() string { return "delete a category" }
func (*categoryRmCmd) Usage() string    { return "ledger category-rm -id <id>\n" }

func (c *categoryRmCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "category id")
}

func (c *categoryRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		return l.Categories.DeleteCategory(ctx, c.id)
	})
}

type tagsCmd struct{}

func (*tagsCmd) Name() string             { return "tags" }
func (*tagsCmd) Synopsis() string         { return "list tags" }
func (*tagsCmd) Usage() string            { return "ledger tags\n" }
func (*tagsCmd) SetFlags(*flag.FlagSet) {}

func (*tagsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		tags, err := l.Categories.ListTags(ctx)
		if err != nil {
			return err
		}
		for _, t := range tags {
			fmt.Printf("%d\t%s\n", t.ID, t.Name)
		}
		return nil
	})
}

type tagAddCmd struct {
	name string
}

func (*tagAddCmd) Name() string     { return "tag-add" }
func (*tagAddCmd) Synopsis() string { return "create a tag" }
func (*tagAddCmd) Usage() string    { return "ledger tag-add -name <name>\n" }

func (c *tagAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "tag name")
}

func (c *tagAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		id, err := l.Categories.CreateTag(ctx, c.name)
		if err != nil {
			return err
		}
		fmt.Printf("Tag %d\n", id)
		return nil
	})
}
