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

type addCmd struct {
	typ        string
	amount     string
	account    int64
	category   int64
	date       string
	note       string
	attachment string
	tags       string
	splits     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income, expense or adjustment" }
func (*addCmd) Usage() string {
	return `ledger add -type income|expense|adjustment -amount <amount> -account <id> [-category <id>]
  [-d <date>] [-note <text>] [-attach <uri>] [-tags a,b] [-split <category>:<amount>,...]:
  Record a transaction. Split amounts must add up to the transaction amount.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", string(core.TypeExpense), "transaction type")
	f.StringVar(&c.amount, "amount", "", "amount")
	f.Int64Var(&c.account, "account", 0, "account id")
	f.Int64Var(&c.category, "category", 0, "category id")
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.note, "note", "", "free text note")
	f.StringVar(&c.attachment, "attach", "", "receipt or attachment URI")
	f.StringVar(&c.tags, "tags", "", "comma separated tags")
	f.StringVar(&c.splits, "split", "", "comma separated category:amount splits")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	d, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -d: %v\n", err)
		return subcommands.ExitUsageError
	}
	splits, err := parseSplits(c.splits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -split: %v\n", err)
		return subcommands.ExitUsageError
	}
	e := core.TransactionEntry{
		Date:          d,
		Type:          core.TransactionType(c.typ),
		Amount:        amount,
		AccountID:     c.account,
		CategoryID:    optionalID(c.category),
		Note:          c.note,
		AttachmentURI: c.attachment,
		Tags:          splitList(c.tags),
		Splits:        splits,
	}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		id, err := l.Transactions.RecordTransaction(ctx, e)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded transaction %d\n", id)
		return nil
	})
}

type transferCmd struct {
	from   int64
	to     int64
	amount string
	date   string
	note   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return "ledger transfer -from <id> -to <id> -amount <amount> [-d <date>] [-note <text>]\n"
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.from, "from", 0, "source account id")
	f.Int64Var(&c.to, "to", 0, "destination account id")
	f.StringVar(&c.amount, "amount", "", "amount")
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.note, "note", "", "free text note")
}

func (c *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	d, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -d: %v\n", err)
		return subcommands.ExitUsageError
	}
	e := core.TransferEntry{Date: d, Amount: amount, FromAccountID: c.from, ToAccountID: c.to, Note: c.note}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		group, err := l.Transactions.RecordTransfer(ctx, e)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded transfer %s\n", group)
		return nil
	})
}

type txCmd struct {
	account int64
	limit   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions, newest first" }
func (*txCmd) Usage() string    { return "ledger tx [-account <id>] [-n <limit>]\n" }

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.account, "account", 0, "only list this account")
	f.IntVar(&c.limit, "n", 50, "maximum number of rows, 0 for all")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		txs, err := l.Transactions.ListTransactions(ctx, c.account, c.limit)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintln(w, "ID\tDate\tType\tAccount\tCategory\tAmount\tNote")
		for _, t := range txs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Date, t.Type, t.AccountName, t.CategoryName,
				money(t.Type.Contribution(t.Amount)), t.Note)
		}
		return w.Flush()
	})
}

type showCmd struct {
	id int64
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display one transaction with its splits and tags" }
func (*showCmd) Usage() string    { return "ledger show -id <id>\n" }

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "transaction id")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		t, err := l.Transactions.GetTransaction(ctx, c.id)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintf(w, "Date\t%s\n", t.Date)
		fmt.Fprintf(w, "Type\t%s\n", t.Type)
		fmt.Fprintf(w, "Account\t%s\n", t.AccountName)
		fmt.Fprintf(w, "Amount\t%s\n", money(t.Amount))
		if t.CategoryName != "" {
			fmt.Fprintf(w, "Category\t%s\n", t.CategoryName)
		}
		if t.Note != "" {
			fmt.Fprintf(w, "Note\t%s\n", t.Note)
		}
		if t.AttachmentURI != "" {
			fmt.Fprintf(w, "Attachment\t%s\n", t.AttachmentURI)
		}
		for _, s := range t.Splits {
			fmt.Fprintf(w, "Split\t%s %s\n", s.CategoryName, money(s.Amount))
		}
		for _, tag := range t.Tags {
			fmt.Fprintf(w, "Tag\t%s\n", tag)
		}
		if t.TransferGroup != "" {
			legs, err := l.Transactions.TransferLegs(ctx, t.TransferGroup)
			if err != nil {
				return err
			}
			for _, leg := range legs {
				fmt.Fprintf(w, "Leg\t%s %s\n", leg.AccountName, money(leg.Amount))
			}
		}
		return w.Flush()
	})
}

type reportCmd struct {
	month string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display a month summary and expenses by category" }
func (*reportCmd) Usage() string    { return "ledger report [-m <YYYY-MM>]\n" }

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "month (YYYY-MM), defaults to the current month")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonthFlag(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -m: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		sum, err := l.Transactions.MonthSummary(ctx, month)
		if err != nil {
			return err
		}
		byCategory, err := l.Transactions.ExpensesByCategory(ctx, month)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintf(w, "Month\t%s\n", sum.Month)
		fmt.Fprintf(w, "Income\t%s\n", money(sum.Income))
		fmt.Fprintf(w, "Expenses\t%s\n", money(sum.Expense))
		fmt.Fprintf(w, "Savings\t%s\n", money(sum.Savings))
		fmt.Fprintln(w)
		for _, ca := range byCategory {
			fmt.Fprintf(w, "%s\t%s\n", ca.Name, money(ca.Amount))
		}
		return w.Flush()
	})
}
