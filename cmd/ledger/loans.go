package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/services"
	"ledger/internal/storage"
)

type loanAddCmd struct {
	direction string
	person    string
	principal string
	rate      string
	date      string
	account   int64
	note      string
}

func (*loanAddCmd) Name() string     { return "loan-add" }
func (*loanAddCmd) Synopsis() string { return "open a loan and move its principal" }
func (*loanAddCmd) Usage() string {
	return `ledger loan-add -dir owed_to_me|i_owe -person <name> -principal <amount> -account <id>
  [-rate <percent>] [-d <date>] [-note <text>]:
  Open a loan. Borrowed money enters the account, lent money leaves it.
`
}

func (c *loanAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.direction, "dir", string(core.OwedToMe), "loan direction")
	f.StringVar(&c.person, "person", "", "counterparty")
	f.StringVar(&c.principal, "principal", "", "principal")
	f.StringVar(&c.rate, "rate", "0", "annual interest rate, informational")
	f.StringVar(&c.date, "d", "", "start date (YYYY-MM-DD), defaults to today")
	f.Int64Var(&c.account, "account", 0, "account the principal moves through")
	f.StringVar(&c.note, "note", "", "free text note")
}

func (c *loanAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	principal, err := core.ParseAmount(c.principal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -principal: %v\n", err)
		return subcommands.ExitUsageError
	}
	rate, err := decimal.NewFromString(c.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -rate: %v\n", err)
		return subcommands.ExitUsageError
	}
	d, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -d: %v\n", err)
		return subcommands.ExitUsageError
	}
	e := core.LoanEntry{
		Direction:    core.LoanDirection(c.direction),
		Person:       c.person,
		Principal:    principal,
		InterestRate: rate,
		StartDate:    d,
		Note:         c.note,
		AccountID:    c.account,
	}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		id, err := l.Loans.CreateLoan(ctx, e)
		if err != nil {
			return err
		}
		fmt.Printf("Opened loan %d\n", id)
		return nil
	})
}

type loansCmd struct{}

func (*loansCmd) Name() string             { return "loans" }
func (*loansCmd) Synopsis() string         { return "list loans with their remaining balance" }
func (*loansCmd) Usage() string            { return "ledger loans\n" }
func (*loansCmd) SetFlags(*flag.FlagSet) {}

func (*loansCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		loans, err := l.Loans.ListLoans(ctx)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintln(w, "ID\tPerson\tDirection\tStatus\tPrincipal\tPaid\tRemaining\tRate")
		for _, lb := range loans {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s%%\n",
				lb.ID, lb.Person, lb.Direction, lb.Status,
				money(lb.Principal), money(lb.Paid), money(lb.Remaining), lb.InterestRate.String())
		}
		return w.Flush()
	})
}

type loanPayCmd struct {
	loan    int64
	amount  string
	account int64
	date    string
	note    string
}

func (*loanPayCmd) Name() string     { return "loan-pay" }
func (*loanPayCmd) Synopsis() string { return "record a payment against a loan" }
func (*loanPayCmd) Usage() string {
	return `ledger loan-pay -loan <id> -amount <amount> -account <id> [-d <date>] [-note <text>]:
  Record a payment. The loan closes once nothing remains.
`
}

func (c *loanPayCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.loan, "loan", 0, "loan id")
	f.StringVar(&c.amount, "amount", "", "amount paid")
	f.Int64Var(&c.account, "account", 0, "account the payment moves through")
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.note, "note", "", "free text note")
}

func (c *loanPayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	e := core.PaymentEntry{LoanID: c.loan, Date: d, Amount: amount, AccountID: c.account, Note: c.note}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		if _, err := l.Loans.RecordPayment(ctx, e); err != nil {
			return err
		}
		remaining, err := l.Loans.Remaining(ctx, c.loan)
		if err != nil {
			return err
		}
		fmt.Printf("Remaining %s\n", money(remaining))
		return nil
	})
}

type loanShowCmd struct {
	id int64
}

func (*loanShowCmd) Name() string     { return "loan-show" }
func (*loanShowCmd) Synopsis() string { return "display a loan and its payments" }
func (*loanShowCmd) Usage() string    { return "ledger loan-show -id <id>\n" }

func (c *loanShowCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "loan id")
}

func (c *loanShowCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		lb, err := l.Loans.GetLoan(ctx, c.id)
		if err != nil {
			return err
		}
		payments, err := l.Loans.ListPayments(ctx, c.id)
		if err != nil {
			return err
		}
		w := stdoutTable()
		fmt.Fprintf(w, "%s\t%s\t%s\n", lb.Person, lb.Direction, lb.Status)
		fmt.Fprintf(w, "Principal\t%s\n", money(lb.Principal))
		fmt.Fprintf(w, "Remaining\t%s\n", money(lb.Remaining))
		for _, p := range payments {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Date, p.AccountName, money(p.Amount), p.Note)
		}
		return w.Flush()
	})
}

type loanCloseCmd struct {
	id int64
}

func (*loanCloseCmd) Name() string     { return "loan-close" }
func (*loanCloseCmd) Synopsis() string { return "close a loan without further payments" }
func (*loanCloseCmd) Usage() string    { return "ledger loan-close -id <id>\n" }

func (c *loanCloseCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "loan id")
}

func (c *loanCloseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		return l.Loans.CloseLoan(ctx, c.id)
	})
}
