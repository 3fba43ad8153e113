package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/google/subcommands"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/storage"
)

var cfg *config.Config

func main() {
	cli.LoadEnvFile()
	cfg = cli.LoadAndValidateConfig()
	cli.SetupLogger(cfg.LogLevel)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(&accountAddCmd{}, "accounts")
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&netWorthCmd{}, "accounts")

	c.Register(&categoriesCmd{}, "categories")
	c.Register(&categoryAddCmd{}, "categories")
	c.Register(&categoryRmCmd{}, "categories")
	c.Register(&tagsCmd{}, "categories")
	c.Register(&tagAddCmd{}, "categories")

	c.Register(&addCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&showCmd{}, "transactions")
	c.Register(&reportCmd{}, "transactions")

	c.Register(&loanAddCmd{}, "loans")
	c.Register(&loansCmd{}, "loans")
	c.Register(&loanPayCmd{}, "loans")
	c.Register(&loanShowCmd{}, "loans")
	c.Register(&loanCloseCmd{}, "loans")

	c.Register(&goalAddCmd{}, "goals")
	c.Register(&goalsCmd{}, "goals")
	c.Register(&goalContributeCmd{}, "goals")
	c.Register(&goalShowCmd{}, "goals")

	c.Register(&budgetSetCmd{}, "budgets")
	c.Register(&budgetsCmd{}, "budgets")

	c.Register(&recurringAddCmd{}, "recurring")
	c.Register(&recurringCmd{}, "recurring")
	c.Register(&recurringToggleCmd{name: "pause"}, "recurring")
	c.Register(&recurringToggleCmd{name: "resume", active: true}, "recurring")

	c.Register(&backupCmd{}, "data")
	c.Register(&restoreCmd{}, "data")
	c.Register(&exportCSVCmd{}, "data")
	c.Register(&statsCmd{}, "data")
	c.Register(&sqlCmd{}, "data")
	c.Register(&lockCmd{}, "data")
}

// promptAuth stands in for the device authentication gate.
type promptAuth struct{}

func (promptAuth) Authenticate(context.Context) (bool, error) {
	fmt.Fprint(os.Stderr, "Ledger is locked. Unlock? [y/N] ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// withLedger opens the store, passes the lock gate and runs fn.
func withLedger(ctx context.Context, fn func(l *services.Ledger, store *storage.Store) error) subcommands.ExitStatus {
	store, err := storage.Open(ctx, cfg.SQLiteDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger %q: %v\n", cfg.SQLiteDBPath, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	opts := services.Options{Currency: cfg.Currency, Auth: promptAuth{}}
	if cfg.RemindersEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			log.ForComponent(log.ComponentAMQP).Warn("Reminders unavailable", log.FieldError, err)
		} else {
			defer client.Close()
			opts.Reminders = client
		}
	}
	l := services.NewLedger(store, opts)

	ok, err := l.Settings.Unlock(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "Error: ledger is locked")
		return subcommands.ExitFailure
	}

	if err := fn(l, store); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
