package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/subcommands"

	"ledger/internal/backup"
	"ledger/internal/services"
	"ledger/internal/storage"
)

type backupCmd struct {
	dir string
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "write a JSON snapshot of the whole ledger" }
func (*backupCmd) Usage() string    { return "ledger backup [-dir <directory>]\n" }

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "output directory, defaults to BACKUP_DIR")
}

func (c *backupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dir := c.dir
	if dir == "" {
		dir = cfg.BackupDir
	}
	return withLedger(ctx, func(_ *services.Ledger, store *storage.Store) error {
		snap, err := backup.Export(ctx, store)
		if err != nil {
			return err
		}
		path, err := backup.WriteFile(dir, snap)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	})
}

type restoreCmd struct {
	yes bool
}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "replace the ledger with a JSON snapshot" }
func (*restoreCmd) Usage() string {
	return `ledger restore -yes <file>:
  Replace every table with the snapshot contents. Nothing changes if the restore fails.
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "confirm that current data will be replaced")
}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: restore takes exactly one snapshot file")
		return subcommands.ExitUsageError
	}
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Error: restore replaces all data, pass -yes to confirm")
		return subcommands.ExitUsageError
	}
	snap, err := backup.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return withLedger(ctx, func(_ *services.Ledger, store *storage.Store) error {
		return backup.Restore(ctx, store, snap)
	})
}

type exportCSVCmd struct {
	output string
}

func (*exportCSVCmd) Name() string     { return "export-csv" }
func (*exportCSVCmd) Synopsis() string { return "export every transaction as CSV" }
func (*exportCSVCmd) Usage() string    { return "ledger export-csv [-o <file>]\n" }

func (c *exportCSVCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, defaults to stdout")
}

func (c *exportCSVCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(_ *services.Ledger, store *storage.Store) error {
		out := os.Stdout
		if c.output != "" {
			file, err := os.Create(c.output)
			if err != nil {
				return err
			}
			defer file.Close()
			out = file
		}
		return backup.ExportTransactionsCSV(ctx, store.Queries(), out)
	})
}

type statsCmd struct{}

func (*statsCmd) Name() string             { return "stats" }
func (*statsCmd) Synopsis() string         { return "count the rows of every table" }
func (*statsCmd) Usage() string            { return "ledger stats\n" }
func (*statsCmd) SetFlags(*flag.FlagSet) {}

func (*statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(_ *services.Ledger, store *storage.Store) error {
		q := store.Queries()
		w := stdoutTable()
		for _, table := range storage.Tables {
			n, err := q.Count(ctx, table)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%d\n", table, n)
		}
		return w.Flush()
	})
}

type sqlCmd struct{}

func (*sqlCmd) Name() string     { return "sql" }
func (*sqlCmd) Synopsis() string { return "run one SQL statement against the ledger" }
func (*sqlCmd) Usage() string {
	return `ledger sql <statement>:
  Reads print their rows, writes print the affected row count.
`
}
func (*sqlCmd) SetFlags(*flag.FlagSet) {}

func (*sqlCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing statement")
		return subcommands.ExitUsageError
	}
	query := strings.Join(f.Args(), " ")
	return withLedger(ctx, func(_ *services.Ledger, store *storage.Store) error {
		res, err := store.Queries().Run(ctx, query)
		if err != nil {
			return err
		}
		if !storage.IsReadStatement(query) {
			fmt.Printf("%d rows affected, last insert id %d\n", res.RowsAffected, res.InsertID)
			return nil
		}
		w := stdoutTable()
		for _, row := range res.Rows {
			cols := make([]string, 0, len(row))
			for col := range row {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			fields := make([]string, len(cols))
			for i, col := range cols {
				fields[i] = fmt.Sprintf("%s=%v", col, row[col])
			}
			fmt.Fprintln(w, strings.Join(fields, "\t"))
		}
		return w.Flush()
	})
}

type lockCmd struct {
	on  bool
	off bool
}

func (*lockCmd) Name() string     { return "lock" }
func (*lockCmd) Synopsis() string { return "enable, disable or show the app lock" }
func (*lockCmd) Usage() string    { return "ledger lock [-on | -off]\n" }

func (c *lockCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.on, "on", false, "require authentication before each command")
	f.BoolVar(&c.off, "off", false, "disable the lock")
}

func (c *lockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.on && c.off {
		fmt.Fprintln(os.Stderr, "Error: -on and -off are exclusive")
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *services.Ledger, _ *storage.Store) error {
		if c.on || c.off {
			if err := l.Settings.SetLockEnabled(ctx, c.on); err != nil {
				return err
			}
		}
		enabled, err := l.Settings.IsLockEnabled(ctx)
		if err != nil {
			return err
		}
		if enabled {
			fmt.Println("lock enabled")
		} else {
			fmt.Println("lock disabled")
		}
		return nil
	})
}
