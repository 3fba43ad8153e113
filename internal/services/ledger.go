// Package services holds the ledger engine: the operations that record
// entries and derive balances, loans, goals and budgets from them.
package services

import (
	"context"
	"time"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// Store is the persistence the engine runs on. storage.Store satisfies it.
type Store interface {
	Queries() *storage.Queries
	InTx(ctx context.Context, fn func(q *storage.Queries) error) error
}

// ReminderScheduler delivers a reminder at a given time. Delivery is fire
// and forget: failures are logged by callers, never surfaced.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, title, body string, at time.Time) error
}

// Authenticator confirms the user's identity for the lock gate.
type Authenticator interface {
	Authenticate(ctx context.Context) (bool, error)
}

// Options configures a Ledger.
type Options struct {
	Currency  string
	Reminders ReminderScheduler
	Auth      Authenticator
}

// Ledger bundles every engine service over one store.
type Ledger struct {
	Accounts     *AccountService
	Categories   *CategoryService
	Transactions *TransactionService
	Loans        *LoanService
	Goals        *GoalService
	Budgets      *BudgetService
	Recurring    *RecurringService
	Settings     *SettingsService
}

func NewLedger(store Store, opts Options) *Ledger {
	if opts.Currency == "" {
		opts.Currency = core.DefaultCurrency
	}
	transactions := NewTransactionService(store)
	return &Ledger{
		Accounts:     NewAccountService(store, opts.Currency),
		Categories:   NewCategoryService(store),
		Transactions: transactions,
		Loans:        NewLoanService(store),
		Goals:        NewGoalService(store),
		Budgets:      NewBudgetService(store, transactions),
		Recurring:    NewRecurringService(store, opts.Reminders, opts.Currency),
		Settings:     NewSettingsService(store, opts.Auth),
	}
}
