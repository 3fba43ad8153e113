package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ledger/internal/core"
	"ledger/internal/storage"
)

func newTestLedger(t *testing.T) (*Ledger, *storage.Store) {
	t.Helper()
	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewLedger(store, Options{Currency: "COP"}), store
}

func mustAccount(t *testing.T, l *Ledger, name string, typ core.AccountType, initial core.Money) int64 {
	t.Helper()
	id, err := l.Accounts.CreateAccount(context.Background(), core.AccountEntry{
		Name:           name,
		Type:           typ,
		InitialBalance: initial,
		InitialDate:    core.NewDate(2024, 3, 1),
	})
	require.NoError(t, err)
	return id
}

func mustCategory(t *testing.T, l *Ledger, name string) int64 {
	t.Helper()
	cats, err := l.Categories.ListCategories(context.Background(), "")
	require.NoError(t, err)
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	id, err := l.Categories.CreateCategory(context.Background(), name, core.KindExpense, nil)
	require.NoError(t, err)
	return id
}

func mustBalance(t *testing.T, l *Ledger, accountID int64) core.Money {
	t.Helper()
	b, err := l.Accounts.Balance(context.Background(), accountID)
	require.NoError(t, err)
	return b
}

func ptr(v int64) *int64 { return &v }
