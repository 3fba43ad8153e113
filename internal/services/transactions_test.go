package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func TestCashScenario(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	cash := mustAccount(t, l, "Cash", core.AccountCash, 50000)
	bank := mustAccount(t, l, "Bank", core.AccountBank, 0)
	assert.Equal(t, core.Money(50000), mustBalance(t, l, cash))

	_, err := l.Transactions.RecordTransaction(ctx, core.TransactionEntry{
		Date:       core.NewDate(2024, 3, 5),
		Type:       core.TypeExpense,
		Amount:     20000,
		AccountID:  cash,
		CategoryID: ptr(mustCategory(t, l, "Comida")),
	})
	require.NoError(t, err)
	assert.Equal(t, core.Money(30000), mustBalance(t, l, cash))

	group, err := l.Transactions.RecordTransfer(ctx, core.TransferEntry{
		Date:          core.NewDate(2024, 3, 6),
		Amount:        10000,
		FromAccountID: cash,
		ToAccountID:   bank,
	})
	require.NoError(t, err)
	assert.Equal(t, core.Money(20000), mustBalance(t, l, cash))
	assert.Equal(t, core.Money(10000), mustBalance(t, l, bank))

	legs, err := l.Transactions.TransferLegs(ctx, group)
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, core.Money(-10000), legs[0].Amount)
	assert.Equal(t, core.Money(10000), legs[1].Amount)
}

func TestTransferConservesTotal(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	a := mustAccount(t, l, "A", core.AccountBank, 7000)
	b := mustAccount(t, l, "B", core.AccountWallet, -500)

	before := mustBalance(t, l, a) + mustBalance(t, l, b)
	// A negative input still moves money from source to destination.
	_, err := l.Transactions.RecordTransfer(ctx, core.TransferEntry{
		Date: core.NewDate(2024, 3, 1), Amount: -2500, FromAccountID: a, ToAccountID: b,
	})
	require.NoError(t, err)

	assert.Equal(t, before, mustBalance(t, l, a)+mustBalance(t, l, b))
	assert.Equal(t, core.Money(4500), mustBalance(t, l, a))
}

func TestTransferRejectsSameAccount(t *testing.T) {
	l, store := newTestLedger(t)
	a := mustAccount(t, l, "A", core.AccountBank, 0)

	_, err := l.Transactions.RecordTransfer(context.Background(), core.TransferEntry{
		Date: core.NewDate(2024, 3, 1), Amount: 100, FromAccountID: a, ToAccountID: a,
	})
	require.ErrorIs(t, err, core.ErrSameAccount)
	assert.ErrorIs(t, err, core.ErrValidation)

	n, err := store.Queries().Count(context.Background(), "transactions")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTransferToMissingAccountWritesNothing(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	a := mustAccount(t, l, "A", core.AccountBank, 0)

	_, err := l.Transactions.RecordTransfer(ctx, core.TransferEntry{
		Date: core.NewDate(2024, 3, 1), Amount: 100, FromAccountID: a, ToAccountID: 999,
	})
	require.Error(t, err)

	n, err := store.Queries().Count(ctx, "transactions")
	require.NoError(t, err)
	assert.Zero(t, n, "the first leg must roll back with the second")
}

func TestSplitsAggregateByOwnCategory(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	acc := mustAccount(t, l, "Cash", core.AccountCash, 0)
	nominal := mustCategory(t, l, "Ocio")
	catA := mustCategory(t, l, "Comida")
	catB := mustCategory(t, l, "Transporte")

	id, err := l.Transactions.RecordTransaction(ctx, core.TransactionEntry{
		Date:       core.NewDate(2024, 3, 10),
		Type:       core.TypeExpense,
		Amount:     1000,
		AccountID:  acc,
		CategoryID: ptr(nominal),
		Splits: []core.SplitEntry{
			{CategoryID: catA, Amount: 300},
			{CategoryID: catB, Amount: 700},
		},
	})
	require.NoError(t, err)

	got, err := l.Transactions.ExpensesByCategory(ctx, core.NewMonth(2024, 3))
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryAmount{
		{Name: "Transporte", Amount: 700},
		{Name: "Comida", Amount: 300},
	}, got)

	tx, err := l.Transactions.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Len(t, tx.Splits, 2)
	assert.Equal(t, "Ocio", tx.CategoryName)
}

func TestSplitMismatchIsRejected(t *testing.T) {
	l, _ := newTestLedger(t)
	acc := mustAccount(t, l, "Cash", core.AccountCash, 0)
	cat := mustCategory(t, l, "Comida")

	_, err := l.Transactions.RecordTransaction(context.Background(), core.TransactionEntry{
		Date: core.NewDate(2024, 3, 10), Type: core.TypeExpense, Amount: 1000, AccountID: acc,
		Splits: []core.SplitEntry{{CategoryID: cat, Amount: 999}},
	})
	assert.ErrorIs(t, err, core.ErrSplitMismatch)
}

func TestRecordTransactionRollsBackOnFailedSplit(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	acc := mustAccount(t, l, "Cash", core.AccountCash, 0)

	_, err := l.Transactions.RecordTransaction(ctx, core.TransactionEntry{
		Date: core.NewDate(2024, 3, 10), Type: core.TypeExpense, Amount: 500, AccountID: acc,
		Tags:   []string{"viaje"},
		Splits: []core.SplitEntry{{CategoryID: 9999, Amount: 500}},
	})
	require.Error(t, err)

	for _, table := range []string{"transactions", "transaction_splits", "tags", "transaction_tags"} {
		n, err := store.Queries().Count(ctx, table)
		require.NoError(t, err)
		assert.Zero(t, n, table)
	}
}

func TestTagsAreNormalizedAndIdempotent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	acc := mustAccount(t, l, "Cash", core.AccountCash, 0)

	id, err := l.Transactions.RecordTransaction(ctx, core.TransactionEntry{
		Date: core.NewDate(2024, 3, 10), Type: core.TypeIncome, Amount: 500, AccountID: acc,
		Tags: []string{" Viaje ", "viaje", "VIAJE", "trabajo"},
	})
	require.NoError(t, err)

	tx, err := l.Transactions.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"trabajo", "viaje"}, tx.Tags)

	tagID, err := l.Categories.CreateTag(ctx, "VIAJE")
	require.NoError(t, err)
	tags, err := l.Categories.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.Contains(t, tags, core.Tag{ID: tagID, Name: "viaje"})
}

func TestRecordTransactionRejectsTransferType(t *testing.T) {
	l, _ := newTestLedger(t)
	acc := mustAccount(t, l, "Cash", core.AccountCash, 0)

	_, err := l.Transactions.RecordTransaction(context.Background(), core.TransactionEntry{
		Date: core.NewDate(2024, 3, 10), Type: core.TypeTransfer, Amount: 500, AccountID: acc,
	})
	assert.ErrorIs(t, err, core.ErrInvalidType)
}

func TestMonthSummaryAndNetWorth(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	acc := mustAccount(t, l, "Bank", core.AccountBank, 1000)

	for _, e := range []core.TransactionEntry{
		{Date: core.NewDate(2024, 3, 1), Type: core.TypeIncome, Amount: 5000, AccountID: acc},
		{Date: core.NewDate(2024, 3, 2), Type: core.TypeExpense, Amount: 1200, AccountID: acc},
		{Date: core.NewDate(2024, 4, 2), Type: core.TypeExpense, Amount: 300, AccountID: acc},
	} {
		_, err := l.Transactions.RecordTransaction(ctx, e)
		require.NoError(t, err)
	}

	sum, err := l.Transactions.MonthSummary(ctx, core.NewMonth(2024, 3))
	require.NoError(t, err)
	assert.Equal(t, core.Money(5000), sum.Income)
	assert.Equal(t, core.Money(1200), sum.Expense)
	assert.Equal(t, core.Money(3800), sum.Savings)

	_, err = l.Loans.CreateLoan(ctx, core.LoanEntry{
		Direction: core.OwedToMe, Person: "Ana", Principal: 2000,
		StartDate: core.NewDate(2024, 3, 3), AccountID: acc,
	})
	require.NoError(t, err)

	nw, err := l.Accounts.NetWorth(ctx)
	require.NoError(t, err)
	// 1000 + 5000 - 1200 - 300 - 2000 lent
	assert.Equal(t, core.Money(2500), nw.Cash)
	assert.Equal(t, core.Money(2000), nw.Receivable)
	assert.Equal(t, core.Money(4500), nw.Net)

	list, err := l.Accounts.ListWithBalances(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, core.Money(2500), list[0].Balance)
}
