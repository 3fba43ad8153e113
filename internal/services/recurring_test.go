package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

type reminder struct {
	title, body string
	at          time.Time
}

type fakeScheduler struct {
	sent []reminder
	err  error
}

func (f *fakeScheduler) ScheduleReminder(_ context.Context, title, body string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, reminder{title, body, at})
	return nil
}

func TestCreateRecurringSchedulesFirstOccurrence(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	acc := mustAccount(t, l, "Bank", core.AccountBank, 0)
	sched := &fakeScheduler{}

	svc := NewRecurringService(store, sched, "COP")
	svc.today = func() core.Date { return core.NewDate(2024, 2, 20) }

	id, err := svc.CreateRecurring(ctx, core.RecurringEntry{
		Name: "Arriendo", Type: core.TypeExpense, Amount: 1200000, AccountID: acc, DayOfMonth: 31,
	})
	require.NoError(t, err)

	r, err := store.Queries().GetRecurring(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", r.NextDate.String())
	assert.True(t, r.Active)

	require.Len(t, sched.sent, 1)
	assert.Equal(t, "Arriendo · "+core.Money(1200000).Format("COP"), sched.sent[0].body)
	assert.Equal(t, 9, sched.sent[0].at.Hour())
}

func TestCreateRecurringSurvivesSchedulerFailure(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	acc := mustAccount(t, l, "Bank", core.AccountBank, 0)

	svc := NewRecurringService(store, &fakeScheduler{err: errors.New("broker down")}, "COP")
	_, err := svc.CreateRecurring(ctx, core.RecurringEntry{
		Name: "Gimnasio", Type: core.TypeExpense, Amount: 90000, AccountID: acc, DayOfMonth: 5,
	})
	require.NoError(t, err)

	list, err := svc.ListRecurring(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProcessDueAdvancesNextDate(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	acc := mustAccount(t, l, "Bank", core.AccountBank, 0)

	svc := NewRecurringService(store, nil, "COP")
	svc.today = func() core.Date { return core.NewDate(2024, 1, 10) }
	due, err := svc.CreateRecurring(ctx, core.RecurringEntry{
		Name: "Internet", Type: core.TypeExpense, Amount: 80000, AccountID: acc, DayOfMonth: 15,
	})
	require.NoError(t, err)
	paused, err := svc.CreateRecurring(ctx, core.RecurringEntry{
		Name: "Streaming", Type: core.TypeExpense, Amount: 30000, AccountID: acc, DayOfMonth: 12,
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetRecurringActive(ctx, paused, false))

	sched := &fakeScheduler{}
	p := NewRecurringProcessor(store, sched, "COP")
	n, err := p.ProcessDue(ctx, time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, sched.sent, 1)

	r, err := store.Queries().GetRecurring(ctx, due)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-15", r.NextDate.String())

	n, err = p.ProcessDue(ctx, time.Date(2024, 3, 21, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := svc.ListRecurring(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Active)
	assert.False(t, list[1].Active)
}

func TestProcessDueRequiresScheduler(t *testing.T) {
	_, store := newTestLedger(t)
	_, err := NewRecurringProcessor(store, nil, "COP").ProcessDue(context.Background(), time.Now())
	assert.Error(t, err)
}
