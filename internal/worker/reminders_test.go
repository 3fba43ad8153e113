package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/amqp"
)

type recordingNotifier struct {
	mu    sync.Mutex
	items []string
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.items = append(n.items, title+": "+body)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}

func TestHandleReminder_DueIsDeliveredOnce(t *testing.T) {
	n := &recordingNotifier{}
	w := NewReminderWorker(n)
	defer w.Stop()

	msg := amqp.NewReminderMessage("Recurring payment", "Rent · $1.200.000", time.Now().Add(-time.Minute))

	require.NoError(t, w.HandleReminder(context.Background(), msg))
	require.NoError(t, w.HandleReminder(context.Background(), msg))

	assert.Equal(t, []string{"Recurring payment: Rent · $1.200.000"}, n.items)
	assert.Zero(t, w.Pending())
}

func TestHandleReminder_FutureIsHeld(t *testing.T) {
	n := &recordingNotifier{}
	w := NewReminderWorker(n)

	msg := amqp.NewReminderMessage("Recurring payment", "Gym", time.Now().Add(time.Hour))
	require.NoError(t, w.HandleReminder(context.Background(), msg))
	require.NoError(t, w.HandleReminder(context.Background(), msg))

	assert.Equal(t, 1, w.Pending())
	assert.Zero(t, n.count())

	w.Stop()
	assert.Zero(t, w.Pending())
	assert.Zero(t, n.count())
}

func TestHandleReminder_DeliversWhenTimeComes(t *testing.T) {
	n := &recordingNotifier{}
	w := NewReminderWorker(n)
	defer w.Stop()

	msg := amqp.NewReminderMessage("Recurring payment", "Netflix", time.Now().Add(20*time.Millisecond))
	require.NoError(t, w.HandleReminder(context.Background(), msg))

	require.Eventually(t, func() bool { return n.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, w.Pending())

	// A redelivery after the fact is dropped.
	require.NoError(t, w.HandleReminder(context.Background(), msg))
	assert.Equal(t, 1, n.count())
}

func TestHandleReminder_NotifyFailureIsRetryable(t *testing.T) {
	n := &recordingNotifier{err: errors.New("display unavailable")}
	w := NewReminderWorker(n)
	defer w.Stop()

	msg := amqp.NewReminderMessage("Recurring payment", "Rent", time.Now().Add(-time.Minute))
	err := w.HandleReminder(context.Background(), msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display unavailable")

	n.mu.Lock()
	n.err = nil
	n.mu.Unlock()

	require.NoError(t, w.HandleReminder(context.Background(), msg))
	assert.Equal(t, 1, n.count())
}
