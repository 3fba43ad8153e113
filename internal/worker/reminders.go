// Package worker delivers reminder messages consumed from the broker.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/log"
)

const (
	deliveredCacheSize = 1024
	deliveredTTL       = 48 * time.Hour
)

// Notifier shows a reminder to the user.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// LogNotifier writes reminders to the log.
type LogNotifier struct {
	Log *log.Logger
}

func (n LogNotifier) Notify(ctx context.Context, title, body string) error {
	n.Log.InfoContext(ctx, "Reminder", "title", title, "body", body)
	return nil
}

// ReminderWorker holds each reminder until its time and delivers it once.
// Broker redeliveries of an already delivered reminder are dropped.
type ReminderWorker struct {
	notifier  Notifier
	delivered *cache.LRU[time.Time]
	now       func() time.Time
	log       *log.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

func NewReminderWorker(notifier Notifier) *ReminderWorker {
	return &ReminderWorker{
		notifier:  notifier,
		delivered: cache.NewLRU[time.Time](deliveredCacheSize, deliveredTTL),
		now:       time.Now,
		log:       log.ForComponent(log.ComponentWorker),
		pending:   make(map[string]*time.Timer),
	}
}

// Delivered exposes the dedup cache for periodic cleanup.
func (w *ReminderWorker) Delivered() cache.Cleaner {
	return w.delivered
}

func reminderKey(msg *amqp.ReminderMessage) string {
	return fmt.Sprintf("%s|%s|%s", msg.Title, msg.Body, msg.At.UTC().Format(time.RFC3339))
}

// HandleReminder delivers msg right away when it is due, otherwise it is
// held in memory until msg.At. An error leaves the message unacknowledged.
func (w *ReminderWorker) HandleReminder(ctx context.Context, msg *amqp.ReminderMessage) error {
	key := reminderKey(msg)
	if _, ok := w.delivered.Get(key); ok {
		w.log.DebugContext(ctx, "Duplicate reminder dropped", "title", msg.Title)
		return nil
	}

	w.mu.Lock()
	if _, ok := w.pending[key]; ok {
		w.mu.Unlock()
		return nil
	}
	wait := msg.At.Sub(w.now())
	if wait <= 0 {
		w.mu.Unlock()
		return w.deliver(ctx, key, msg)
	}

	w.wg.Add(1)
	w.pending[key] = time.AfterFunc(wait, func() {
		defer w.wg.Done()
		w.mu.Lock()
		delete(w.pending, key)
		w.mu.Unlock()

		dctx := context.WithoutCancel(ctx)
		if err := w.deliver(dctx, key, msg); err != nil {
			w.log.ErrorContext(dctx, "Failed to deliver reminder",
				log.FieldError, err,
				"title", msg.Title)
		}
	})
	w.mu.Unlock()

	w.log.InfoContext(ctx, "Reminder scheduled",
		"title", msg.Title,
		"at", msg.At.Format(time.RFC3339))
	return nil
}

func (w *ReminderWorker) deliver(ctx context.Context, key string, msg *amqp.ReminderMessage) error {
	if err := w.notifier.Notify(ctx, msg.Title, msg.Body); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	w.delivered.Set(key, w.now())
	return nil
}

// Pending returns the number of reminders waiting for their time.
func (w *ReminderWorker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Stop cancels every held reminder and waits for deliveries in flight.
// Cancelled reminders are lost; the processor republishes on its next
// occurrence.
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	for key, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, key)
	}
	w.mu.Unlock()
	w.wg.Wait()
}
