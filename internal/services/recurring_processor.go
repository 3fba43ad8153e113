package services

import (
	"context"
	"fmt"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
)

// RecurringProcessor publishes reminders for due recurring templates and
// moves them to their next occurrence.
type RecurringProcessor struct {
	store     Store
	reminders ReminderScheduler
	currency  string
	log       *log.Logger
}

// NewRecurringProcessor creates a new recurring reminder processor
func NewRecurringProcessor(store Store, reminders ReminderScheduler, currency string) *RecurringProcessor {
	return &RecurringProcessor{
		store:     store,
		reminders: reminders,
		currency:  currency,
		log:       log.ForComponent(log.ComponentWorker),
	}
}

// ProcessDue handles every active template whose next date is on or before
// now's day. A template whose reminder cannot be published keeps its next
// date and is retried on the following run.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.reminders == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.DateOf(now)
	due, err := p.store.Queries().DueRecurring(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("get due recurring templates: %w", err)
	}

	p.log.InfoContext(ctx, "Processing recurring templates",
		"due", len(due),
		"processing_date", today.String())

	processed := 0
	for _, r := range due {
		if err := scheduleReminder(ctx, p.reminders, r, p.currency); err != nil {
			p.log.ErrorContext(ctx, "Failed to publish reminder",
				log.FieldRecurringID, r.ID,
				log.FieldError, err)
			continue
		}

		next := r.NextDate
		for !next.After(today.Time) {
			next = core.NextOccurrence(r.DayOfMonth, next)
		}
		if err := p.store.Queries().SetRecurringNextDate(ctx, r.ID, next); err != nil {
			p.log.ErrorContext(ctx, "Failed to advance next date",
				log.FieldRecurringID, r.ID,
				log.FieldError, err)
			continue
		}

		processed++
		p.log.InfoContext(ctx, "Reminder published",
			log.FieldRecurringID, r.ID,
			"name", r.Name,
			"next_date", next.String())
	}

	p.log.InfoContext(ctx, "Recurring processing complete",
		"processed", processed,
		"total_checked", len(due))
	return processed, nil
}
