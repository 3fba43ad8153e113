package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
)

const (
	reminderTitle = "Recurring payment"
	reminderHour  = 9
)

// RecurringService manages recurring payment templates. It never creates
// transactions; it only schedules reminders.
type RecurringService struct {
	store     Store
	reminders ReminderScheduler
	currency  string
	log       *log.Logger
	today     func() core.Date
}

func NewRecurringService(store Store, reminders ReminderScheduler, currency string) *RecurringService {
	return &RecurringService{
		store:     store,
		reminders: reminders,
		currency:  currency,
		log:       log.ForComponent(log.ComponentLedger),
		today:     core.Today,
	}
}

// CreateRecurring stores an active template whose next date is the first
// occurrence of its day of month from today, then schedules its reminder.
// A reminder failure does not fail the creation.
func (s *RecurringService) CreateRecurring(ctx context.Context, e core.RecurringEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	r := core.Recurring{
		Name:       strings.TrimSpace(e.Name),
		Type:       e.Type,
		Amount:     e.Amount,
		AccountID:  e.AccountID,
		CategoryID: e.CategoryID,
		DayOfMonth: e.DayOfMonth,
		NextDate:   core.FirstOccurrence(e.DayOfMonth, s.today()),
		Active:     true,
		Note:       e.Note,
	}
	id, err := s.store.Queries().InsertRecurring(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("create recurring: %w", err)
	}
	r.ID = id

	s.log.InfoContext(ctx, "Recurring created",
		log.FieldRecurringID, id,
		"next_date", r.NextDate.String())

	if err := scheduleReminder(ctx, s.reminders, r, s.currency); err != nil {
		s.log.WarnContext(ctx, "Failed to schedule reminder",
			log.FieldRecurringID, id,
			log.FieldError, err)
	}
	return id, nil
}

// ListRecurring returns active templates first.
func (s *RecurringService) ListRecurring(ctx context.Context) ([]core.Recurring, error) {
	return s.store.Queries().ListRecurring(ctx)
}

func (s *RecurringService) SetRecurringActive(ctx context.Context, id int64, active bool) error {
	return s.store.Queries().SetRecurringActive(ctx, id, active)
}

// ReminderAt is the moment a reminder for the given day fires.
func ReminderAt(d core.Date) time.Time {
	return time.Date(d.Year(), d.Time.Month(), d.Day(), reminderHour, 0, 0, 0, time.Local)
}

// ReminderBody describes the template in the reminder text.
func ReminderBody(r core.Recurring, currency string) string {
	return fmt.Sprintf("%s · %s", r.Name, r.Amount.Format(currency))
}

func scheduleReminder(ctx context.Context, reminders ReminderScheduler, r core.Recurring, currency string) error {
	if reminders == nil {
		log.FromContext(ctx).WarnContext(ctx, "Reminder scheduler not available, skipping reminder", log.FieldRecurringID, r.ID)
		return nil
	}
	return reminders.ScheduleReminder(ctx, reminderTitle, ReminderBody(r, currency), ReminderAt(r.NextDate))
}
