package core

// FirstOccurrence returns the first date on or after today that falls on
// day of month, clamped to the last day of short months.
func FirstOccurrence(day int, today Date) Date {
	next := today.Month().Day(day)
	if next.Before(today.Time) {
		next = today.Month().Next().Day(day)
	}
	return next
}

// NextOccurrence returns the occurrence following current, in the next month.
func NextOccurrence(day int, current Date) Date {
	return current.Month().Next().Day(day)
}

// IsDue reports whether an active template's next date has been reached.
func (r Recurring) IsDue(today Date) bool {
	return r.Active && !r.NextDate.After(today.Time)
}
