package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-02")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if m.String() != "2025-02" || m.DaysIn() != 28 {
		t.Fatalf("unexpected month %s with %d days", m, m.DaysIn())
	}
	if got := m.Day(31).String(); got != "2025-02-28" {
		t.Fatalf("expected clamped day, got %s", got)
	}
	if got := NewMonth(2025, time.December).Next().String(); got != "2026-01" {
		t.Fatalf("expected 2026-01, got %s", got)
	}
	for _, bad := range []string{"", "2025-13", "2025/01", "abc"} {
		if _, err := ParseMonth(bad); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("%q expected ErrInvalidMonth, got %v", bad, err)
		}
	}
}

func TestValidationErrorsShareRoot(t *testing.T) {
	for _, err := range []error{ErrInvalidAmount, ErrSameAccount, ErrSplitMismatch, ErrOverpayment, ErrInsufficientSavings} {
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%v should wrap ErrValidation", err)
		}
	}
}

func TestTransactionEntryValidate(t *testing.T) {
	comida := int64(3)
	good := TransactionEntry{
		Date:       NewDate(2025, 1, 1),
		Type:       TypeExpense,
		Amount:     1000,
		AccountID:  1,
		CategoryID: &comida,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	split := good
	split.Splits = []SplitEntry{{CategoryID: 1, Amount: 300}, {CategoryID: 2, Amount: 700}}
	if err := split.Validate(); err != nil {
		t.Fatalf("expected ok splits, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(e *TransactionEntry)
		want   error
	}{
		{"zero date", func(e *TransactionEntry) { e.Date = Date{} }, ErrInvalidDate},
		{"zero amount", func(e *TransactionEntry) { e.Amount = 0 }, ErrInvalidAmount},
		{"negative amount", func(e *TransactionEntry) { e.Amount = -5 }, ErrInvalidAmount},
		{"transfer type", func(e *TransactionEntry) { e.Type = TypeTransfer }, ErrInvalidType},
		{"loan type", func(e *TransactionEntry) { e.Type = TypeLoan }, ErrInvalidType},
		{"missing account", func(e *TransactionEntry) { e.AccountID = 0 }, ErrInvalidAccount},
		{"split mismatch", func(e *TransactionEntry) {
			e.Splits = []SplitEntry{{CategoryID: 1, Amount: 300}, {CategoryID: 2, Amount: 600}}
		}, ErrSplitMismatch},
		{"split without category", func(e *TransactionEntry) {
			e.Splits = []SplitEntry{{CategoryID: 0, Amount: 1000}}
		}, ErrInvalidSplit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := good
			tt.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTransferEntryValidate(t *testing.T) {
	e := TransferEntry{Date: NewDate(2025, 1, 1), Amount: 10000, FromAccountID: 1, ToAccountID: 1}
	if err := e.Validate(); !errors.Is(err, ErrSameAccount) {
		t.Fatalf("expected ErrSameAccount, got %v", err)
	}
	e.ToAccountID = 2
	if err := e.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestRecurringEntryValidate(t *testing.T) {
	e := RecurringEntry{Name: "Rent", Type: TypeExpense, Amount: 900000, AccountID: 1, DayOfMonth: 5}
	if err := e.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	e.DayOfMonth = 32
	if err := e.Validate(); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got %v", err)
	}
	e.DayOfMonth = 5
	e.Type = TypeAdjustment
	if err := e.Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Viaje ", "viaje", "", "  ", "CAFÉ", "Café"})
	want := []string{"viaje", "café"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NormalizeTags() = %v, want %v", got, want)
		}
	}
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name  string
		day   int
		today Date
		want  string
	}{
		{"later this month", 20, NewDate(2025, 3, 10), "2025-03-20"},
		{"today", 10, NewDate(2025, 3, 10), "2025-03-10"},
		{"already past", 5, NewDate(2025, 3, 10), "2025-04-05"},
		{"clamped to february", 31, NewDate(2025, 2, 1), "2025-02-28"},
		{"past in december", 1, NewDate(2025, 12, 15), "2026-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstOccurrence(tt.day, tt.today).String(); got != tt.want {
				t.Errorf("FirstOccurrence() = %s, want %s", got, tt.want)
			}
		})
	}

	if got := NextOccurrence(31, NewDate(2025, 2, 28)).String(); got != "2025-03-31" {
		t.Fatalf("NextOccurrence() = %s, want 2025-03-31", got)
	}
}
