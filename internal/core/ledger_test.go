package core

import (
	"math/rand"
	"testing"
)

func TestContribution(t *testing.T) {
	tests := []struct {
		typ    TransactionType
		amount Money
		want   Money
	}{
		{TypeIncome, 100, 100},
		{TypeAdjustment, 100, 100},
		{TypeAdjustment, -100, -100},
		{TypeExpense, 100, -100},
		{TypeTransfer, -100, -100},
		{TypeTransfer, 100, 100},
		{TypeLoan, -100, -100},
		{TypeLoan, 100, 100},
		{TransactionType("bogus"), 100, 0},
	}
	for _, tt := range tests {
		if got := tt.typ.Contribution(tt.amount); got != tt.want {
			t.Errorf("%s.Contribution(%d) = %d, want %d", tt.typ, tt.amount, got, tt.want)
		}
	}
}

func TestFoldBalanceIsOrderIndependent(t *testing.T) {
	entries := []Entry{
		{TypeAdjustment, 50000},
		{TypeExpense, 20000},
		{TypeTransfer, -10000},
		{TypeIncome, 3000},
		{TypeLoan, 7000},
		{TypeLoan, -2000},
	}
	want := FoldBalance(entries)
	if want != 28000 {
		t.Fatalf("FoldBalance() = %d, want 28000", want)
	}

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]Entry(nil), entries...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := FoldBalance(shuffled); got != want {
			t.Fatalf("shuffle %d: FoldBalance() = %d, want %d", i, got, want)
		}
	}
}

func TestLoanSigns(t *testing.T) {
	if got := IOwe.SeedAmount(1000); got != 1000 {
		t.Errorf("IOwe.SeedAmount = %d, want 1000", got)
	}
	if got := OwedToMe.SeedAmount(1000); got != -1000 {
		t.Errorf("OwedToMe.SeedAmount = %d, want -1000", got)
	}
	if got := IOwe.PaymentAmount(300); got != -300 {
		t.Errorf("IOwe.PaymentAmount = %d, want -300", got)
	}
	if got := OwedToMe.PaymentAmount(300); got != 300 {
		t.Errorf("OwedToMe.PaymentAmount = %d, want 300", got)
	}
}

func TestRemaining(t *testing.T) {
	if got := Remaining(1000, 400); got != 600 {
		t.Errorf("Remaining = %d, want 600", got)
	}
	if got := Remaining(1000, 1000); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
	if got := Remaining(1000, 1500); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}

func TestComputeNetWorth(t *testing.T) {
	nw := ComputeNetWorth(100000, []LoanPosition{
		{Direction: OwedToMe, Remaining: 30000},
		{Direction: OwedToMe, Remaining: 5000},
		{Direction: IOwe, Remaining: 20000},
	})
	if nw.Receivable != 35000 || nw.Payable != 20000 || nw.Net != 115000 {
		t.Fatalf("unexpected net worth %+v", nw)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		spent, amount Money
		want          BudgetStatus
	}{
		{0, 1000, BudgetOK},
		{799, 1000, BudgetOK},
		{800, 1000, BudgetWarning},
		{999, 1000, BudgetWarning},
		{1000, 1000, BudgetExceeded},
		{2500, 1000, BudgetExceeded},
	}
	for _, tt := range tests {
		if _, got := StatusFor(tt.spent, tt.amount); got != tt.want {
			t.Errorf("StatusFor(%d, %d) = %s, want %s", tt.spent, tt.amount, got, tt.want)
		}
	}
}

func TestGoalProgressIsNotClamped(t *testing.T) {
	p := NewGoalProgress(Goal{TargetAmount: 1000}, 1500)
	if p.Percent != 150 {
		t.Fatalf("Percent = %v, want 150", p.Percent)
	}
	if p.Bar() != 100 {
		t.Fatalf("Bar() = %v, want 100", p.Bar())
	}
}
