package core

// Entry is the part of a transaction row that contributes to a balance.
type Entry struct {
	Type   TransactionType
	Amount Money
}

// Contribution returns the signed effect of a stored amount on its account
// balance. Transfer and loan rows already carry their sign.
func (t TransactionType) Contribution(amount Money) Money {
	switch t {
	case TypeIncome, TypeAdjustment:
		return amount
	case TypeExpense:
		return -amount
	case TypeTransfer, TypeLoan:
		return amount
	default:
		return 0
	}
}

// FoldBalance sums the contributions of entries. The result does not depend
// on the order of entries.
func FoldBalance(entries []Entry) Money {
	var balance Money
	for _, e := range entries {
		balance += e.Type.Contribution(e.Amount)
	}
	return balance
}

// SeedAmount is the amount of the transaction recorded when a loan is opened:
// borrowed money enters my account, lent money leaves it.
func (d LoanDirection) SeedAmount(principal Money) Money {
	if d == IOwe {
		return principal.Abs()
	}
	return -principal.Abs()
}

// PaymentAmount is the amount of the transaction recorded for a loan
// payment: paying a debt removes cash, collecting a loan adds it.
func (d LoanDirection) PaymentAmount(amount Money) Money {
	if d == IOwe {
		return -amount.Abs()
	}
	return amount.Abs()
}

// Remaining returns principal minus payments, never below zero.
func Remaining(principal, paid Money) Money {
	if r := principal - paid; r > 0 {
		return r
	}
	return 0
}

// LoanPosition is the outstanding balance of an open loan.
type LoanPosition struct {
	Direction LoanDirection
	Remaining Money
}

// NetWorth is cash plus receivable minus payable.
type NetWorth struct {
	Cash       Money
	Receivable Money
	Payable    Money
	Net        Money
}

func ComputeNetWorth(cash Money, open []LoanPosition) NetWorth {
	nw := NetWorth{Cash: cash}
	for _, l := range open {
		switch l.Direction {
		case OwedToMe:
			nw.Receivable += l.Remaining
		case IOwe:
			nw.Payable += l.Remaining
		}
	}
	nw.Net = nw.Cash + nw.Receivable - nw.Payable
	return nw
}
