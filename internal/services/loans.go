package services

import (
	"context"
	"fmt"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

const loanPaymentNote = "Loan payment"

// LoanService tracks borrowed and lent money as linked ledger rows.
type LoanService struct {
	store Store
	log   *log.Logger
}

func NewLoanService(store Store) *LoanService {
	return &LoanService{
		store: store,
		log:   log.ForComponent(log.ComponentLoans),
	}
}

// LoanBalance is a loan with its remaining balance.
type LoanBalance struct {
	core.Loan
	Paid      core.Money
	Remaining core.Money
}

func seedNote(d core.LoanDirection, person string) string {
	if d == core.IOwe {
		return fmt.Sprintf("Loan from %s", person)
	}
	return fmt.Sprintf("Loan to %s", person)
}

// CreateLoan opens a loan and records its seed transaction on the account:
// borrowed principal comes in, lent principal goes out.
func (s *LoanService) CreateLoan(ctx context.Context, e core.LoanEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		s.log.WarnContext(ctx, "Loan rejected", log.FieldError, err)
		return 0, err
	}
	person := strings.TrimSpace(e.Person)

	var id int64
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		var err error
		id, err = q.InsertLoan(ctx, core.Loan{
			Direction:    e.Direction,
			Person:       person,
			Principal:    e.Principal,
			InterestRate: e.InterestRate,
			StartDate:    e.StartDate,
			Note:         e.Note,
			Status:       core.LoanOpen,
		})
		if err != nil {
			return err
		}
		loanID := id
		_, err = q.InsertTransaction(ctx, core.Transaction{
			Date:      e.StartDate,
			Type:      core.TypeLoan,
			Amount:    e.Direction.SeedAmount(e.Principal),
			AccountID: e.AccountID,
			Note:      seedNote(e.Direction, person),
			RelatedID: &loanID,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create loan: %w", err)
	}

	s.log.InfoContext(ctx, "Loan created",
		log.FieldLoanID, id,
		"direction", e.Direction,
		log.FieldAmount, int64(e.Principal))
	return id, nil
}

// RecordPayment stores a payment and its ledger transaction. A payment
// larger than the remaining balance is rejected; the payment that settles
// the loan closes it.
func (s *LoanService) RecordPayment(ctx context.Context, e core.PaymentEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		s.log.WarnContext(ctx, "Loan payment rejected", log.FieldError, err)
		return 0, err
	}

	var (
		id     int64
		closed bool
	)
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		loan, err := q.GetLoan(ctx, e.LoanID)
		if err != nil {
			return err
		}
		if loan.Status == core.LoanClosed {
			return fmt.Errorf("%w: loan %d", core.ErrLoanClosed, loan.ID)
		}
		paid, err := q.SumPayments(ctx, loan.ID)
		if err != nil {
			return err
		}
		remaining := core.Remaining(loan.Principal, paid)
		if e.Amount > remaining {
			return fmt.Errorf("%w: remaining %d, payment %d", core.ErrOverpayment, remaining, e.Amount)
		}

		id, err = q.InsertPayment(ctx, core.LoanPayment{
			LoanID:    loan.ID,
			Date:      e.Date,
			Amount:    e.Amount,
			AccountID: e.AccountID,
			Note:      e.Note,
		})
		if err != nil {
			return err
		}
		loanID := loan.ID
		note := e.Note
		if note == "" {
			note = loanPaymentNote
		}
		if _, err := q.InsertTransaction(ctx, core.Transaction{
			Date:      e.Date,
			Type:      core.TypeLoan,
			Amount:    loan.Direction.PaymentAmount(e.Amount),
			AccountID: e.AccountID,
			Note:      note,
			RelatedID: &loanID,
		}); err != nil {
			return err
		}

		if core.Remaining(loan.Principal, paid+e.Amount) == 0 {
			closed = true
			return q.SetLoanStatus(ctx, loan.ID, core.LoanClosed)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record loan payment: %w", err)
	}

	s.log.InfoContext(ctx, "Loan payment recorded",
		log.FieldLoanID, e.LoanID,
		log.FieldAmount, int64(e.Amount))
	if closed {
		s.log.InfoContext(ctx, "Loan closed", log.FieldLoanID, e.LoanID)
	}
	return id, nil
}

// Remaining returns principal minus payments, never below zero.
func (s *LoanService) Remaining(ctx context.Context, loanID int64) (core.Money, error) {
	b, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return 0, err
	}
	return b.Remaining, nil
}

func (s *LoanService) GetLoan(ctx context.Context, loanID int64) (LoanBalance, error) {
	q := s.store.Queries()
	loan, err := q.GetLoan(ctx, loanID)
	if err != nil {
		return LoanBalance{}, err
	}
	return s.withBalance(ctx, q, loan)
}

// ListLoans returns open loans first, then closed ones, newest first.
func (s *LoanService) ListLoans(ctx context.Context) ([]LoanBalance, error) {
	q := s.store.Queries()
	loans, err := q.ListLoans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LoanBalance, 0, len(loans))
	for _, l := range loans {
		b, err := s.withBalance(ctx, q, l)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *LoanService) withBalance(ctx context.Context, q *storage.Queries, l core.Loan) (LoanBalance, error) {
	paid, err := q.SumPayments(ctx, l.ID)
	if err != nil {
		return LoanBalance{}, err
	}
	return LoanBalance{Loan: l, Paid: paid, Remaining: core.Remaining(l.Principal, paid)}, nil
}

func (s *LoanService) ListPayments(ctx context.Context, loanID int64) ([]core.LoanPayment, error) {
	return s.store.Queries().ListPayments(ctx, loanID)
}

// CloseLoan closes a loan by hand. Closing a closed loan is a no-op; a loan
// never reopens.
func (s *LoanService) CloseLoan(ctx context.Context, loanID int64) error {
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		loan, err := q.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status == core.LoanClosed {
			return nil
		}
		return q.SetLoanStatus(ctx, loanID, core.LoanClosed)
	})
	if err != nil {
		return fmt.Errorf("close loan: %w", err)
	}
	s.log.InfoContext(ctx, "Loan closed", log.FieldLoanID, loanID)
	return nil
}
