package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const maxNoteLength = 500

type (
	// AccountEntry is the input of account creation. A non-zero
	// InitialBalance is recorded as a signed adjustment.
	AccountEntry struct {
		Name           string
		Type           AccountType
		Currency       string
		InitialBalance Money
		InitialDate    Date
	}

	SplitEntry struct {
		CategoryID int64
		Amount     Money
	}

	// TransactionEntry is an income, expense or adjustment entered as an
	// unsigned magnitude.
	TransactionEntry struct {
		Date          Date
		Type          TransactionType
		Amount        Money
		AccountID     int64
		CategoryID    *int64
		Note          string
		AttachmentURI string
		Tags          []string
		Splits        []SplitEntry
	}

	TransferEntry struct {
		Date          Date
		Amount        Money
		FromAccountID int64
		ToAccountID   int64
		Note          string
	}

	LoanEntry struct {
		Direction    LoanDirection
		Person       string
		Principal    Money
		InterestRate decimal.Decimal
		StartDate    Date
		Note         string
		AccountID    int64
	}

	PaymentEntry struct {
		LoanID    int64
		Date      Date
		Amount    Money
		AccountID int64
		Note      string
	}

	GoalEntry struct {
		Name         string
		TargetAmount Money
		TargetDate   *Date
		Note         string
	}

	// ContributionEntry carries a signed amount: positive adds savings,
	// negative withdraws them.
	ContributionEntry struct {
		GoalID    int64
		Date      Date
		Amount    Money
		AccountID *int64
		Note      string
	}

	BudgetEntry struct {
		Month      Month
		CategoryID int64
		Amount     Money
		Rollover   bool
	}

	RecurringEntry struct {
		Name       string
		Type       TransactionType
		Amount     Money
		AccountID  int64
		CategoryID *int64
		DayOfMonth int
		Note       string
	}
)

func validateNote(note string) error {
	if len(note) > maxNoteLength {
		return validationError(fmt.Sprintf("note too long (max %d characters)", maxNoteLength))
	}
	return nil
}

func (e AccountEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: account type %q", ErrInvalidType, e.Type)
	}
	return nil
}

func (e TransactionEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	switch e.Type {
	case TypeIncome, TypeExpense, TypeAdjustment:
	default:
		return fmt.Errorf("%w: %q cannot be entered directly", ErrInvalidType, e.Type)
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.AccountID <= 0 {
		return ErrInvalidAccount
	}
	if err := validateNote(e.Note); err != nil {
		return err
	}
	if len(e.Splits) == 0 {
		return nil
	}
	var sum Money
	for i, s := range e.Splits {
		if s.CategoryID <= 0 || s.Amount <= 0 {
			return fmt.Errorf("%w: split %d", ErrInvalidSplit, i)
		}
		sum += s.Amount
	}
	if sum != e.Amount {
		return fmt.Errorf("%w: splits %d, amount %d", ErrSplitMismatch, sum, e.Amount)
	}
	return nil
}

func (e TransferEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount == 0 {
		return ErrInvalidAmount
	}
	if e.FromAccountID <= 0 || e.ToAccountID <= 0 {
		return ErrInvalidAccount
	}
	if e.FromAccountID == e.ToAccountID {
		return ErrSameAccount
	}
	return validateNote(e.Note)
}

func (e LoanEntry) Validate() error {
	if !e.Direction.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, e.Direction)
	}
	if strings.TrimSpace(e.Person) == "" {
		return ErrEmptyName
	}
	if err := e.Principal.Validate(); err != nil {
		return err
	}
	if e.InterestRate.IsNegative() {
		return validationError("negative interest rate")
	}
	if err := e.StartDate.Validate(); err != nil {
		return err
	}
	if e.AccountID <= 0 {
		return ErrInvalidAccount
	}
	return validateNote(e.Note)
}

func (e PaymentEntry) Validate() error {
	if e.LoanID <= 0 {
		return validationError("missing loan")
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.AccountID <= 0 {
		return ErrInvalidAccount
	}
	return validateNote(e.Note)
}

func (e GoalEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if err := e.TargetAmount.Validate(); err != nil {
		return err
	}
	return validateNote(e.Note)
}

func (e ContributionEntry) Validate() error {
	if e.GoalID <= 0 {
		return validationError("missing goal")
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount == 0 {
		return ErrInvalidAmount
	}
	if e.AccountID != nil && *e.AccountID <= 0 {
		return ErrInvalidAccount
	}
	return validateNote(e.Note)
}

func (e BudgetEntry) Validate() error {
	if err := e.Month.Validate(); err != nil {
		return err
	}
	if e.CategoryID <= 0 {
		return validationError("missing category")
	}
	return e.Amount.Validate()
}

func (e RecurringEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Type != TypeIncome && e.Type != TypeExpense {
		return fmt.Errorf("%w: recurring type %q", ErrInvalidType, e.Type)
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.AccountID <= 0 {
		return ErrInvalidAccount
	}
	if e.DayOfMonth < 1 || e.DayOfMonth > 31 {
		return ErrInvalidDay
	}
	return validateNote(e.Note)
}
