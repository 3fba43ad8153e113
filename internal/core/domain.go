package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountBank       AccountType = "bank"
	AccountCash       AccountType = "cash"
	AccountWallet     AccountType = "wallet"
	AccountInvestment AccountType = "investment"

	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"

	TypeIncome     TransactionType = "income"
	TypeExpense    TransactionType = "expense"
	TypeTransfer   TransactionType = "transfer"
	TypeAdjustment TransactionType = "adjustment"
	TypeLoan       TransactionType = "loan"

	OwedToMe LoanDirection = "owed_to_me"
	IOwe     LoanDirection = "i_owe"

	LoanOpen   LoanStatus = "open"
	LoanClosed LoanStatus = "closed"
)

type (
	AccountType     string
	CategoryKind    string
	TransactionType string
	LoanDirection   string
	LoanStatus      string

	Account struct {
		ID        int64
		Name      string
		Type      AccountType
		Currency  string
		CreatedAt time.Time
	}

	// AccountBalance pairs an account with its derived balance.
	AccountBalance struct {
		Account
		Balance Money
	}

	Category struct {
		ID       int64
		Name     string
		ParentID *int64
		Kind     CategoryKind
	}

	Tag struct {
		ID   int64
		Name string
	}

	Transaction struct {
		ID            int64
		Date          Date
		Type          TransactionType
		Amount        Money // signed as stored, see TransactionType.Contribution
		AccountID     int64
		CategoryID    *int64
		Note          string
		AttachmentURI string
		TransferGroup string
		RelatedID     *int64
		CreatedAt     time.Time

		// Filled by detail and list reads only.
		AccountName  string
		CategoryName string
		Splits       []Split
		Tags         []string
	}

	Split struct {
		ID            int64
		TransactionID int64
		CategoryID    int64
		CategoryName  string
		Amount        Money
	}

	Loan struct {
		ID           int64
		Direction    LoanDirection
		Person       string
		Principal    Money
		InterestRate decimal.Decimal
		StartDate    Date
		Note         string
		Status       LoanStatus
	}

	LoanPayment struct {
		ID          int64
		LoanID      int64
		Date        Date
		Amount      Money // always unsigned
		AccountID   int64
		AccountName string
		Note        string
		CreatedAt   time.Time
	}

	Budget struct {
		ID           int64
		Month        Month
		CategoryID   int64
		CategoryName string
		Amount       Money
		Rollover     bool
	}

	Goal struct {
		ID           int64
		Name         string
		TargetAmount Money
		TargetDate   *Date
		Note         string
	}

	GoalContribution struct {
		ID          int64
		GoalID      int64
		Date        Date
		Amount      Money // +add / -withdraw
		AccountID   *int64
		AccountName string
		Note        string
		CreatedAt   time.Time
	}

	Recurring struct {
		ID           int64
		Name         string
		Type         TransactionType // income or expense
		Amount       Money
		AccountID    int64
		AccountName  string
		CategoryID   *int64
		CategoryName string
		DayOfMonth   int
		NextDate     Date
		Active       bool
		Note         string
	}
)

// ErrValidation is the root of every input validation failure. Validation
// errors are always reported before anything is written.
var ErrValidation = errors.New("validation failed")

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

var (
	ErrInvalidAmount       = validationError("invalid amount")
	ErrInvalidDate         = validationError("invalid date")
	ErrInvalidMonth        = validationError("invalid month")
	ErrInvalidType         = validationError("invalid type")
	ErrEmptyName           = validationError("empty name")
	ErrInvalidAccount      = validationError("invalid account")
	ErrSameAccount         = validationError("source and destination account are the same")
	ErrSplitMismatch       = validationError("split amounts do not add up to the transaction amount")
	ErrInvalidSplit        = validationError("invalid split")
	ErrInvalidDirection    = validationError("invalid loan direction")
	ErrOverpayment         = validationError("payment exceeds remaining loan balance")
	ErrLoanClosed          = validationError("loan is closed")
	ErrInsufficientSavings = validationError("withdrawal exceeds saved amount")
	ErrInvalidDay          = validationError("invalid day of month")
	ErrInvalidCategoryKind = validationError("invalid category kind")
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountBank, AccountCash, AccountWallet, AccountInvestment:
		return true
	}
	return false
}

func (k CategoryKind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

func (t TransactionType) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer, TypeAdjustment, TypeLoan:
		return true
	}
	return false
}

func (d LoanDirection) IsValid() bool {
	return d == OwedToMe || d == IOwe
}

// HasSplits reports whether the transaction amount is allocated through splits.
func (t Transaction) HasSplits() bool {
	return len(t.Splits) > 0
}
