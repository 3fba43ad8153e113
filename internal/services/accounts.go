package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

const initialBalanceNote = "Initial balance"

// balanceWorkers bounds concurrent balance queries in ListWithBalances.
const balanceWorkers = 4

// AccountService manages accounts and derives their balances.
type AccountService struct {
	store    Store
	currency string
	log      *log.Logger
}

func NewAccountService(store Store, currency string) *AccountService {
	if currency == "" {
		currency = core.DefaultCurrency
	}
	return &AccountService{
		store:    store,
		currency: strings.ToUpper(currency),
		log:      log.ForComponent(log.ComponentLedger),
	}
}

// CreateAccount inserts the account and, for a non-zero initial balance,
// the signed adjustment carrying it, as one unit of work.
func (s *AccountService) CreateAccount(ctx context.Context, e core.AccountEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		s.log.WarnContext(ctx, "Account rejected", log.FieldError, err)
		return 0, err
	}
	currency := e.Currency
	if currency == "" {
		currency = s.currency
	}
	date := e.InitialDate
	if date.IsZero() {
		date = core.Today()
	}

	var id int64
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		var err error
		id, err = q.CreateAccount(ctx, core.Account{
			Name:     strings.TrimSpace(e.Name),
			Type:     e.Type,
			Currency: strings.ToUpper(currency),
		})
		if err != nil {
			return err
		}
		if e.InitialBalance == 0 {
			return nil
		}
		_, err = q.InsertTransaction(ctx, core.Transaction{
			Date:      date,
			Type:      core.TypeAdjustment,
			Amount:    e.InitialBalance,
			AccountID: id,
			Note:      initialBalanceNote,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}

	s.log.InfoContext(ctx, "Account created",
		log.FieldAccountID, id,
		"name", e.Name,
		log.FieldAmount, int64(e.InitialBalance))
	return id, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	return s.store.Queries().GetAccount(ctx, id)
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.store.Queries().ListAccounts(ctx)
}

// Balance folds every transaction of the account. It is recomputed on
// each call and never cached.
func (s *AccountService) Balance(ctx context.Context, accountID int64) (core.Money, error) {
	if _, err := s.store.Queries().GetAccount(ctx, accountID); err != nil {
		return 0, err
	}
	return s.balance(ctx, accountID)
}

func (s *AccountService) balance(ctx context.Context, accountID int64) (core.Money, error) {
	totals, err := s.store.Queries().TypeTotals(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return core.FoldBalance(totals), nil
}

// ListWithBalances returns every account with its derived balance.
func (s *AccountService) ListWithBalances(ctx context.Context) ([]core.AccountBalance, error) {
	accounts, err := s.store.Queries().ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.AccountBalance, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceWorkers)
	for i, a := range accounts {
		i, a := i, a
		g.Go(func() error {
			b, err := s.balance(gctx, a.ID)
			if err != nil {
				return fmt.Errorf("balance of account %d: %w", a.ID, err)
			}
			out[i] = core.AccountBalance{Account: a, Balance: b}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// NetWorth is the cash across all accounts plus what open loans owe me
// minus what I owe on open loans.
func (s *AccountService) NetWorth(ctx context.Context) (core.NetWorth, error) {
	q := s.store.Queries()
	cash, err := s.balance(ctx, 0)
	if err != nil {
		return core.NetWorth{}, fmt.Errorf("cash position: %w", err)
	}

	loans, err := q.OpenLoans(ctx)
	if err != nil {
		return core.NetWorth{}, err
	}
	positions := make([]core.LoanPosition, 0, len(loans))
	for _, l := range loans {
		paid, err := q.SumPayments(ctx, l.ID)
		if err != nil {
			return core.NetWorth{}, err
		}
		positions = append(positions, core.LoanPosition{
			Direction: l.Direction,
			Remaining: core.Remaining(l.Principal, paid),
		})
	}
	return core.ComputeNetWorth(cash, positions), nil
}
