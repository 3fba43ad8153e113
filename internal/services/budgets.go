package services

import (
	"context"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/log"
)

// BudgetService sets monthly category caps and compares them with spending.
type BudgetService struct {
	store        Store
	transactions *TransactionService
	log          *log.Logger
}

func NewBudgetService(store Store, transactions *TransactionService) *BudgetService {
	return &BudgetService{
		store:        store,
		transactions: transactions,
		log:          log.ForComponent(log.ComponentBudgets),
	}
}

// UpsertBudget creates the budget of a (month, category) pair or replaces
// its amount and rollover flag. There is never more than one row per pair.
func (s *BudgetService) UpsertBudget(ctx context.Context, e core.BudgetEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.Queries().UpsertBudget(ctx, e)
	if err != nil {
		return 0, err
	}
	s.log.InfoContext(ctx, "Budget saved",
		log.FieldMonth, e.Month.String(),
		"category_id", e.CategoryID,
		log.FieldAmount, int64(e.Amount))
	return id, nil
}

func (s *BudgetService) ListBudgets(ctx context.Context, month core.Month) ([]core.Budget, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}
	return s.store.Queries().ListBudgets(ctx, month)
}

// Progress compares each budget of the month with the month's expenses of
// the same category name, split allocations included.
func (s *BudgetService) Progress(ctx context.Context, month core.Month) ([]core.BudgetProgress, error) {
	budgets, err := s.ListBudgets(ctx, month)
	if err != nil {
		return nil, err
	}
	spending, err := s.transactions.ExpensesByCategory(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("budget progress: %w", err)
	}
	spent := make(map[string]core.Money, len(spending))
	for _, c := range spending {
		spent[c.Name] = c.Amount
	}

	out := make([]core.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		amount := spent[b.CategoryName]
		pct, status := core.StatusFor(amount, b.Amount)
		out = append(out, core.BudgetProgress{Budget: b, Spent: amount, Percent: pct, Status: status})
	}
	return out, nil
}
