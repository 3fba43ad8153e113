package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

const (
	transferOutNote = "Transfer out"
	transferInNote  = "Transfer in"
)

// TransactionService records ledger entries and aggregates them.
type TransactionService struct {
	store Store
	log   *log.Logger
}

func NewTransactionService(store Store) *TransactionService {
	return &TransactionService{
		store: store,
		log:   log.ForComponent(log.ComponentLedger),
	}
}

// RecordTransaction stores an income, expense or adjustment with its splits
// and tags. The amount is a positive magnitude; the type gives its
// direction. Either every row is written or none is.
func (s *TransactionService) RecordTransaction(ctx context.Context, e core.TransactionEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		s.log.WarnContext(ctx, "Transaction rejected", log.FieldError, err)
		return 0, err
	}
	tags := core.NormalizeTags(e.Tags)

	var id int64
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		var err error
		id, err = q.InsertTransaction(ctx, core.Transaction{
			Date:          e.Date,
			Type:          e.Type,
			Amount:        e.Amount,
			AccountID:     e.AccountID,
			CategoryID:    e.CategoryID,
			Note:          strings.TrimSpace(e.Note),
			AttachmentURI: e.AttachmentURI,
		})
		if err != nil {
			return err
		}
		for _, sp := range e.Splits {
			if _, err := q.InsertSplit(ctx, id, sp); err != nil {
				return err
			}
		}
		for _, name := range tags {
			tagID, err := q.UpsertTag(ctx, name)
			if err != nil {
				return err
			}
			if err := q.TagTransaction(ctx, id, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record transaction: %w", err)
	}

	s.log.InfoContext(ctx, "Transaction recorded",
		append([]any{log.FieldTransactionID, id, "splits", len(e.Splits), "tags", len(tags)},
			log.NewFields().WithEntry(string(e.Type), int64(e.Amount), e.AccountID).ToSlice()...)...)
	return id, nil
}

// RecordTransfer writes the two legs of a transfer, -|amount| on the source
// and +|amount| on the destination, under one new transfer group. It
// returns the group key.
func (s *TransactionService) RecordTransfer(ctx context.Context, e core.TransferEntry) (string, error) {
	if err := e.Validate(); err != nil {
		s.log.WarnContext(ctx, "Transfer rejected", log.FieldError, err)
		return "", err
	}
	group := uuid.NewString()
	outNote, inNote := transferOutNote, transferInNote
	if note := strings.TrimSpace(e.Note); note != "" {
		outNote, inNote = note, note
	}

	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		legs := []core.Transaction{
			{AccountID: e.FromAccountID, Amount: -e.Amount.Abs(), Note: outNote},
			{AccountID: e.ToAccountID, Amount: e.Amount.Abs(), Note: inNote},
		}
		for _, leg := range legs {
			leg.Date = e.Date
			leg.Type = core.TypeTransfer
			leg.TransferGroup = group
			if _, err := q.InsertTransaction(ctx, leg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("record transfer: %w", err)
	}

	s.log.InfoContext(ctx, "Transfer recorded",
		log.FieldTransferGroup, group,
		"from", e.FromAccountID,
		"to", e.ToAccountID,
		log.FieldAmount, int64(e.Amount.Abs()))
	return group, nil
}

// GetTransaction returns one transaction with its splits and tags.
func (s *TransactionService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	q := s.store.Queries()
	t, err := q.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if t.Splits, err = q.ListSplits(ctx, id); err != nil {
		return core.Transaction{}, err
	}
	if t.Tags, err = q.TransactionTags(ctx, id); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// ListTransactions returns transactions newest first. accountID 0 lists
// every account, limit 0 lists everything.
func (s *TransactionService) ListTransactions(ctx context.Context, accountID int64, limit int) ([]core.Transaction, error) {
	return s.store.Queries().ListTransactions(ctx, storage.TransactionFilter{AccountID: accountID, Limit: limit})
}

// TransferLegs returns the rows recorded under one transfer group.
func (s *TransactionService) TransferLegs(ctx context.Context, group string) ([]core.Transaction, error) {
	return s.store.Queries().TransferLegs(ctx, group)
}

// ExpensesByCategory aggregates the month's expenses by category, counting
// split transactions through their splits only.
func (s *TransactionService) ExpensesByCategory(ctx context.Context, month core.Month) ([]core.CategoryAmount, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}
	return s.store.Queries().ExpensesByCategory(ctx, month)
}

func (s *TransactionService) MonthSummary(ctx context.Context, month core.Month) (core.MonthSummary, error) {
	if err := month.Validate(); err != nil {
		return core.MonthSummary{}, err
	}
	q := s.store.Queries()
	income, err := q.MonthTotal(ctx, month, core.TypeIncome)
	if err != nil {
		return core.MonthSummary{}, err
	}
	expense, err := q.MonthTotal(ctx, month, core.TypeExpense)
	if err != nil {
		return core.MonthSummary{}, err
	}
	return core.MonthSummary{
		Month:   month,
		Income:  income,
		Expense: expense,
		Savings: income - expense,
	}, nil
}
