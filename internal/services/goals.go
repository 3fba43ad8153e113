package services

import (
	"context"
	"fmt"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// GoalService tracks savings goals. The saved amount is always the sum of
// contributions.
type GoalService struct {
	store Store
	log   *log.Logger
}

func NewGoalService(store Store) *GoalService {
	return &GoalService{
		store: store,
		log:   log.ForComponent(log.ComponentGoals),
	}
}

func (s *GoalService) CreateGoal(ctx context.Context, e core.GoalEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.Queries().InsertGoal(ctx, core.Goal{
		Name:         strings.TrimSpace(e.Name),
		TargetAmount: e.TargetAmount,
		TargetDate:   e.TargetDate,
		Note:         e.Note,
	})
	if err != nil {
		return 0, fmt.Errorf("create goal: %w", err)
	}
	s.log.InfoContext(ctx, "Goal created", log.FieldGoalID, id, log.FieldAmount, int64(e.TargetAmount))
	return id, nil
}

// AddContribution records a signed contribution: positive adds savings,
// negative withdraws them. A withdrawal larger than the saved amount is
// rejected.
func (s *GoalService) AddContribution(ctx context.Context, e core.ContributionEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		s.log.WarnContext(ctx, "Contribution rejected", log.FieldError, err)
		return 0, err
	}

	var id int64
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetGoal(ctx, e.GoalID); err != nil {
			return err
		}
		if e.Amount < 0 {
			saved, err := q.SumContributions(ctx, e.GoalID)
			if err != nil {
				return err
			}
			if e.Amount.Abs() > saved {
				return fmt.Errorf("%w: saved %d, withdrawal %d", core.ErrInsufficientSavings, saved, e.Amount.Abs())
			}
		}
		var err error
		id, err = q.InsertContribution(ctx, core.GoalContribution{
			GoalID:    e.GoalID,
			Date:      e.Date,
			Amount:    e.Amount,
			AccountID: e.AccountID,
			Note:      e.Note,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("add goal contribution: %w", err)
	}

	s.log.InfoContext(ctx, "Goal contribution recorded", log.FieldGoalID, e.GoalID, log.FieldAmount, int64(e.Amount))
	return id, nil
}

// SavedAmount sums the goal's contributions.
func (s *GoalService) SavedAmount(ctx context.Context, goalID int64) (core.Money, error) {
	q := s.store.Queries()
	if _, err := q.GetGoal(ctx, goalID); err != nil {
		return 0, err
	}
	return q.SumContributions(ctx, goalID)
}

func (s *GoalService) GetGoal(ctx context.Context, goalID int64) (core.GoalProgress, error) {
	q := s.store.Queries()
	g, err := q.GetGoal(ctx, goalID)
	if err != nil {
		return core.GoalProgress{}, err
	}
	saved, err := q.SumContributions(ctx, goalID)
	if err != nil {
		return core.GoalProgress{}, err
	}
	return core.NewGoalProgress(g, saved), nil
}

func (s *GoalService) ListGoals(ctx context.Context) ([]core.GoalProgress, error) {
	q := s.store.Queries()
	goals, err := q.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.GoalProgress, 0, len(goals))
	for _, g := range goals {
		saved, err := q.SumContributions(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, core.NewGoalProgress(g, saved))
	}
	return out, nil
}

func (s *GoalService) ListContributions(ctx context.Context, goalID int64) ([]core.GoalContribution, error) {
	return s.store.Queries().ListContributions(ctx, goalID)
}
