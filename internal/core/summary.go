package core

const (
	BudgetOK       BudgetStatus = "ok"
	BudgetWarning  BudgetStatus = "warning"
	BudgetExceeded BudgetStatus = "exceeded"

	budgetWarningPct = 80.0
)

type BudgetStatus string

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthSummary compares income and expenses of one month.
type MonthSummary struct {
	Month   Month
	Income  Money
	Expense Money
	Savings Money
}

// BudgetProgress is the spending of one budgeted category against its cap.
type BudgetProgress struct {
	Budget
	Spent   Money
	Percent float64
	Status  BudgetStatus
}

// GoalProgress is a goal with its saved amount derived from contributions.
type GoalProgress struct {
	Goal
	Saved   Money
	Percent float64 // not clamped, over-saving shows above 100
}

// StatusFor classifies spending against a budget amount.
func StatusFor(spent, amount Money) (float64, BudgetStatus) {
	if amount <= 0 {
		return 0, BudgetExceeded
	}
	pct := float64(spent) * 100 / float64(amount)
	switch {
	case pct >= 100:
		return pct, BudgetExceeded
	case pct >= budgetWarningPct:
		return pct, BudgetWarning
	default:
		return pct, BudgetOK
	}
}

func NewGoalProgress(g Goal, saved Money) GoalProgress {
	p := GoalProgress{Goal: g, Saved: saved}
	if g.TargetAmount > 0 {
		p.Percent = float64(saved) * 100 / float64(g.TargetAmount)
	}
	return p
}

// Bar returns the percentage clamped to [0, 100] for progress bars.
func (p GoalProgress) Bar() float64 {
	switch {
	case p.Percent < 0:
		return 0
	case p.Percent > 100:
		return 100
	}
	return p.Percent
}
