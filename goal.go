package flowfinance

import (
	"errors"
	"fmt"
)

// GoalKind tells how a BudgetGoal should be read.
type GoalKind string

const (
	// SpendingLimit means "don't spend more than this in this category this month".
	SpendingLimit GoalKind = "spending_limit"
	// SavingGoal is defined but evaluated exactly like a SpendingLimit.
	SavingGoal GoalKind = "saving_goal"
)

// ParseGoalKind parses a GoalKind, "limit" and "saving" are accepted as short forms.
func ParseGoalKind(s string) (GoalKind, error) {
	switch s {
	case string(SpendingLimit), "limit":
		return SpendingLimit, nil
	case string(SavingGoal), "saving":
		return SavingGoal, nil
	default:
		return "", fmt.Errorf("invalid goal type %q, want %q or %q", s, SpendingLimit, SavingGoal)
	}
}

// BudgetGoal is a monthly target for a category. Its progress is always derived.
type BudgetGoal struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	TargetAmount Money    `json:"targetAmount"`
	Kind         GoalKind `json:"type"`
}

// Validate returns all the reasons why g cannot be registered, or nil.
func (g BudgetGoal) Validate() error {
	var errs error
	if g.ID == "" {
		errs = errors.Join(errs, errors.New("goal id is missing"))
	}
	if g.Category == "" {
		errs = errors.Join(errs, errors.New("goal category is missing"))
	}
	if !g.TargetAmount.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("%w: target %s must be positive", ErrInvalidAmount, g.TargetAmount.Decimal()))
	}
	if g.Kind != SpendingLimit && g.Kind != SavingGoal {
		errs = errors.Join(errs, fmt.Errorf("invalid goal type %q", g.Kind))
	}
	return errs
}
