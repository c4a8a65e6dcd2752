package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

// GoalInput is the body of goal create and edit calls
type GoalInput struct {
	Name          string              `json:"name"`
	Icon          string              `json:"icon"`
	TargetAmount  decimal.Decimal     `json:"target_amount"`
	CurrentAmount *decimal.Decimal    `json:"current_amount"`
	Deadline      *models.Date        `json:"deadline"`
	Priority      models.GoalPriority `json:"priority"`
}

const (
	defaultGoalIcon = "target"
	maxIconLength   = 50
)

func (in *GoalInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	in.Priority = models.GoalPriority(strings.ToUpper(string(in.Priority)))
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.Deadline != nil && in.Deadline.IsZero() {
		in.Deadline = nil
	}
	switch {
	case in.Name == "":
		return validationf("name is required")
	case utf8.RuneCountInString(in.Icon) > maxIconLength:
		return validationf("icon must be at most %d characters", maxIconLength)
	case !in.Priority.Valid():
		return validationf("priority must be one of HIGH, MEDIUM, LOW")
	}
	return positiveAmount("target_amount", in.TargetAmount)
}

// goalView derives progress figures
func goalView(g models.Goal) models.GoalView {
	view := models.GoalView{
		Goal:      g,
		Remaining: decimal.Max(g.TargetAmount.Sub(g.CurrentAmount), decimal.Zero),
		Reached:   g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount),
	}
	if g.TargetAmount.IsPositive() {
		view.Progress = g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).Round(2).InexactFloat64()
	}
	view.DisplayProgress = clampPercent(view.Progress)
	return view
}

// CreateGoal adds a savings goal, optionally with an initial amount
func (s *Service) CreateGoal(ctx context.Context, ownerID int64, in GoalInput) (*models.GoalView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Icon == "" {
		in.Icon = defaultGoalIcon
	}
	current := decimal.Zero
	if in.CurrentAmount != nil {
		if in.CurrentAmount.IsNegative() {
			return nil, validationf("current_amount must not be negative")
		}
		if err := checkAmount("current_amount", *in.CurrentAmount); err != nil {
			return nil, err
		}
		current = *in.CurrentAmount
	}

	goal := &models.Goal{
		UserID:        ownerID,
		Name:          in.Name,
		Icon:          in.Icon,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: current,
		Deadline:      in.Deadline,
		Priority:      in.Priority,
	}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, s.fail(ctx, "create", "goal", ownerID, err)
	}

	view := goalView(*goal)
	return &view, nil
}

// ListGoals returns the caller's goals with progress
func (s *Service) ListGoals(ctx context.Context, ownerID int64) ([]models.GoalView, error) {
	goals, err := s.store.ListGoals(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "list", "goal", ownerID, err)
	}
	views := make([]models.GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView(g))
	}
	return views, nil
}

// EditGoal updates name, icon, target, deadline and priority. The saved amount only
// moves through Deposit, so a differing current_amount is rejected.
func (s *Service) EditGoal(ctx context.Context, ownerID, id int64, in GoalInput) (*models.GoalView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	goal, err := s.store.GetGoal(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(ctx, "get", "goal", ownerID, err)
	}
	if in.CurrentAmount != nil && !in.CurrentAmount.Equal(goal.CurrentAmount) {
		return nil, validationf("current_amount can only change through deposits")
	}

	goal.Name = in.Name
	if in.Icon != "" {
		goal.Icon = in.Icon
	}
	goal.TargetAmount = in.TargetAmount
	goal.Deadline = in.Deadline
	goal.Priority = in.Priority
	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return nil, s.fail(ctx, "update", "goal", ownerID, err)
	}

	view := goalView(*goal)
	return &view, nil
}

// Deposit adds a positive amount to a goal's saved total
func (s *Service) Deposit(ctx context.Context, ownerID, id int64, amount decimal.Decimal) (*models.GoalView, error) {
	if err := positiveAmount("amount", amount); err != nil {
		return nil, err
	}

	goal, err := s.store.AddToGoal(ctx, ownerID, id, amount)
	if err != nil {
		return nil, s.fail(ctx, "deposit", "goal", ownerID, err)
	}

	view := goalView(*goal)
	s.log.WithField("owner", ownerID).Infof("Deposited %s to goal %d, progress %.2f%%", amount, id, view.Progress)
	return &view, nil
}

// DeleteGoal removes a goal
func (s *Service) DeleteGoal(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteGoal(ctx, ownerID, id); err != nil {
		return s.fail(ctx, "delete", "goal", ownerID, err)
	}
	return nil
}
