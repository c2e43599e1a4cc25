package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// GoalInput is the goal form as submitted.
type GoalInput struct {
	Title            string
	Objective        string
	Category         string
	Priority         core.Priority
	Status           core.GoalStatus
	TargetDate       core.Date
	RequirementsText string
}

// GoalView is a goal decorated for display.
type GoalView struct {
	Goal         core.Goal
	Requirements []core.Requirement
	Progress     core.Progress
	// Offset is the stroke dash offset of the progress ring.
	Offset     int
	Objectives []string
}

type GoalService struct {
	store         GoalStore
	publisher     EventPublisher
	circumference int
}

func NewGoalService(store GoalStore, publisher EventPublisher, circumference int) *GoalService {
	if circumference <= 0 {
		circumference = core.DefaultCircumference
	}
	return &GoalService{store: store, publisher: publisher, circumference: circumference}
}

// Circumference is the progress ring size the offsets are computed for.
func (s *GoalService) Circumference() int {
	return s.circumference
}

func (in GoalInput) goal(userID int64) core.Goal {
	return core.Goal{
		UserID:     userID,
		Title:      in.Title,
		Objective:  in.Objective,
		Category:   in.Category,
		Priority:   in.Priority,
		Status:     in.Status,
		TargetDate: in.TargetDate,
	}
}

// Create stores a goal with the requirements parsed from its text area.
func (s *GoalService) Create(ctx context.Context, userID int64, in GoalInput) (core.Goal, error) {
	g, change, err := s.store.CreateGoal(ctx, in.goal(userID), core.ParseRequirements(in.RequirementsText))
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	s.announce(ctx, change)
	return g, nil
}

// Update saves the edit form. New requirement lines are appended; checked
// holds the ids of the requirements ticked on the form.
func (s *GoalService) Update(ctx context.Context, userID, goalID int64, in GoalInput, checked map[int64]bool) (core.Goal, error) {
	g := in.goal(userID)
	g.ID = goalID
	updated, change, err := s.store.UpdateGoal(ctx, userID, storage.GoalUpdate{
		Goal:            g,
		NewRequirements: core.ParseRequirements(in.RequirementsText),
		Checked:         checked,
	})
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	s.announce(ctx, change)
	return updated, nil
}

// MarkDone ticks every requirement of the goal.
func (s *GoalService) MarkDone(ctx context.Context, userID, goalID int64) error {
	change, err := s.store.MarkGoalDone(ctx, userID, goalID)
	if err != nil {
		return fmt.Errorf("mark goal done: %w", err)
	}
	s.announce(ctx, change)
	return nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID int64) error {
	if err := s.store.DeleteGoal(ctx, userID, goalID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// RecomputeStatus re-derives and persists the status when it drifted. It
// reports whether a write happened.
func (s *GoalService) RecomputeStatus(ctx context.Context, userID, goalID int64) (bool, error) {
	change, err := s.store.RecomputeStatus(ctx, userID, goalID)
	if err != nil {
		return false, fmt.Errorf("recompute status: %w", err)
	}
	s.announce(ctx, change)
	return change.Changed, nil
}

func (s *GoalService) Get(ctx context.Context, userID, goalID int64) (GoalView, error) {
	rec, err := s.store.GoalByID(ctx, userID, goalID)
	if err != nil {
		return GoalView{}, fmt.Errorf("get goal: %w", err)
	}
	return s.view(rec), nil
}

// List returns the user's goals matching f, decorated with progress.
func (s *GoalService) List(ctx context.Context, userID int64, f storage.GoalFilter) ([]GoalView, error) {
	recs, err := s.store.ListGoals(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]GoalView, len(recs))
	for i, rec := range recs {
		out[i] = s.view(rec)
	}
	return out, nil
}

func (s *GoalService) view(rec storage.GoalRecord) GoalView {
	p := core.ComputeProgress(len(rec.Requirements), core.CountDone(rec.Requirements))
	return GoalView{
		Goal:         rec.Goal,
		Requirements: rec.Requirements,
		Progress:     p,
		Offset:       p.Offset(s.circumference),
		Objectives:   core.ObjectiveLines(rec.Goal.Objective),
	}
}

func (s *GoalService) announce(ctx context.Context, change storage.StatusChange) {
	if !change.Changed {
		return
	}
	slog.InfoContext(ctx, "Goal status changed",
		"goal_id", change.GoalID,
		"from", change.From,
		"to", change.To)
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishGoalStatusChanged(ctx, change.GoalID, change.UserID, string(change.To)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish goal status event", "goal_id", change.GoalID, "error", err)
	}
}
