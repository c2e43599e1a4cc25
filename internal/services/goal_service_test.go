package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func TestGoalService_CreateParsesRequirements(t *testing.T) {
	store := newFakeGoals()
	svc := NewGoalService(store, &fakePublisher{}, 0)
	ctx := context.Background()

	g, err := svc.Create(ctx, 1, GoalInput{
		Title:            "Fashion school",
		RequirementsText: "- item one\n•  item two\n\n  item three ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	view, err := svc.Get(ctx, 1, g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := []string{"item one", "item two", "item three"}
	if len(view.Requirements) != len(want) {
		t.Fatalf("expected %d requirements, got %d", len(want), len(view.Requirements))
	}
	for i, w := range want {
		if view.Requirements[i].Text != w || view.Requirements[i].IsDone {
			t.Errorf("requirement %d = %+v", i, view.Requirements[i])
		}
	}
	if view.Progress.Percent != 0 || view.Offset != 188 || view.Goal.Status != core.StatusNotStarted {
		t.Errorf("unexpected view %+v", view)
	}
}

func TestGoalService_ProgressAndEvents(t *testing.T) {
	store := newFakeGoals()
	pub := &fakePublisher{}
	svc := NewGoalService(store, pub, core.DefaultCircumference)
	ctx := context.Background()

	g, _ := svc.Create(ctx, 1, GoalInput{Title: "Marathon", RequirementsText: "a\nb\nc\nd"})
	view, _ := svc.Get(ctx, 1, g.ID)

	checked := map[int64]bool{view.Requirements[0].ID: true, view.Requirements[1].ID: true}
	in := GoalInput{Title: "Marathon", Status: core.StatusDone}
	if _, err := svc.Update(ctx, 1, g.ID, in, checked); err != nil {
		t.Fatalf("Update: %v", err)
	}

	view, _ = svc.Get(ctx, 1, g.ID)
	if view.Progress.Percent != 50 || view.Progress.Remaining() != 50 || view.Offset != 94 {
		t.Fatalf("unexpected progress %+v offset %d", view.Progress, view.Offset)
	}
	if view.Goal.Status != core.StatusInProgress {
		t.Fatalf("status should be derived, got %q", view.Goal.Status)
	}
	if len(pub.events) != 1 || pub.events[0].status != string(core.StatusInProgress) {
		t.Fatalf("expected one status event, got %+v", pub.events)
	}

	if err := svc.MarkDone(ctx, 1, g.ID); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	view, _ = svc.Get(ctx, 1, g.ID)
	if view.Progress.Percent != 100 || view.Offset != 0 || view.Goal.Status != core.StatusDone {
		t.Fatalf("unexpected view after done %+v", view)
	}
	if len(pub.events) != 2 {
		t.Fatalf("expected a second status event, got %d", len(pub.events))
	}
}

func TestGoalService_RecomputeIsIdempotent(t *testing.T) {
	store := newFakeGoals()
	pub := &fakePublisher{}
	svc := NewGoalService(store, pub, 0)
	ctx := context.Background()

	g, _ := svc.Create(ctx, 1, GoalInput{Title: "Read", RequirementsText: "book"})
	_ = svc.MarkDone(ctx, 1, g.ID)
	writes, events := store.writes, len(pub.events)

	for i := 0; i < 3; i++ {
		changed, err := svc.RecomputeStatus(ctx, 1, g.ID)
		if err != nil {
			t.Fatalf("RecomputeStatus: %v", err)
		}
		if changed {
			t.Fatal("recompute should not write when nothing changed")
		}
	}
	if store.writes != writes || len(pub.events) != events {
		t.Fatalf("recompute wrote %d times and published %d events", store.writes-writes, len(pub.events)-events)
	}
}

func TestGoalService_Ownership(t *testing.T) {
	store := newFakeGoals()
	svc := NewGoalService(store, nil, 0)
	ctx := context.Background()

	g, _ := svc.Create(ctx, 1, GoalInput{Title: "Mine"})

	if _, err := svc.Get(ctx, 2, g.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, 2, g.ID, GoalInput{Title: "Stolen"}, nil); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
	if err := svc.MarkDone(ctx, 2, g.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("MarkDone: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 2, g.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
	if list, _ := svc.List(ctx, 2, storage.GoalFilter{}); len(list) != 0 {
		t.Errorf("List leaked %d goals", len(list))
	}

	if err := svc.Delete(ctx, 1, g.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestGoalService_ValidationAndObjectives(t *testing.T) {
	svc := NewGoalService(newFakeGoals(), nil, 100)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, GoalInput{Title: " "})
	var verrs core.ValidationErrors
	if !errors.As(err, &verrs) || verrs["title"] == "" {
		t.Fatalf("expected title error, got %v", err)
	}

	g, err := svc.Create(ctx, 1, GoalInput{Title: "Shop", Objective: "- sell dresses\n- open school", RequirementsText: "a\nb"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, err := svc.List(ctx, 1, storage.GoalFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Goal.ID != g.ID {
		t.Fatalf("unexpected list %+v", list)
	}
	if len(list[0].Objectives) != 2 || list[0].Objectives[1] != "open school" {
		t.Errorf("objectives = %q", list[0].Objectives)
	}
	if list[0].Offset != 100 {
		t.Errorf("custom circumference offset = %d", list[0].Offset)
	}
}

func TestGoalService_EditWithStaleStatusPublishesNothing(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "goals.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	ctx := context.Background()
	u, err := repo.CreateUser(ctx, "ada", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	pub := &fakePublisher{}
	svc := NewGoalService(repo, pub, core.DefaultCircumference)
	g, err := svc.Create(ctx, u.ID, GoalInput{Title: "Bakery", RequirementsText: "lease\noven"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	view, _ := svc.Get(ctx, u.ID, g.ID)
	checked := map[int64]bool{view.Requirements[0].ID: true}

	if _, err := svc.Update(ctx, u.ID, g.ID, GoalInput{Title: "Bakery"}, checked); err != nil {
		t.Fatalf("Update: %v", err)
	}
	published := len(pub.events)

	if _, err := svc.Update(ctx, u.ID, g.ID, GoalInput{Title: "Bakery", Status: core.StatusDone}, checked); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(pub.events) != published {
		t.Fatalf("expected no new status event, got %+v", pub.events[published:])
	}
	view, _ = svc.Get(ctx, u.ID, g.ID)
	if view.Goal.Status != core.StatusInProgress {
		t.Fatalf("status = %q", view.Goal.Status)
	}
}
