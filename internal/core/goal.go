package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"

	StatusNotStarted GoalStatus = "Not Started"
	StatusInProgress GoalStatus = "In Progress"
	StatusDone       GoalStatus = "Done"
)

type (
	Priority   string
	GoalStatus string

	// Goal is a personal objective tracked through a checklist of requirements.
	Goal struct {
		ID         int64
		UserID     int64
		Title      string
		Objective  string
		Category   string
		Priority   Priority
		Status     GoalStatus
		TargetDate Date // zero when unset
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	// Requirement is one checklist line of a goal.
	Requirement struct {
		ID     int64
		GoalID int64
		Text   string
		IsDone bool
	}
)

// DefaultGoalCategory is used when a goal is created without a category.
const DefaultGoalCategory = "Business / Career"

var GoalCategories = []string{
	"Business / Career",
	"Lifestyle / Personal Growth",
	"Education / Learning",
	"Family / Relationships",
	"Intellectual / Creativity",
	"Spirituality / Ethical",
}

var (
	Priorities   = []Priority{PriorityHigh, PriorityMedium, PriorityLow}
	GoalStatuses = []GoalStatus{StatusNotStarted, StatusInProgress, StatusDone}
)

var (
	ErrEmptyTitle  = errors.New("title is required")
	ErrInvalidEnum = errors.New("select a valid choice")
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (s GoalStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func IsValidGoalCategory(c string) bool {
	for _, v := range GoalCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ApplyDefaults fills in the enum defaults for fields left empty.
func (g *Goal) ApplyDefaults() {
	if g.Category == "" {
		g.Category = DefaultGoalCategory
	}
	if g.Priority == "" {
		g.Priority = PriorityMedium
	}
	if g.Status == "" {
		g.Status = StatusNotStarted
	}
}

func (g Goal) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(g.Title) == "" {
		errs.Add("title", ErrEmptyTitle.Error())
	} else if utf8.RuneCountInString(g.Title) > 200 {
		errs.Add("title", "title too long (max 200 characters)")
	}
	if !IsValidGoalCategory(g.Category) {
		errs.Add("category", ErrInvalidEnum.Error())
	}
	if !g.Priority.Valid() {
		errs.Add("priority", ErrInvalidEnum.Error())
	}
	if !g.Status.Valid() {
		errs.Add("status", ErrInvalidEnum.Error())
	}
	return errs.OrNil()
}
