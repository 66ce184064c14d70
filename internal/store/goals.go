package store

import (
	"errors"
	"math"
	"strings"
)

// Validation errors surfaced to the goal form.
var (
	ErrGoalIncomplete  = errors.New("please provide a title and target date")
	ErrGoalNoMilestone = errors.New("please add at least one actionable milestone")
)

// Goals returns all goals in insertion order.
func (s *Store) Goals() []Goal {
	out := make([]Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// AddGoal validates and appends a goal. Progress is recomputed from the
// milestones, overriding whatever the caller set. The only errors are
// validation errors; a failed write-through is logged and swallowed.
func (s *Store) AddGoal(g Goal) error {
	if strings.TrimSpace(g.Title) == "" || strings.TrimSpace(g.TargetDate) == "" {
		return ErrGoalIncomplete
	}
	if len(g.Milestones) == 0 {
		return ErrGoalNoMilestone
	}
	g.Progress = MilestoneProgress(g.Milestones)
	s.goals = append(s.goals, g)
	s.writeThrough(keyGoals, s.goals)
	return nil
}

// AddMilestone appends a milestone to the goal and recomputes progress.
// Unknown goal IDs are a no-op.
func (s *Store) AddMilestone(goalID, title string) {
	for i := range s.goals {
		if s.goals[i].ID != goalID {
			continue
		}
		s.goals[i].Milestones = append(s.goals[i].Milestones, Milestone{Title: title})
		s.goals[i].Progress = MilestoneProgress(s.goals[i].Milestones)
		s.writeThrough(keyGoals, s.goals)
		return
	}
}

// ToggleMilestone flips the completion state of the milestone at index
// and recomputes progress. Out-of-range indexes and unknown goal IDs
// are no-ops.
func (s *Store) ToggleMilestone(goalID string, index int) {
	for i := range s.goals {
		if s.goals[i].ID != goalID {
			continue
		}
		if index < 0 || index >= len(s.goals[i].Milestones) {
			return
		}
		s.goals[i].Milestones[index].Completed = !s.goals[i].Milestones[index].Completed
		s.goals[i].Progress = MilestoneProgress(s.goals[i].Milestones)
		s.writeThrough(keyGoals, s.goals)
		return
	}
}

// MilestoneProgress returns the percentage of completed milestones,
// rounded to the nearest integer. An empty list is 0.
func MilestoneProgress(ms []Milestone) int {
	if len(ms) == 0 {
		return 0
	}
	completed := 0
	for _, m := range ms {
		if m.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(ms)) * 100))
}
