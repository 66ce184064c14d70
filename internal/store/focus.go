package store

// FocusFilter selects which focus tasks to list.
type FocusFilter string

const (
	FocusAll       FocusFilter = "all"
	FocusActive    FocusFilter = "active"
	FocusCompleted FocusFilter = "completed"
)

// FocusTasks returns tasks matching the filter, newest first.
func (s *Store) FocusTasks(filter FocusFilter) []FocusTask {
	var out []FocusTask
	for i := len(s.focusTasks) - 1; i >= 0; i-- {
		t := s.focusTasks[i]
		switch filter {
		case FocusActive:
			if t.Completed {
				continue
			}
		case FocusCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// AddFocusTask appends a task.
func (s *Store) AddFocusTask(t FocusTask) {
	s.focusTasks = append(s.focusTasks, t)
	s.writeThrough(keyFocusTasks, s.focusTasks)
}

// ToggleFocusTask flips a task's completion state. Unknown IDs are a no-op.
func (s *Store) ToggleFocusTask(id string) {
	for i := range s.focusTasks {
		if s.focusTasks[i].ID == id {
			s.focusTasks[i].Completed = !s.focusTasks[i].Completed
			s.writeThrough(keyFocusTasks, s.focusTasks)
			return
		}
	}
}

// DeleteFocusTask removes the task with the given ID.
func (s *Store) DeleteFocusTask(id string) {
	for i := range s.focusTasks {
		if s.focusTasks[i].ID == id {
			s.focusTasks = append(s.focusTasks[:i], s.focusTasks[i+1:]...)
			s.writeThrough(keyFocusTasks, s.focusTasks)
			return
		}
	}
}

// ClearCompletedFocusTasks drops every completed task.
func (s *Store) ClearCompletedFocusTasks() {
	kept := s.focusTasks[:0]
	for _, t := range s.focusTasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	s.focusTasks = kept
	s.writeThrough(keyFocusTasks, s.focusTasks)
}
