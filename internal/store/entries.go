package store

import (
	"time"

	"pvision/internal/gamify"
)

// Entries returns all progress entries in insertion order.
func (s *Store) Entries() []ProgressEntry {
	out := make([]ProgressEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// AddEntry appends a progress entry without touching gamification.
func (s *Store) AddEntry(e ProgressEntry) {
	s.entries = append(s.entries, e)
	s.writeThrough(keyEntries, s.entries)
}

// RecordUpload appends the entry and runs the gamification engine over
// the profile. The returned reward, if any, has already been added to
// the profile's reward list. The in-memory state is the source of
// truth: a failed write-through is logged, never surfaced, and never
// keeps the XP grant from landing.
func (s *Store) RecordUpload(e ProgressEntry, engine *gamify.Engine) (*Reward, bool) {
	s.AddEntry(e)

	next, reward, leveledUp := engine.ApplyUpload(gamify.Progress{
		Level:         s.user.Level,
		XP:            s.user.XP,
		XPToNextLevel: s.user.XPToNextLevel,
	})
	s.user.Level = next.Level
	s.user.XP = next.XP
	s.user.XPToNextLevel = next.XPToNextLevel
	if reward != nil {
		s.user.Rewards = append(s.user.Rewards, *reward)
	}
	s.writeThrough(keyUser, s.user)
	return reward, leveledUp
}

// LatestEntry returns the most recently added entry.
func (s *Store) LatestEntry() (ProgressEntry, bool) {
	if len(s.entries) == 0 {
		return ProgressEntry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// EntryDay extracts the calendar day of an entry in local time,
// formatted as YYYY-MM-DD. Entries whose date fails to parse keep
// their raw date prefix so they still group deterministically.
func EntryDay(e ProgressEntry) string {
	t, err := time.Parse(time.RFC3339, e.Date)
	if err != nil {
		if len(e.Date) >= 10 {
			return e.Date[:10]
		}
		return e.Date
	}
	return t.Local().Format("2006-01-02")
}

// EntriesOn returns the entries recorded on the given YYYY-MM-DD day.
func (s *Store) EntriesOn(day string) []ProgressEntry {
	var out []ProgressEntry
	for _, e := range s.entries {
		if EntryDay(e) == day {
			out = append(out, e)
		}
	}
	return out
}

// EntriesByDate groups entries by calendar day.
func (s *Store) EntriesByDate() map[string][]ProgressEntry {
	byDay := make(map[string][]ProgressEntry)
	for _, e := range s.entries {
		day := EntryDay(e)
		byDay[day] = append(byDay[day], e)
	}
	return byDay
}
