// Package store keeps all application state in memory and writes each
// collection through to a key-value Adapter as a JSON blob whenever it
// changes.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// Keys under which each collection is persisted.
const (
	keyUser       = "pv_user"
	keyEntries    = "pv_entries"
	keyGoals      = "pv_goals"
	keyNotes      = "pv_notes"
	keyMode       = "pv_mode"
	keyFocusTasks = "pv_focus_tasks"
)

// Store owns the in-memory collections. It is not safe for concurrent
// use; the TUI drives it from a single goroutine.
type Store struct {
	kv     Adapter
	logger *log.Logger

	user       UserProfile
	entries    []ProgressEntry
	goals      []Goal
	notes      []Note
	focusTasks []FocusTask
	mode       Mode
}

// New loads every collection from kv. Keys that were never written, or
// whose blobs fail to decode, fall back to defaults; a corrupt blob is
// logged and skipped rather than aborting the load.
func New(kv Adapter, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		kv:     kv,
		logger: logger,
		user:   defaultProfile(),
		mode:   ModeNeon,
	}

	if err := s.load(keyUser, &s.user); err != nil {
		return nil, err
	}
	if err := s.load(keyEntries, &s.entries); err != nil {
		return nil, err
	}
	if err := s.load(keyGoals, &s.goals); err != nil {
		return nil, err
	}
	if err := s.load(keyNotes, &s.notes); err != nil {
		return nil, err
	}
	if err := s.load(keyFocusTasks, &s.focusTasks); err != nil {
		return nil, err
	}

	raw, ok, err := s.kv.Get(keyMode)
	if err != nil {
		return nil, err
	}
	if ok && ValidMode(Mode(raw)) {
		s.mode = Mode(raw)
	}
	return s, nil
}

func defaultProfile() UserProfile {
	return UserProfile{
		Name:          "You",
		Level:         1,
		XP:            0,
		Streak:        0,
		XPToNextLevel: 1000,
		Rewards:       []Reward{},
	}
}

// load decodes the blob at key into dst, leaving dst untouched when the
// key is absent or the blob is corrupt.
func (s *Store) load(key string, dst any) error {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("corrupt blob, using defaults", "key", key, "err", err)
	}
	return nil
}

// save encodes v and writes it through to kv.
func (s *Store) save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(key, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// writeThrough persists one key. A failed write is logged and swallowed;
// the in-memory state stays the source of truth for the session.
func (s *Store) writeThrough(key string, v any) {
	if err := s.save(key, v); err != nil {
		s.logger.Warn("write-through failed, keeping in-memory state", "err", err)
	}
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// Profile returns a copy of the user profile.
func (s *Store) Profile() UserProfile {
	return s.user
}

// SetProfile replaces the user profile.
func (s *Store) SetProfile(u UserProfile) {
	s.user = u
	s.writeThrough(keyUser, s.user)
}

// Mode returns the active UI mode.
func (s *Store) Mode() Mode {
	return s.mode
}

// SetMode switches the UI mode. Unknown modes are rejected.
func (s *Store) SetMode(m Mode) error {
	if !ValidMode(m) {
		return fmt.Errorf("unknown mode %q", m)
	}
	s.mode = m
	if err := s.kv.Set(keyMode, string(m)); err != nil {
		s.logger.Warn("write-through failed, keeping in-memory state", "key", keyMode, "err", err)
	}
	return nil
}
