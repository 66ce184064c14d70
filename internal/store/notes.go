package store

import "sort"

// Notes returns all notes in storage order.
func (s *Store) Notes() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// SortedNotes returns notes with pinned ones first, newest first within
// each group.
func (s *Store) SortedNotes() []Note {
	out := s.Notes()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// AddNote prepends a note.
func (s *Store) AddNote(n Note) {
	s.notes = append([]Note{n}, s.notes...)
	s.writeThrough(keyNotes, s.notes)
}

// UpdateNote replaces the note with the same ID. Unknown IDs are a no-op.
func (s *Store) UpdateNote(n Note) {
	for i := range s.notes {
		if s.notes[i].ID == n.ID {
			s.notes[i] = n
			s.writeThrough(keyNotes, s.notes)
			return
		}
	}
}

// DeleteNote removes the note with the given ID.
func (s *Store) DeleteNote(id string) {
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			s.writeThrough(keyNotes, s.notes)
			return
		}
	}
}
