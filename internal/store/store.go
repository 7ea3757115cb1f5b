// Package store holds the in-memory workspace graph: notes by id, a
// path index, and the inverted backlink index.
//
// Link edges are tracked in a forward (outgoing) map alongside the
// inverted backlink map so that replacing a note's links diffs against
// what was previously recorded, independent of upsert ordering.
package store

import (
	"iter"

	"github.com/arbornotes/arbor/internal/note"
)

// Store is the graph. It is not safe for concurrent use; the workspace
// serializes access.
type Store struct {
	notes     map[note.ID]*note.Note
	paths     map[string]note.ID
	outgoing  map[note.ID][]note.ID
	backlinks map[note.ID][]note.ID
}

// New returns an empty store.
func New() *Store {
	return &Store{
		notes:     make(map[note.ID]*note.Note),
		paths:     make(map[string]note.ID),
		outgoing:  make(map[note.ID][]note.ID),
		backlinks: make(map[note.ID][]note.ID),
	}
}

// Upsert replaces any previous note carrying n.ID. The path index is kept
// coherent: the old path is dropped when this id held it exclusively, the
// new path (if any) is bound. Backlinks are not recomputed here; call
// SetOutgoingLinks after upserting.
func (s *Store) Upsert(n *note.Note) {
	if old, ok := s.notes[n.ID]; ok && old.Path != "" {
		if s.paths[old.Path] == n.ID {
			delete(s.paths, old.Path)
		}
	}
	if n.Path != "" {
		s.paths[n.Path] = n.ID
	}
	s.notes[n.ID] = n
}

// SetOutgoingLinks atomically replaces the outgoing edge set of source.
// The source is removed from the backlink list of every former target and
// appended (de-duplicated, insertion-ordered) to every new one.
func (s *Store) SetOutgoingLinks(source note.ID, targets []note.ID) {
	for _, old := range s.outgoing[source] {
		s.backlinks[old] = removeID(s.backlinks[old], source)
		if len(s.backlinks[old]) == 0 {
			delete(s.backlinks, old)
		}
	}

	deduped := make([]note.ID, 0, len(targets))
	seen := make(map[note.ID]struct{}, len(targets))
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		deduped = append(deduped, t)
	}

	if len(deduped) == 0 {
		delete(s.outgoing, source)
	} else {
		s.outgoing[source] = deduped
	}

	for _, t := range deduped {
		if !containsID(s.backlinks[t], source) {
			s.backlinks[t] = append(s.backlinks[t], source)
		}
	}
}

// Remove deletes the note, its path binding, its backlink list, and its
// contribution to every other backlink list. Ids of removed notes are
// never reused.
func (s *Store) Remove(id note.ID) {
	n, ok := s.notes[id]
	if !ok {
		return
	}
	if n.Path != "" && s.paths[n.Path] == id {
		delete(s.paths, n.Path)
	}
	delete(s.notes, id)
	delete(s.backlinks, id)
	for _, t := range s.outgoing[id] {
		s.backlinks[t] = removeID(s.backlinks[t], id)
		if len(s.backlinks[t]) == 0 {
			delete(s.backlinks, t)
		}
	}
	delete(s.outgoing, id)
}

// UpdatePath moves the note to newPath, keeping its id stable.
func (s *Store) UpdatePath(id note.ID, newPath string) {
	n, ok := s.notes[id]
	if !ok {
		return
	}
	if n.Path != "" && s.paths[n.Path] == id {
		delete(s.paths, n.Path)
	}
	n.Path = newPath
	s.paths[newPath] = id
}

// Get returns the note with the given id.
func (s *Store) Get(id note.ID) (*note.Note, bool) {
	n, ok := s.notes[id]
	return n, ok
}

// ByPath returns the id bound to a path.
func (s *Store) ByPath(path string) (note.ID, bool) {
	id, ok := s.paths[path]
	return id, ok
}

// BacklinksOf returns the ids of notes linking to id, insertion-ordered
// and de-duplicated. The returned slice is a copy.
func (s *Store) BacklinksOf(id note.ID) []note.ID {
	src := s.backlinks[id]
	out := make([]note.ID, len(src))
	copy(out, src)
	return out
}

// All iterates over every note. Order is unspecified; consumers must not
// depend on one.
func (s *Store) All() iter.Seq[*note.Note] {
	return func(yield func(*note.Note) bool) {
		for _, n := range s.notes {
			if !yield(n) {
				return
			}
		}
	}
}

// Len returns the number of notes, ghosts included.
func (s *Store) Len() int { return len(s.notes) }

func removeID(ids []note.ID, id note.ID) []note.ID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []note.ID, id note.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
