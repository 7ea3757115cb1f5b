// Package identity maintains the stable mapping between human-readable
// note keys and opaque note IDs. Keys move around as notes are renamed;
// the ID handed out for a logical note never changes.
package identity

import (
	"errors"

	"github.com/google/uuid"

	"github.com/arbornotes/arbor/internal/note"
)

// ErrUnknownKey is returned by Rebind when the old key has no binding.
var ErrUnknownKey = errors.New("identity: unknown key")

// ErrKeyBound is returned by Rebind when the new key is already bound to a
// different id. The caller must detach or merge before rebinding.
var ErrKeyBound = errors.New("identity: key already bound to a different note")

// Registry is the bidirectional key⇄id table. Both directions are kept
// consistent on every mutation. It is not safe for concurrent use; the
// workspace guards it.
type Registry struct {
	keyToID map[note.Key]note.ID
	idToKey map[note.ID]note.Key
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		keyToID: make(map[note.Key]note.ID),
		idToKey: make(map[note.ID]note.Key),
	}
}

// GetOrCreate returns the id bound to key, minting a fresh one on first
// sight. Generated ids are collision-resistant and carry no ordering.
func (r *Registry) GetOrCreate(key note.Key) note.ID {
	if id, ok := r.keyToID[key]; ok {
		return id
	}
	id := note.ID(uuid.NewString())
	r.keyToID[key] = id
	r.idToKey[id] = key
	return id
}

// Lookup returns the id bound to key, if any.
func (r *Registry) Lookup(key note.Key) (note.ID, bool) {
	id, ok := r.keyToID[key]
	return id, ok
}

// KeyOf returns the key currently bound to id, if any.
func (r *Registry) KeyOf(id note.ID) (note.Key, bool) {
	key, ok := r.idToKey[id]
	return key, ok
}

// Rebind moves the binding of oldKey onto newKey, preserving the id.
// Returns ErrUnknownKey when oldKey has no binding and ErrKeyBound when
// newKey already belongs to a different id. Rebinding a key onto itself
// is a no-op.
func (r *Registry) Rebind(oldKey, newKey note.Key) (note.ID, error) {
	id, ok := r.keyToID[oldKey]
	if !ok {
		return "", ErrUnknownKey
	}
	if existing, ok := r.keyToID[newKey]; ok && existing != id {
		return "", ErrKeyBound
	}
	delete(r.keyToID, oldKey)
	r.keyToID[newKey] = id
	r.idToKey[id] = newKey
	return id, nil
}

// Bind installs an explicit key→id pair. It is used when restoring a
// snapshot; colliding with live state is a programming error.
func (r *Registry) Bind(key note.Key, id note.ID) {
	if existing, ok := r.keyToID[key]; ok && existing != id {
		panic("identity: Bind would rebind a live key")
	}
	r.keyToID[key] = id
	r.idToKey[id] = key
}

// Remove detaches id and its key in both directions. The id is never
// reissued; a later GetOrCreate for the same key mints a new id.
func (r *Registry) Remove(id note.ID) {
	key, ok := r.idToKey[id]
	if !ok {
		return
	}
	delete(r.idToKey, id)
	if r.keyToID[key] == id {
		delete(r.keyToID, key)
	}
}

// All returns a copy of the key→id table.
func (r *Registry) All() map[note.Key]note.ID {
	out := make(map[note.Key]note.ID, len(r.keyToID))
	for k, v := range r.keyToID {
		out[k] = v
	}
	return out
}

// Len returns the number of bindings.
func (r *Registry) Len() int { return len(r.keyToID) }
