package workspace

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arbornotes/arbor/internal/identity"
	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/parse"
	"github.com/arbornotes/arbor/internal/persist"
	"github.com/arbornotes/arbor/internal/vfs"
)

// readConcurrency bounds the parallel read stage of a full index.
const readConcurrency = 8

// Stats summarizes one full index run.
type Stats struct {
	FilesSeen   int // files discovered on disk
	Indexed     int // parsed and upserted
	Unchanged   int // tier-1 skips: (mtime, size) matched
	Revalidated int // tier-2 hits: digest matched, metadata refreshed
	Purged      int // notes whose file disappeared
	Elapsed     time.Duration
}

// FullIndex walks every vault, ingests changed files, purges notes whose
// files are gone, and materializes ghost hierarchy levels. Files whose
// (mtime, size) match the snapshot are skipped without reading; files
// whose digest matches are skipped without re-assembly.
func (w *Workspace) FullIndex(fs vfs.FileSystem) (Stats, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	var stats Stats

	type pending struct {
		path  string
		vault string
		meta  vfs.Metadata
	}
	var toRead []pending
	seen := make(map[string]bool)

	for _, v := range w.vaults {
		for _, ext := range w.model.SupportedExtensions() {
			files, err := fs.ListFiles(v.Root, ext)
			if err != nil {
				return stats, fmt.Errorf("list %s: %w", v.Root, err)
			}
			for _, path := range files {
				if seen[path] {
					continue
				}
				seen[path] = true
				stats.FilesSeen++

				meta, err := fs.Metadata(path)
				if err != nil {
					continue
				}
				if cached, ok := w.files[path]; ok &&
					cached.MTime.Equal(meta.MTime) && cached.Size == meta.Size {
					stats.Unchanged++
					continue
				}
				toRead = append(toRead, pending{path: path, vault: v.Name, meta: meta})
			}
		}
	}

	contents := make([]string, len(toRead))
	readErrs := make([]error, len(toRead))
	var g errgroup.Group
	g.SetLimit(readConcurrency)
	for i, p := range toRead {
		g.Go(func() error {
			contents[i], readErrs[i] = fs.ReadToString(p.path)
			return nil
		})
	}
	_ = g.Wait()

	for i, p := range toRead {
		if readErrs[i] != nil {
			// Unreadable files are skipped; the caller logs them.
			continue
		}
		content := contents[i]
		digest := parse.Digest(content)
		meta := persist.FileMetadata{MTime: p.meta.MTime, Size: p.meta.Size, Digest: digest}

		if cached, ok := w.files[p.path]; ok && cached.Digest == digest {
			w.files[p.path] = meta
			stats.Revalidated++
			continue
		}
		w.updateContent(p.path, content, p.vault)
		w.files[p.path] = meta
		stats.Indexed++
	}

	for path := range w.files {
		if seen[path] {
			continue
		}
		delete(w.files, path)
		if id, ok := w.store.ByPath(path); ok {
			w.store.Remove(id)
			w.reg.Remove(id)
		}
		stats.Purged++
	}

	w.fillMissingHierarchyLevels()
	w.tree.invalidate()

	stats.Elapsed = time.Since(start)
	return stats, nil
}

// IndexFile reads one file through the capability and ingests it.
func (w *Workspace) IndexFile(fs vfs.FileSystem, path string) error {
	content, err := fs.ReadToString(path)
	if err != nil {
		return err
	}
	w.UpdateContent(path, content)
	return nil
}

// UpdateContent ingests new content for a path, creating the note on
// first sight. Unchanged content (by digest) is a no-op.
func (w *Workspace) UpdateContent(path, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.updateContent(path, content, w.vaultNameFor(path))
}

func (w *Workspace) updateContent(path, content, vault string) {
	newKey := w.model.NoteKeyFromPath(path)

	var id note.ID
	var oldDigest string
	if existing, ok := w.store.ByPath(path); ok {
		id = existing
		if n, ok := w.store.Get(id); ok {
			oldDigest = n.Digest
		}
		oldKey, ok := w.reg.KeyOf(id)
		if !ok {
			panic(fmt.Sprintf("workspace: note %s bound to %s has no identity key", id, path))
		}
		if oldKey != newKey {
			if _, err := w.reg.Rebind(oldKey, newKey); errors.Is(err, identity.ErrKeyBound) {
				// The new key already has an id, usually minted for a link
				// target before the file existed. Adopt it so backlinks
				// resolve, and retire the id this path held.
				adopted, _ := w.reg.Lookup(newKey)
				w.store.Remove(id)
				w.reg.Remove(id)
				id = adopted
				oldDigest = ""
			}
		}
	} else {
		id = w.reg.GetOrCreate(newKey)
	}

	res := parse.Parse(content, w.model.WikiLinkFormat())
	if oldDigest != "" && oldDigest == res.Digest {
		return
	}

	n := w.assemble(res, path, id, vault)
	targets := linkTargets(n)
	w.store.Upsert(n)
	w.store.SetOutgoingLinks(id, targets)
	w.tree.invalidate()
}

// RenameFile moves a note to a new path, preserving its id. When the old
// path was never indexed this degrades to a plain content update.
func (w *Workspace) RenameFile(oldPath, newPath, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, ok := w.store.ByPath(oldPath)
	if !ok {
		w.updateContent(newPath, content, w.vaultNameFor(newPath))
		return
	}

	oldKey, ok := w.reg.KeyOf(id)
	if !ok {
		oldKey = w.model.NoteKeyFromPath(oldPath)
	}
	newKey := w.model.NoteKeyFromPath(newPath)
	keyChanged := oldKey != newKey

	if keyChanged {
		if _, err := w.reg.Rebind(oldKey, newKey); errors.Is(err, identity.ErrKeyBound) {
			adopted, _ := w.reg.Lookup(newKey)
			w.store.Remove(id)
			w.reg.Remove(id)
			id = adopted
		}
	}

	res := parse.Parse(content, w.model.WikiLinkFormat())
	n := w.assemble(res, newPath, id, w.vaultNameFor(newPath))
	targets := linkTargets(n)
	w.store.Upsert(n)
	w.store.UpdatePath(id, newPath)
	w.store.SetOutgoingLinks(id, targets)

	delete(w.files, oldPath)

	if keyChanged {
		w.tree.invalidate()
	}
}

// DeleteFile removes the note at path and every backlink reference to
// it. Its identity binding stays, so a re-created note with the same key
// keeps the same id.
func (w *Workspace) DeleteFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.files, path)
	id, ok := w.store.ByPath(path)
	if !ok {
		return
	}
	w.store.Remove(id)
	w.tree.invalidate()
}

func linkTargets(n *note.Note) []note.ID {
	targets := make([]note.ID, 0, len(n.Links))
	for _, l := range n.Links {
		targets = append(targets, l.Target)
	}
	return targets
}
