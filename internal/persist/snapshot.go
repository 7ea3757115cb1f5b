// Package persist checkpoints the workspace graph to a local SQLite
// database and restores it on startup, so unchanged files never need
// re-parsing across sessions.
package persist

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arbornotes/arbor/internal/identity"
	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Version is the snapshot format version. Snapshots written under a
// different version are unusable.
const Version = 1

// ErrIncompatibleSnapshot marks a snapshot that cannot be loaded: wrong
// version, wrong model, or an unreadable schema. Callers treat it as
// absent and start empty.
var ErrIncompatibleSnapshot = errors.New("persist: incompatible snapshot")

// FileMetadata is the per-file record backing two-tier revalidation:
// tier 1 compares (mtime, size), tier 2 compares the content digest.
type FileMetadata struct {
	MTime  time.Time
	Size   int64
	Digest string
}

// Snapshot is the persisted state: the graph, the identity table, and
// the file metadata observed at save time.
type Snapshot struct {
	ModelID  string
	Store    *store.Store
	Identity *identity.Registry
	Files    map[string]FileMetadata
}

func open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	connStr := "file:" + strings.ReplaceAll(path, " ", "%20")
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	return db, nil
}

// Save writes the snapshot to path, replacing whatever was there.
func Save(path string, snap *Snapshot) error {
	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"meta", "notes", "identity", "files"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for key, value := range map[string]string{
		"version":  strconv.Itoa(Version),
		"model_id": snap.ModelID,
	} {
		if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("write meta: %w", err)
		}
	}

	for n := range snap.Store.All() {
		frontmatter, links, headings, blocks, err := encodeNote(n)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO notes (id, path, title, frontmatter, content_offset, links, headings, blocks, digest, vault)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(n.ID), n.Path, n.Title, frontmatter, n.ContentOffset,
			links, headings, blocks, n.Digest, n.VaultName,
		); err != nil {
			return fmt.Errorf("write note %s: %w", n.ID, err)
		}
	}

	for key, id := range snap.Identity.All() {
		if _, err := tx.Exec("INSERT INTO identity (key, id) VALUES (?, ?)", string(key), string(id)); err != nil {
			return fmt.Errorf("write identity %s: %w", key, err)
		}
	}

	for path, meta := range snap.Files {
		if _, err := tx.Exec(
			"INSERT INTO files (path, mtime_ns, size, digest) VALUES (?, ?, ?, ?)",
			path, meta.MTime.UnixNano(), meta.Size, meta.Digest,
		); err != nil {
			return fmt.Errorf("write file metadata %s: %w", path, err)
		}
	}

	return tx.Commit()
}

// Load reads a snapshot from path and rejects it unless both the format
// version and the model id match. A missing file is reported as the
// underlying not-exist error; anything unreadable or mismatched is
// ErrIncompatibleSnapshot.
func Load(path string, modelID string) (*Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleSnapshot, err)
	}
	defer db.Close()

	meta, err := readMeta(db)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleSnapshot, err)
	}
	if meta["version"] != strconv.Itoa(Version) {
		return nil, fmt.Errorf("%w: version %q", ErrIncompatibleSnapshot, meta["version"])
	}
	if meta["model_id"] != modelID {
		return nil, fmt.Errorf("%w: model %q", ErrIncompatibleSnapshot, meta["model_id"])
	}

	snap := &Snapshot{
		ModelID:  modelID,
		Store:    store.New(),
		Identity: identity.New(),
		Files:    make(map[string]FileMetadata),
	}

	if err := loadNotes(db, snap.Store); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleSnapshot, err)
	}

	rows, err := db.Query("SELECT key, id FROM identity")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleSnapshot, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, id string
		if err := rows.Scan(&key, &id); err != nil {
			return nil, fmt.Errorf("read identity: %w", err)
		}
		snap.Identity.Bind(note.Key(key), note.ID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read identity: %w", err)
	}

	fileRows, err := db.Query("SELECT path, mtime_ns, size, digest FROM files")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleSnapshot, err)
	}
	defer fileRows.Close()
	for fileRows.Next() {
		var p, digest string
		var mtimeNS, size int64
		if err := fileRows.Scan(&p, &mtimeNS, &size, &digest); err != nil {
			return nil, fmt.Errorf("read file metadata: %w", err)
		}
		snap.Files[p] = FileMetadata{MTime: time.Unix(0, mtimeNS), Size: size, Digest: digest}
	}
	if err := fileRows.Err(); err != nil {
		return nil, fmt.Errorf("read file metadata: %w", err)
	}

	return snap, nil
}

func readMeta(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query("SELECT key, value FROM meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func loadNotes(db *sql.DB, st *store.Store) error {
	rows, err := db.Query(
		"SELECT id, path, title, frontmatter, content_offset, links, headings, blocks, digest, vault FROM notes",
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	var loaded []*note.Note
	for rows.Next() {
		var id, path, title, digest, vault string
		var frontmatter, links, headings, blocks sql.NullString
		var contentOffset int
		if err := rows.Scan(&id, &path, &title, &frontmatter, &contentOffset,
			&links, &headings, &blocks, &digest, &vault); err != nil {
			return fmt.Errorf("read note: %w", err)
		}
		n := &note.Note{
			ID:            note.ID(id),
			Path:          path,
			Title:         title,
			ContentOffset: contentOffset,
			Digest:        digest,
			VaultName:     vault,
		}
		if err := decodeNote(n, frontmatter, links, headings, blocks); err != nil {
			return err
		}
		loaded = append(loaded, n)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, n := range loaded {
		st.Upsert(n)
	}
	// Rebuild the link indices after every note is present.
	for _, n := range loaded {
		if len(n.Links) == 0 {
			continue
		}
		targets := make([]note.ID, 0, len(n.Links))
		for _, l := range n.Links {
			targets = append(targets, l.Target)
		}
		st.SetOutgoingLinks(n.ID, targets)
	}
	return nil
}

func encodeNote(n *note.Note) (frontmatter, links, headings, blocks []byte, err error) {
	if n.Frontmatter != nil {
		if frontmatter, err = json.Marshal(n.Frontmatter); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode frontmatter of %s: %w", n.ID, err)
		}
	}
	if links, err = json.Marshal(n.Links); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode links of %s: %w", n.ID, err)
	}
	if headings, err = json.Marshal(n.Headings); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode headings of %s: %w", n.ID, err)
	}
	if blocks, err = json.Marshal(n.Blocks); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode blocks of %s: %w", n.ID, err)
	}
	return frontmatter, links, headings, blocks, nil
}

func decodeNote(n *note.Note, frontmatter, links, headings, blocks sql.NullString) error {
	if frontmatter.Valid && frontmatter.String != "" {
		if err := json.Unmarshal([]byte(frontmatter.String), &n.Frontmatter); err != nil {
			return fmt.Errorf("decode frontmatter of %s: %w", n.ID, err)
		}
	}
	if links.Valid && links.String != "" {
		if err := json.Unmarshal([]byte(links.String), &n.Links); err != nil {
			return fmt.Errorf("decode links of %s: %w", n.ID, err)
		}
	}
	if headings.Valid && headings.String != "" {
		if err := json.Unmarshal([]byte(headings.String), &n.Headings); err != nil {
			return fmt.Errorf("decode headings of %s: %w", n.ID, err)
		}
	}
	if blocks.Valid && blocks.String != "" {
		if err := json.Unmarshal([]byte(blocks.String), &n.Blocks); err != nil {
			return fmt.Errorf("decode blocks of %s: %w", n.ID, err)
		}
	}
	return nil
}
