// Package storage provides durable JSON-document persistence on local disk.
//
// Every document is a single JSON file rewritten in full on each mutation
// using write-to-temp + fsync + rename, so the file on disk is always either
// the previous valid document or the new one — never a truncated mix. Writes
// are guarded by a non-blocking exclusive file lock; a concurrent writer gets
// ErrLockHeld immediately instead of queueing. Reads never take the lock and
// never fail: a missing or corrupted file degrades to the caller-supplied
// default. Corruption therefore means silent data loss for that document,
// which is the accepted trade-off for a single-user local store.
//
// Two store shapes sit on top of the atomic writer:
//
//	Collection[T] — a document holding a named list of entities (tasks.json)
//	Single[T]     — a document holding one entity under "value" (settings.json)
//
// Neither keeps in-memory state between calls; every operation re-reads from
// disk, so edits made by external processes are visible on the next call.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// WriteJSON atomically replaces the document at path with the JSON encoding
// of doc. The new content becomes visible only through the final rename;
// an interrupted write leaves the previous document untouched. Returns
// ErrLockHeld without waiting if another writer holds the lock.
func WriteJSON(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir %s: %v", ErrUnavailable, dir, err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("%w: lock %s: %v", ErrUnavailable, path, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLockHeld, path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrUnavailable, err)
	}
	tmpPath := tmp.Name()
	// No-op once the rename succeeds; cleans up on every failure path.
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write temp: %v", ErrUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync temp: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %v", ErrUnavailable, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("%w: chmod temp: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

// ReadJSON reads the document at path. A missing file, unparseable content
// (partial write from a crash, manual corruption), or any other read failure
// returns def — corruption is treated as "no data", never as fatal.
func ReadJSON[T any](path string, def T) T {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("document unreadable, using default", "path", path, "error", err)
		}
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("document corrupted, using default", "path", path, "error", err)
		return def
	}
	return v
}

// EnsureExists creates the document with initial content if path is absent.
// Existing content is never overwritten, even if stale relative to initial.
func EnsureExists(path string, initial any) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: stat %s: %v", ErrUnavailable, path, err)
	}
	return WriteJSON(path, initial)
}

// Backup copies the document at path into backupDir under a timestamped
// name (<name>.<YYYYMMDD_HHMMSS>.bak) and returns the backup path. Not
// invoked automatically by any store; this is a manual operation.
func Backup(path, backupDir string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}
	defer src.Close()

	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create backup dir: %v", ErrUnavailable, err)
	}

	stamp := time.Now().UTC().Format("20060102_150405")
	dstPath := filepath.Join(backupDir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("%w: create backup: %v", ErrUnavailable, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("%w: copy backup: %v", ErrUnavailable, err)
	}
	return dstPath, nil
}
