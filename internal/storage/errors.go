package storage

import "errors"

// Sentinel errors returned by storage operations. Callers match them with
// errors.Is to map failures to user-facing responses (conflict, not-found,
// retry-later, server-error).
var (
	// ErrLockHeld means another writer currently holds the file lock.
	// The write was aborted before touching the document; nothing to retry
	// at this layer — lock acquisition is try-once by design.
	ErrLockHeld = errors.New("file lock held by another writer")

	// ErrDuplicateID is returned by Add when an item with the same
	// identifier already exists in the collection.
	ErrDuplicateID = errors.New("identifier already exists")

	// ErrNotFound is returned by Update when no item matches the
	// identifier. Delete of a missing identifier is NOT an error — it
	// reports "nothing removed".
	ErrNotFound = errors.New("item not found")

	// ErrUnavailable wraps underlying I/O failures (disk full, permission
	// denied, invalid path) during a write. Reads never surface it — they
	// degrade to the caller-supplied default instead.
	ErrUnavailable = errors.New("storage unavailable")
)
