package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Entity is a record stored in a collection document.
type Entity interface {
	// Key returns the value that uniquely identifies the entity within
	// its collection (a task's id, a project's name).
	Key() string
	// Validate reports whether the decoded record satisfies the current
	// schema. Records failing validation are skipped on read.
	Validate() error
}

// Normalizer rewrites a raw decoded item to the current schema before
// validation, e.g. mapping a legacy enum value to its replacement. It must
// be idempotent: normalizing an already-normalized item is a no-op. The
// on-disk value stays legacy until the item's next write.
type Normalizer func(map[string]any) map[string]any

// Collection is a repository over a JSON document holding a named list of
// entities. Every operation performs a full read-modify-write cycle against
// the file; no state is retained between calls, so external edits to the
// document are visible on the next operation.
//
// Mutations operate on the raw item list: records that fail typed parsing
// are preserved on disk across Add/Update/Delete and only filtered out of
// read results.
type Collection[T Entity] struct {
	path      string
	key       string // document key holding the item list
	idField   string // raw field acting as the identifier ("id", "name")
	normalize Normalizer
	logger    *slog.Logger
}

// NewCollection opens a collection document, creating it with an empty list
// if absent. normalize may be nil when the entity has no legacy fields.
func NewCollection[T Entity](path, key, idField string, normalize Normalizer, logger *slog.Logger) (*Collection[T], error) {
	c := &Collection[T]{
		path:      path,
		key:       key,
		idField:   idField,
		normalize: normalize,
		logger:    logger.With("component", "storage", "path", path),
	}
	if err := EnsureExists(path, map[string]any{key: []any{}}); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the document's file path.
func (c *Collection[T]) Path() string {
	return c.path
}

// GetAll returns every item that decodes into a valid T. Items that fail to
// parse or validate are skipped with a warning so one malformed row does not
// fail the whole listing.
func (c *Collection[T]) GetAll() []T {
	raws := c.rawItems(c.readDoc())
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := c.decode(raw)
		if err != nil {
			c.logger.Warn("skipping unparseable item", "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// GetByID returns the first item whose identifier equals id.
func (c *Collection[T]) GetByID(id string) (T, bool) {
	for _, v := range c.GetAll() {
		if v.Key() == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// GetByField returns the first item whose named field equals value after
// normalization. Matching is exact and case-sensitive.
func (c *Collection[T]) GetByField(field, value string) (T, bool) {
	var zero T
	for _, raw := range c.rawItems(c.readDoc()) {
		m, err := c.normalizedMap(raw)
		if err != nil {
			continue
		}
		if !fieldMatches(m, field, value) {
			continue
		}
		v, err := c.decode(raw)
		if err != nil {
			continue
		}
		return v, true
	}
	return zero, false
}

// Add appends e to the collection. Fails with ErrDuplicateID, without
// writing, if an item with the same identifier already exists. The entity
// is stored as given — callers are expected to have set defaults such as a
// generated id and timestamps.
func (c *Collection[T]) Add(e T) error {
	if err := e.Validate(); err != nil {
		return err
	}

	doc := c.readDoc()
	raws := c.rawItems(doc)
	for _, raw := range raws {
		if k, ok := rawField(raw, c.idField); ok && k == e.Key() {
			return fmt.Errorf("%w: %s=%q", ErrDuplicateID, c.idField, e.Key())
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	return c.writeItems(doc, append(raws, b))
}

// Update replaces the item whose identifier matches e, preserving list
// order. Fails with ErrNotFound, without writing, if no item matches.
func (c *Collection[T]) Update(e T) error {
	if err := e.Validate(); err != nil {
		return err
	}

	doc := c.readDoc()
	raws := c.rawItems(doc)
	for i, raw := range raws {
		k, ok := rawField(raw, c.idField)
		if !ok || k != e.Key() {
			continue
		}
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal item: %w", err)
		}
		raws[i] = b
		return c.writeItems(doc, raws)
	}
	return fmt.Errorf("%w: %s=%q", ErrNotFound, c.idField, e.Key())
}

// Delete removes the item whose identifier equals id and reports whether
// anything was removed. When nothing matched the document is not rewritten.
func (c *Collection[T]) Delete(id string) (bool, error) {
	doc := c.readDoc()
	raws := c.rawItems(doc)

	kept := raws[:0:0]
	for _, raw := range raws {
		if k, ok := rawField(raw, c.idField); ok && k == id {
			continue
		}
		kept = append(kept, raw)
	}
	if len(kept) == len(raws) {
		return false, nil
	}
	if err := c.writeItems(doc, kept); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByField removes every item whose named field equals value and
// returns how many were removed. When nothing matched the document is not
// rewritten.
func (c *Collection[T]) DeleteByField(field, value string) (int, error) {
	doc := c.readDoc()
	raws := c.rawItems(doc)

	kept := raws[:0:0]
	for _, raw := range raws {
		if m, err := c.normalizedMap(raw); err == nil && fieldMatches(m, field, value) {
			continue
		}
		kept = append(kept, raw)
	}
	removed := len(raws) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := c.writeItems(doc, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Count returns the number of valid items in the collection.
func (c *Collection[T]) Count() int {
	return len(c.GetAll())
}

// Clear replaces the list with an empty one.
func (c *Collection[T]) Clear() error {
	return WriteJSON(c.path, map[string]any{c.key: []any{}})
}

// readDoc loads the full document, preserving keys other than the item
// list. Corruption degrades to an empty document.
func (c *Collection[T]) readDoc() map[string]json.RawMessage {
	def := map[string]json.RawMessage{c.key: json.RawMessage("[]")}
	return ReadJSON(c.path, def)
}

// rawItems extracts the undecoded item list from a document. A missing key
// or null list yields nil.
func (c *Collection[T]) rawItems(doc map[string]json.RawMessage) []json.RawMessage {
	raw, ok := doc[c.key]
	if !ok || len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("item list unreadable, treating as empty", "error", err)
		return nil
	}
	return items
}

func (c *Collection[T]) writeItems(doc map[string]json.RawMessage, raws []json.RawMessage) error {
	if raws == nil {
		raws = []json.RawMessage{}
	}
	b, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	doc[c.key] = b
	return WriteJSON(c.path, doc)
}

// decode turns a raw item into a validated T, applying normalization first.
func (c *Collection[T]) decode(raw json.RawMessage) (T, error) {
	var zero T
	if c.normalize != nil {
		m, err := c.normalizedMap(raw)
		if err != nil {
			return zero, err
		}
		b, err := json.Marshal(m)
		if err != nil {
			return zero, err
		}
		raw = b
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, err
	}
	if err := v.Validate(); err != nil {
		return zero, err
	}
	return v, nil
}

func (c *Collection[T]) normalizedMap(raw json.RawMessage) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if c.normalize != nil {
		m = c.normalize(m)
	}
	return m, nil
}

// rawField extracts the string value of a field from an undecoded item.
func rawField(raw json.RawMessage, field string) (string, bool) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", false
	}
	v, ok := m[field]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

func fieldMatches(m map[string]any, field, value string) bool {
	v, ok := m[field]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s == value
	}
	return fmt.Sprint(v) == value
}
