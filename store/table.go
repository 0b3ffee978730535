// Package store is the in-process data layer for siteengine. It holds every
// collection the site backend reads and writes: users, sessions, blog and
// portfolio content, taxonomy join tables, media metadata, and per-day
// analytics buckets. Nothing is persisted; a restart starts from seed data.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrConflict is returned when an insert or update would violate a
// declared unique index.
var ErrConflict = errors.New("store: conflict")

// Record is implemented by every row type, usually by embedding Meta.
// Clone returns a shallow copy so the table never hands out its own rows.
type Record[R any] interface {
	RecordID() string
	Clone() R

	setID(string)
	setCreatedAt(time.Time)
	recordCreatedAt() time.Time
}

// Meta carries the fields shared by every row: an opaque unique id and an
// immutable creation timestamp, both assigned by the table on insert.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordID returns the row's id.
func (m *Meta) RecordID() string { return m.ID }

func (m *Meta) setID(id string)            { m.ID = id }
func (m *Meta) setCreatedAt(t time.Time)   { m.CreatedAt = t }
func (m *Meta) recordCreatedAt() time.Time { return m.CreatedAt }

// Stamps adds a managed updated_at field. Tables re-stamp it on every
// insert and update for row types that embed it; whether a table tracks
// updates is declared by the row type itself, never guessed from payloads.
type Stamps struct {
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Stamps) setUpdatedAt(t time.Time) { s.UpdatedAt = t }

type stamped interface {
	setUpdatedAt(time.Time)
}

type uniqueIndex[R Record[R]] struct {
	field string
	key   func(R) string
	ids   map[string]string // index key -> row id
}

// Table is a named, ordered collection of rows of one type. All operations
// are safe for concurrent use. Reads are linear scans in insertion order;
// declared unique indexes exist only to reject duplicates, not to speed
// lookups up.
type Table[R Record[R]] struct {
	name string
	now  func() time.Time

	mu     sync.RWMutex
	rows   []R
	unique []uniqueIndex[R]
}

// TableOption configures a Table at construction time.
type TableOption[R Record[R]] func(*Table[R])

// Unique declares a unique index over the string returned by key.
// Empty keys are exempt. Inserts and updates that would duplicate a
// non-empty key fail with ErrConflict.
func Unique[R Record[R]](field string, key func(R) string) TableOption[R] {
	return func(t *Table[R]) {
		t.unique = append(t.unique, uniqueIndex[R]{
			field: field,
			key:   key,
			ids:   make(map[string]string),
		})
	}
}

// NewTable creates an empty table with the given collection name.
func NewTable[R Record[R]](name string, opts ...TableOption[R]) *Table[R] {
	t := &Table[R]{name: name, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the collection name the table was created with.
func (t *Table[R]) Name() string { return t.name }

// Insert stores a copy of row with a fresh id and created_at stamp and
// returns the stored copy. Row types that embed Stamps also get updated_at
// set to the same instant.
func (t *Table[R]) Insert(row R) (R, error) {
	var zero R
	cp := row.Clone()

	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.unique {
		k := t.unique[i].key(cp)
		if k == "" {
			continue
		}
		if _, taken := t.unique[i].ids[k]; taken {
			return zero, fmt.Errorf("%s: %s %q already exists: %w", t.name, t.unique[i].field, k, ErrConflict)
		}
	}

	now := t.now()
	cp.setID(uuid.NewString())
	cp.setCreatedAt(now)
	if s, ok := any(cp).(stamped); ok {
		s.setUpdatedAt(now)
	}

	t.rows = append(t.rows, cp)
	for i := range t.unique {
		if k := t.unique[i].key(cp); k != "" {
			t.unique[i].ids[k] = cp.RecordID()
		}
	}
	return cp.Clone(), nil
}

// Get returns a copy of the row with the given id, or ErrNotFound.
func (t *Table[R]) Get(id string) (R, error) {
	var zero R

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, r := range t.rows {
		if r.RecordID() == id {
			return r.Clone(), nil
		}
	}
	return zero, ErrNotFound
}

// List returns copies of every row matching all the given predicates, in
// insertion order. With no predicates it returns the whole collection.
func (t *Table[R]) List(preds ...func(R) bool) []R {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]R, 0, len(t.rows))
rows:
	for _, r := range t.rows {
		for _, pred := range preds {
			if !pred(r) {
				continue rows
			}
		}
		out = append(out, r.Clone())
	}
	return out
}

// First returns a copy of the first row matching pred, or ErrNotFound.
func (t *Table[R]) First(pred func(R) bool) (R, error) {
	var zero R

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, r := range t.rows {
		if pred(r) {
			return r.Clone(), nil
		}
	}
	return zero, ErrNotFound
}

// Update applies mutate to a copy of the row with the given id and writes
// the result back in place. The row's id and created_at survive whatever
// mutate does to them; updated_at is re-stamped for row types that track
// it. Unique indexes are re-checked against every other row.
func (t *Table[R]) Update(id string, mutate func(R)) (R, error) {
	var zero R

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i, r := range t.rows {
		if r.RecordID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return zero, ErrNotFound
	}

	old := t.rows[idx]
	next := old.Clone()
	mutate(next)
	next.setID(old.RecordID())
	next.setCreatedAt(old.recordCreatedAt())

	for i := range t.unique {
		k := t.unique[i].key(next)
		if k == "" {
			continue
		}
		if owner, taken := t.unique[i].ids[k]; taken && owner != id {
			return zero, fmt.Errorf("%s: %s %q already exists: %w", t.name, t.unique[i].field, k, ErrConflict)
		}
	}

	if s, ok := any(next).(stamped); ok {
		s.setUpdatedAt(t.now())
	}

	for i := range t.unique {
		if k := t.unique[i].key(old); k != "" {
			delete(t.unique[i].ids, k)
		}
		if k := t.unique[i].key(next); k != "" {
			t.unique[i].ids[k] = id
		}
	}
	t.rows[idx] = next
	return next.Clone(), nil
}

// Delete removes the row with the given id and reports whether a row was
// actually removed.
func (t *Table[R]) Delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, r := range t.rows {
		if r.RecordID() != id {
			continue
		}
		for j := range t.unique {
			if k := t.unique[j].key(r); k != "" {
				delete(t.unique[j].ids, k)
			}
		}
		t.rows = append(t.rows[:i], t.rows[i+1:]...)
		return true
	}
	return false
}

// Count returns the number of rows matching all the given predicates.
func (t *Table[R]) Count(preds ...func(R) bool) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
rows:
	for _, r := range t.rows {
		for _, pred := range preds {
			if !pred(r) {
				continue rows
			}
		}
		n++
	}
	return n
}

// Len returns the total number of rows.
func (t *Table[R]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Reset empties the table and its indexes.
func (t *Table[R]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	for i := range t.unique {
		t.unique[i].ids = make(map[string]string)
	}
}
