package record

import (
	"sync/atomic"

	"github.com/randalmurphal/datakit/pkg/datakit/registry"
)

// MemoryStore keeps records in an insertion-ordered in-process map.
// Data is lost when the process exits.
type MemoryStore struct {
	records *registry.Ordered[int64, Record]
	closed  atomic.Bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: registry.New[int64, Record](),
	}
}

// Insert implements Store.
func (m *MemoryStore) Insert(r Record) error {
	if m.closed.Load() {
		return ErrStoreClosed
	}
	if !m.records.Insert(r.ID, r) {
		return ErrExists
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(id int64) (Record, error) {
	if m.closed.Load() {
		return Record{}, ErrStoreClosed
	}
	r, ok := m.records.Get(id)
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

// Replace implements Store.
//
// The existence check and the write are not one atomic step; Registry
// serializes its own read-modify-write cycles.
func (m *MemoryStore) Replace(r Record) error {
	if m.closed.Load() {
		return ErrStoreClosed
	}
	if !m.records.Has(r.ID) {
		return ErrNotFound
	}
	m.records.Put(r.ID, r)
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(id int64) error {
	if m.closed.Load() {
		return ErrStoreClosed
	}
	if !m.records.Delete(id) {
		return ErrNotFound
	}
	return nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Record, error) {
	if m.closed.Load() {
		return nil, ErrStoreClosed
	}
	return m.records.Values(), nil
}

// Len implements Store.
func (m *MemoryStore) Len() (int, error) {
	if m.closed.Load() {
		return 0, ErrStoreClosed
	}
	return m.records.Len(), nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.closed.Store(true)
	return nil
}
