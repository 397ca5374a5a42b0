package record

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/randalmurphal/datakit/pkg/datakit/observability"
)

// Registry is a keyed collection of records with boolean-result CRUD.
//
// Expected conditions (duplicate id, missing id) are reported as false.
// Unexpected store failures are logged and also reported as false, so the
// caller-facing contract stays boolean.
type Registry struct {
	// mu serializes mutations so Update's load-modify-replace cycle cannot
	// interleave with Add or Delete.
	mu      sync.RWMutex
	store   Store
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	now     func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithStore sets the backing store. Defaults to a fresh MemoryStore.
func WithStore(s Store) Option {
	return func(r *Registry) {
		if s != nil {
			r.store = s
		}
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = observability.EnrichLogger(logger, "record")
	}
}

// WithMetrics sets the metrics recorder. Defaults to NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(r *Registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithClock overrides the time source used by Summarize.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		store:   NewMemoryStore(),
		metrics: observability.NoopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// observe starts timing op and returns a function that records the outcome.
func (r *Registry) observe(op string) func(ok bool) {
	done := observability.TimedOperation()
	return func(ok bool) {
		r.metrics.RecordRegistryOp(context.Background(), op, ok, done())
	}
}

// Add inserts a copy of rec. It returns false, leaving the registry
// unchanged, if rec is nil or its ID is already present.
func (r *Registry) Add(rec *Record) (ok bool) {
	finish := r.observe("add")
	defer func() { finish(ok) }()

	if rec == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Insert(*rec)
	switch {
	case err == nil:
		observability.LogRecordAdded(r.logger, rec.ID)
		return true
	case errors.Is(err, ErrExists):
		observability.LogRecordRejected(r.logger, "add", rec.ID, "already exists")
	default:
		observability.LogStoreError(r.logger, "add", rec.ID, err)
	}
	return false
}

// Get returns a copy of the record with the given id.
func (r *Registry) Get(id int64) (*Record, bool) {
	finish := r.observe("get")

	r.mu.RLock()
	rec, err := r.store.Load(id)
	r.mu.RUnlock()

	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			observability.LogStoreError(r.logger, "get", id, err)
		}
		finish(false)
		return nil, false
	}
	finish(true)
	return &rec, true
}

// Update applies the provided fields of u to the record with the given id.
// It returns false if no such record exists. An empty Update changes
// nothing and returns true for an existing record.
func (r *Registry) Update(id int64, u Update) (ok bool) {
	finish := r.observe("update")
	defer func() { finish(ok) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.Load(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			observability.LogRecordRejected(r.logger, "update", id, "not found")
		} else {
			observability.LogStoreError(r.logger, "update", id, err)
		}
		return false
	}

	if u.IsEmpty() {
		return true
	}

	fields := u.apply(&rec)
	if err := r.store.Replace(rec); err != nil {
		observability.LogStoreError(r.logger, "update", id, err)
		return false
	}
	observability.LogRecordUpdated(r.logger, id, fields)
	return true
}

// Delete removes the record with the given id. It returns false if absent.
func (r *Registry) Delete(id int64) (ok bool) {
	finish := r.observe("delete")
	defer func() { finish(ok) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Delete(id)
	switch {
	case err == nil:
		observability.LogRecordDeleted(r.logger, id)
		return true
	case errors.Is(err, ErrNotFound):
		observability.LogRecordRejected(r.logger, "delete", id, "not found")
	default:
		observability.LogStoreError(r.logger, "delete", id, err)
	}
	return false
}

// List returns copies of all records in insertion order.
func (r *Registry) List() []*Record {
	finish := r.observe("list")

	r.mu.RLock()
	records, err := r.store.List()
	r.mu.RUnlock()

	if err != nil {
		observability.LogStoreError(r.logger, "list", 0, err)
		finish(false)
		return []*Record{}
	}
	finish(true)

	out := make([]*Record, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out
}

// SearchByName returns the records whose name contains query, ignoring
// case, in List order. An empty query matches every record.
func (r *Registry) SearchByName(query string) []*Record {
	needle := strings.ToLower(query)
	results := make([]*Record, 0)
	for _, rec := range r.List() {
		if strings.Contains(strings.ToLower(rec.Name), needle) {
			results = append(results, rec)
		}
	}
	return results
}

// Count returns the number of records.
func (r *Registry) Count() int {
	r.mu.RLock()
	n, err := r.store.Len()
	r.mu.RUnlock()

	if err != nil {
		observability.LogStoreError(r.logger, "count", 0, err)
		return 0
	}
	return n
}

// Close releases the backing store.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Close()
}
