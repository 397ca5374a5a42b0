package record

import "time"

// Summary aggregates the records held by a Registry.
type Summary struct {
	// Total is the number of records.
	Total int
	// Newest is the record with the latest CreatedAt, nil when empty.
	Newest *Record
	// Oldest is the record with the earliest CreatedAt, nil when empty.
	Oldest *Record
	// ComputedAt is when the summary was taken.
	ComputedAt time.Time
}

// Summarize computes a Summary over the current records.
// Ties on CreatedAt resolve to the record inserted first.
func (r *Registry) Summarize() Summary {
	records := r.List()
	s := Summary{
		Total:      len(records),
		ComputedAt: r.now(),
	}

	for _, rec := range records {
		if s.Newest == nil || rec.CreatedAt.After(s.Newest.CreatedAt) {
			s.Newest = rec
		}
		if s.Oldest == nil || rec.CreatedAt.Before(s.Oldest.CreatedAt) {
			s.Oldest = rec
		}
	}
	return s
}
