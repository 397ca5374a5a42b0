// Package registry provides a generic thread-safe registry for values indexed
// by key that preserves insertion order.
//
// Ordered is designed for read-heavy workloads using sync.RWMutex. Unlike a
// plain map, Keys and Values always yield entries in the order they
// were first inserted, which keeps listings deterministic.
//
// # Basic Usage
//
//	r := registry.New[int64, string]()
//	r.Insert(2, "two")
//	r.Insert(1, "one")
//
//	r.Keys() // [2 1]
//
//	if !r.Insert(1, "uno") {
//	    // key already present, registry unchanged
//	}
//
// Put replaces a value in place without moving it:
//
//	r.Put(2, "deux")
//	r.Values() // ["deux" "one"]
//
// # Thread Safety
//
// All methods are safe for concurrent use. Keys and Values return copies, so
// callers may mutate the registry while holding a listing.
package registry
