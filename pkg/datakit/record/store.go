package record

import "errors"

// Store persists records for a Registry.
// Implementations must be safe for concurrent use and must hand out
// copies, never their internal values.
type Store interface {
	// Insert stores a new record.
	// Returns ErrExists if a record with the same ID is present.
	Insert(r Record) error

	// Load retrieves a record by ID.
	// Returns ErrNotFound if it doesn't exist.
	Load(id int64) (Record, error)

	// Replace overwrites an existing record, keeping its list position.
	// Returns ErrNotFound if it doesn't exist.
	Replace(r Record) error

	// Delete removes a record.
	// Returns ErrNotFound if it doesn't exist.
	Delete(id int64) error

	// List returns all records in insertion order.
	List() ([]Record, error)

	// Len returns the number of stored records.
	Len() (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrExists indicates a record with the same ID is already stored.
	ErrExists = errors.New("record already exists")

	// ErrNotFound indicates no record has the requested ID.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("record store closed")
)
