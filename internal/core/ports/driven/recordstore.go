package driven

import "context"

// RecordWrite is one change applied by RecordStore.Commit.
type RecordWrite struct {
	Key   string
	Value []byte

	// Delete removes Key instead of storing Value.
	Delete bool
}

// RecordStore is a durable key space of named text records.
// Backed by SQLite in production and memory in tests.
type RecordStore interface {
	// Get returns the record stored under key.
	// Returns domain.ErrNotFound if no record exists.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores or replaces the record under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the record under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Commit applies every write in order as one unit: either all of them
	// take effect or none do.
	Commit(ctx context.Context, writes ...RecordWrite) error
}
