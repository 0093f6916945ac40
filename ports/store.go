package ports

import (
	"context"

	"fishtrack/domain/interval"
)

// Store is the key/range persistence engine the Store Coordinator wraps.
// Hash key is transmitter_id; range key is the zero-padded start string;
// a secondary range index on stop must exist for range queries by end
// time, though this interface only names the operations the core uses.
type Store interface {
	// PutBatch writes rows, chunking internally at whatever batch-write
	// limit the concrete engine imposes.
	PutBatch(ctx context.Context, rows []interval.PersistedInterval) error

	// DeleteBatch removes rows for transmitterID identified by their
	// original start sort-key values.
	DeleteBatch(ctx context.Context, transmitterID string, startKeys []string) error

	// Query returns every persisted interval for transmitterID, ordered
	// by start ascending.
	Query(ctx context.Context, transmitterID string) ([]interval.PersistedInterval, error)

	// TransmitterIDs scans the transmitter attribute only and returns
	// the unique set of transmitter ids present in the store.
	TransmitterIDs(ctx context.Context) ([]string, error)

	// EnsureSchema provisions the persistence schema (table + secondary
	// index) if it does not already exist.
	EnsureSchema(ctx context.Context) error

	// DropSchema removes the persistence schema.
	DropSchema(ctx context.Context) error
}
