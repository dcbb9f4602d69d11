package store

import "context"

// Client provides hash-map and sorted-set operations against a shared
// key-value store. It is a thin transport: keys are never interpreted,
// and no business logic lives at this level.
//
// All operations may fail with a connectivity or store-side error.
// Implementations must be thread-safe.
type Client interface {
	// HGetAll returns all fields of the hash at key. A missing key
	// yields an empty map and no error.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// HGet returns a single hash field. A missing key or field yields
	// an empty string and no error.
	HGet(ctx context.Context, key, field string) (string, error)

	// HSet writes a single hash field.
	HSet(ctx context.Context, key, field, value string) error

	// HMSet writes multiple hash fields in one operation.
	HMSet(ctx context.Context, key string, fields map[string]string) error

	// Exists reports whether key is present in the store.
	Exists(ctx context.Context, key string) (bool, error)

	// Del removes key and all its fields.
	Del(ctx context.Context, key string) error

	// ZAdd adds member to the sorted set at key with the given score,
	// replacing the member's previous score if it was already present.
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRange returns members of the sorted set at key between the
	// start and stop ranks, inclusive. Negative ranks count from the
	// end (-1 is the last member). When rev is true, members are
	// returned in descending score order.
	ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error)

	// ZRem removes member from the sorted set at key. Removing an
	// absent member is not an error.
	ZRem(ctx context.Context, key, member string) error

	// Pipeline returns a batch that groups writes into one round trip.
	Pipeline() Pipeline

	// Close releases the client's resources.
	Close() error
}

// Pipeline is a batched group of write commands sent together for
// efficiency. It is NOT a transaction: a pipeline that fails partway
// may have applied a prefix of its commands. Callers must treat paired
// writes as eventually consistent.
//
// Command methods return the pipeline for chaining. Nothing is sent
// until Exec is called.
type Pipeline interface {
	Del(key string) Pipeline
	ZRem(key, member string) Pipeline
	HMSet(key string, fields map[string]string) Pipeline
	ZAdd(key string, score float64, member string) Pipeline

	// Exec sends the batch. Returns the first error encountered.
	Exec(ctx context.Context) error
}
