package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/chatvault/store"
)

// Client implements store.Client on top of an embedded BadgerDB.
//
// Hashes are stored as one BadgerDB key per field. Sorted sets are
// stored as composite keys with a big-endian order-preserving score
// segment, so lexicographic iteration yields score order; a secondary
// key per member tracks its current score for replacement and removal.
type Client struct {
	backend *Backend
}

var _ store.Client = (*Client)(nil)

// Open creates a Badger-backed store client at the given directory.
//
// Returns store.Client interface (not *Client) to enforce abstraction
// and keep consumers swappable between backends.
func Open(filePath string) (store.Client, error) {
	backend, err := OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return &Client{backend: backend}, nil
}

// HGetAll returns all fields of the hash at key.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields := make(map[string]string)
	prefix := makeHashPrefix(key)

	err := c.backend.view(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			field := string(item.Key()[len(prefix):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			fields[field] = string(value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// HGet returns a single hash field, or an empty string if the key or
// field is absent.
func (c *Client) HGet(ctx context.Context, key, field string) (string, error) {
	var value string
	err := c.backend.view(func(tx *badger.Txn) error {
		item, err := tx.Get(makeHashFieldKey(key, field))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		value = string(data)
		return nil
	})
	return value, err
}

// HSet writes a single hash field.
func (c *Client) HSet(ctx context.Context, key, field, value string) error {
	return c.backend.update(func(tx *badger.Txn) error {
		return tx.Set(makeHashFieldKey(key, field), []byte(value))
	})
}

// HMSet writes multiple hash fields in one transaction.
func (c *Client) HMSet(ctx context.Context, key string, fields map[string]string) error {
	return c.backend.update(func(tx *badger.Txn) error {
		return txHMSet(tx, key, fields)
	})
}

// Exists reports whether the hash at key has any fields.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := c.backend.view(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeHashPrefix(key)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		iter.Rewind()
		exists = iter.Valid()
		return nil
	})
	return exists, err
}

// Del removes the hash at key with all its fields.
func (c *Client) Del(ctx context.Context, key string) error {
	return c.backend.update(func(tx *badger.Txn) error {
		return txDel(tx, key)
	})
}

// ZAdd adds member to the sorted set at key, replacing any previous
// score.
func (c *Client) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return c.backend.update(func(tx *badger.Txn) error {
		return txZAdd(tx, key, score, member)
	})
}

// ZRange returns members between the start and stop ranks, inclusive.
func (c *Client) ZRange(ctx context.Context, key string, start, stop int64, rev bool) ([]string, error) {
	var members []string
	prefix := makeZSetEntryPrefix(key)

	err := c.backend.view(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			k := iter.Item().Key()
			members = append(members, string(k[len(prefix)+8:]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rev {
		for i, j := 0, len(members)-1; i < j; i, j = i+1, j-1 {
			members[i], members[j] = members[j], members[i]
		}
	}

	lo, hi, ok := normalizeRange(start, stop, int64(len(members)))
	if !ok {
		return []string{}, nil
	}
	return members[lo : hi+1], nil
}

// ZRem removes member from the sorted set at key.
func (c *Client) ZRem(ctx context.Context, key, member string) error {
	return c.backend.update(func(tx *badger.Txn) error {
		return txZRem(tx, key, member)
	})
}

// Pipeline returns a batch executed in a single transaction. This is
// stronger than the store.Pipeline contract requires; callers must
// still assume the weaker best-effort semantics.
func (c *Client) Pipeline() store.Pipeline {
	return &pipeline{backend: c.backend}
}

// Close closes the underlying database.
func (c *Client) Close() error {
	return c.backend.Close()
}

// normalizeRange resolves redis-style rank bounds (negative ranks
// count from the end) against a set of n members. Returns ok=false
// when the range selects nothing.
func normalizeRange(start, stop, n int64) (int64, int64, bool) {
	if n == 0 {
		return 0, 0, false
	}
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n || stop < 0 {
		return 0, 0, false
	}
	return start, stop, true
}

// ===== transaction-scoped operations shared with the pipeline =====

func txHMSet(tx *badger.Txn, key string, fields map[string]string) error {
	for field, value := range fields {
		if err := tx.Set(makeHashFieldKey(key, field), []byte(value)); err != nil {
			return err
		}
	}
	return nil
}

func txDel(tx *badger.Txn, key string) error {
	prefix := makeHashPrefix(key)

	// Collect first; deleting while iterating invalidates the iterator.
	var keys [][]byte
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, k := range keys {
		if err := tx.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func txZAdd(tx *badger.Txn, key string, score float64, member string) error {
	scoreKey := makeZSetScoreKey(key, member)

	// Drop the old entry if the member is already present.
	item, err := tx.Get(scoreKey)
	if err == nil {
		old, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		oldEntry := makeZSetEntryKey(key, unmarshalScore(old), member)
		if err := tx.Delete(oldEntry); err != nil {
			return err
		}
	} else if err != badger.ErrKeyNotFound {
		return err
	}

	if err := tx.Set(makeZSetEntryKey(key, score, member), nil); err != nil {
		return err
	}
	return tx.Set(scoreKey, marshalScore(score))
}

func txZRem(tx *badger.Txn, key, member string) error {
	scoreKey := makeZSetScoreKey(key, member)

	item, err := tx.Get(scoreKey)
	if err == badger.ErrKeyNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	score, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if err := tx.Delete(makeZSetEntryKey(key, unmarshalScore(score), member)); err != nil {
		return err
	}
	return tx.Delete(scoreKey)
}
