package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/chatvault/store"
)

// pipeline buffers write commands and executes them in one read-write
// transaction on Exec.
type pipeline struct {
	backend *Backend
	ops     []func(tx *badger.Txn) error
}

var _ store.Pipeline = (*pipeline)(nil)

func (p *pipeline) Del(key string) store.Pipeline {
	p.ops = append(p.ops, func(tx *badger.Txn) error {
		return txDel(tx, key)
	})
	return p
}

func (p *pipeline) ZRem(key, member string) store.Pipeline {
	p.ops = append(p.ops, func(tx *badger.Txn) error {
		return txZRem(tx, key, member)
	})
	return p
}

func (p *pipeline) HMSet(key string, fields map[string]string) store.Pipeline {
	p.ops = append(p.ops, func(tx *badger.Txn) error {
		return txHMSet(tx, key, fields)
	})
	return p
}

func (p *pipeline) ZAdd(key string, score float64, member string) store.Pipeline {
	p.ops = append(p.ops, func(tx *badger.Txn) error {
		return txZAdd(tx, key, score, member)
	})
	return p
}

func (p *pipeline) Exec(ctx context.Context) error {
	if len(p.ops) == 0 {
		return nil
	}
	err := p.backend.update(func(tx *badger.Txn) error {
		for _, op := range p.ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
	p.ops = nil
	return err
}
