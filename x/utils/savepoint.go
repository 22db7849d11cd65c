package utils

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// Savepoint isolates all writes of the wrapped handler. Changes are
// written to the parent store only when the handler succeeds, otherwise
// they are dropped.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ schain.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Checker) (*schain.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *schain.CheckResult
	err := withCache(store, func(db schain.KVStore) error {
		var err error
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Deliverer) (*schain.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *schain.DeliverResult
	err := withCache(store, func(db schain.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// withCache runs fn on a cache wrap of the store. Stores that cannot be
// cache wrapped are passed through untouched.
func withCache(store schain.KVStore, fn func(schain.KVStore) error) error {
	cstore, ok := store.(schain.CacheableKVStore)
	if !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
