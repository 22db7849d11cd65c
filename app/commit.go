package app

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// CommitStore wraps a CommitKVStore with the two scratch pads an ABCI
// application needs: one for DeliverTx and one for CheckTx.
//
// Not safe for concurrent use, ABCI calls are serialized by the consensus
// connection.
type CommitStore struct {
	committed schain.CommitKVStore
	deliver   schain.KVCacheWrap
	check     schain.KVCacheWrap
}

// NewCommitStore loads the latest version of given store and prepares
// fresh deliver and check caches on top of it.
func NewCommitStore(store schain.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the version and the root hash of the last commit.
func (cs *CommitStore) CommitInfo() (schain.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes the deliver cache into the underlying store, drops
// whatever CheckTx accumulated and persists a new version. Both caches
// are recreated on top of the new state.
func (cs *CommitStore) Commit() (schain.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return schain.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return id, nil
}

// CheckStore returns the store used during the checking phase.
func (cs *CommitStore) CheckStore() schain.CacheableKVStore {
	return cs.check
}

// DeliverStore returns the store used during the delivery phase.
func (cs *CommitStore) DeliverStore() schain.CacheableKVStore {
	return cs.deliver
}

// _sc: is a prefix for application internal data
const chainIDKey = "_sc:chainID"

func loadChainID(kv schain.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store. The chain id can be set
// only once.
func saveChainID(kv schain.KVStore, chainID string) error {
	if !schain.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	switch exists, err := kv.Has(k); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrImmutable, "chain id already set")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
