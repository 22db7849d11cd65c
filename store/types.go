package store

import "github.com/schain/schain"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = schain.ReadOnlyKVStore
	SetDeleter       = schain.SetDeleter
	KVStore          = schain.KVStore
	Batch            = schain.Batch
	Iterator         = schain.Iterator
	CacheableKVStore = schain.CacheableKVStore
	KVCacheWrap      = schain.KVCacheWrap
	CommitKVStore    = schain.CommitKVStore
	CommitID         = schain.CommitID
	Model            = schain.Model
)

// Pair constructs a model from a key-value pair
var Pair = schain.Pair
