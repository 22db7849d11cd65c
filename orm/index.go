package orm

import (
	"bytes"
	"math"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// Indexer calculates the secondary index key for a given object
type Indexer func(Object) ([]byte, error)

const indexPrefix = "_x."

// Index is using the database native key ordering in order to maintain and
// provide access to a secondary index. Every indexed object is represented by
// a single, value-less entry in the store:
//
//	_x.<len>name<len>value<len>primary key
//
// where <len> is the length of the following chunk, encoded as a single
// byte.
type Index struct {
	name    string
	indexer Indexer
	unique  bool
	// refKey is a function that for given entity ID returns that entity
	// database key.
	refKey func([]byte) []byte
}

var _ schain.QueryHandler = (*Index)(nil)

// NewIndex returns an index maintained by the store native key ordering.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) *Index {
	return &Index{
		name:    name,
		indexer: indexer,
		unique:  unique,
		refKey:  refKey,
	}
}

// Name returns the name of this index.
func (ix *Index) Name() string {
	return ix.name
}

// Update updates the index. It should be called when any of the bucket
// entities has changed in the store.
//
// prev == nil means insert
// next == nil means delete
// both == nil is error
// if both != nil and prev.Key() != next.Key() this is an error
func (ix *Index) Update(db schain.KVStore, prev Object, next Object) error {
	if next == nil && prev == nil {
		return errors.Wrap(errors.ErrInput, "update requires at least one non-nil object")
	}
	if next != nil && prev != nil && !bytes.Equal(next.Key(), prev.Key()) {
		return errors.Wrap(errors.ErrState, "previous key is not the same as the new one")
	}

	if prev != nil {
		value, err := ix.indexer(prev)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		key, err := packIndexKey([]byte(ix.name), value, prev.Key())
		if err != nil {
			return err
		}
		if err := db.Delete(key); err != nil {
			return errors.Wrap(err, "db delete")
		}
	}

	if next != nil {
		value, err := ix.indexer(next)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		if ix.unique {
			if err := ix.assertFree(db, value, next.Key()); err != nil {
				return err
			}
		}
		key, err := packIndexKey([]byte(ix.name), value, next.Key())
		if err != nil {
			return err
		}
		if err := db.Set(key, []byte{}); err != nil {
			return errors.Wrap(err, "db set")
		}
	}
	return nil
}

// assertFree returns an error if the value is indexed for any entity other
// than the one with the given primary key.
func (ix *Index) assertFree(db schain.ReadOnlyKVStore, value, pk []byte) error {
	it, err := ix.Keys(db, value)
	if err != nil {
		return err
	}
	defer it.Close()
	for it.Valid() {
		if !bytes.Equal(it.Key(), pk) {
			return errors.Wrapf(ErrUniqueConstraint, "index %s", ix.name)
		}
		if err := it.Next(); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns an iterator over the primary keys of all entities indexed
// under the given value.
func (ix *Index) Keys(db schain.ReadOnlyKVStore, value []byte) (*IndexIterator, error) {
	start, err := packIndexKey([]byte(ix.name), value)
	if err != nil {
		return nil, err
	}
	// MaxUint8 is never used as a chunk length so it guards the end of
	// the range.
	end := append(append([]byte(nil), start...), math.MaxUint8)

	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "iterator")
	}
	return &IndexIterator{dbit: it}, nil
}

// Query returns all entities indexed under the value given as the data.
func (ix *Index) Query(db schain.ReadOnlyKVStore, mod string, data []byte) ([]schain.Model, error) {
	if mod != schain.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	it, err := ix.Keys(db, data)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var res []schain.Model
	for it.Valid() {
		key := ix.refKey(it.Key())
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, schain.Pair(key, value))
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// IndexIterator iterates lazily over primary keys of the indexed entities.
type IndexIterator struct {
	dbit schain.Iterator
}

// Valid returns true if Key can be read.
func (it *IndexIterator) Valid() bool {
	return it.dbit.Valid()
}

// Next moves to the following indexed entity.
func (it *IndexIterator) Next() error {
	return it.dbit.Next()
}

// Key returns the primary key of the current entity. It returns nil if the
// index entry is malformed.
func (it *IndexIterator) Key() []byte {
	chunks, err := unpackIndexKey(it.dbit.Key())
	if err != nil || len(chunks) == 0 {
		return nil
	}
	return chunks[len(chunks)-1]
}

// Close releases the underlying iterator.
func (it *IndexIterator) Close() {
	it.dbit.Close()
}

// packIndexKey serializes chunks into a single key. The process can be
// reversed using unpackIndexKey. Each chunk must be at most 254 bytes long.
func packIndexKey(chunks ...[]byte) ([]byte, error) {
	size := len(indexPrefix)
	for _, b := range chunks {
		size += len(b) + 1
	}
	res := make([]byte, 0, size)
	res = append(res, indexPrefix...)
	for _, b := range chunks {
		if len(b) > math.MaxUint8-1 {
			return nil, errors.Wrapf(errors.ErrInput, "no chunk can be bigger than %d bytes", math.MaxUint8-1)
		}
		res = append(res, uint8(len(b)))
		res = append(res, b...)
	}
	return res, nil
}

// unpackIndexKey extracts all chunks that compose an index key.
func unpackIndexKey(b []byte) ([][]byte, error) {
	if !bytes.HasPrefix(b, []byte(indexPrefix)) {
		return nil, errors.Wrap(errors.ErrInput, "not an index key")
	}
	b = b[len(indexPrefix):]
	var res [][]byte
	for len(b) > 0 {
		size := int(b[0])
		if len(b) < 1+size {
			return nil, errors.Wrap(errors.ErrInput, "malformed offset")
		}
		res = append(res, b[1:1+size])
		b = b[1+size:]
	}
	return res, nil
}
