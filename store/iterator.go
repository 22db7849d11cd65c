package store

import (
	"bytes"

	"github.com/google/btree"
)

// collectRange returns all cached items with a key within [start, end) in
// ascending order. Nil start or end means the range is not limited on that
// side.
func collectRange(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		items = append(items, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// source marks where the current item comes from
type source int32

const (
	none source = iota
	cached
	parent
	both
)

// cacheIterator merges a snapshot of the cached items with the iterator
// of the backing store. Cached values shadow the backing ones and cached
// deletes hide them.
type cacheIterator struct {
	items   []keyer
	pos     int
	parent  Iterator
	reverse bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []keyer, parent Iterator, reverse bool) (*cacheIterator, error) {
	it := &cacheIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.skipDeleted(); err != nil {
		parent.Close()
		return nil, err
	}
	return it, nil
}

// Valid implements Iterator and returns true iff it can be read
func (i *cacheIterator) Valid() bool {
	return i.current() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *cacheIterator) Next() error {
	if err := i.advance(i.current()); err != nil {
		return err
	}
	return i.skipDeleted()
}

// Key returns the key of the cursor.
func (i *cacheIterator) Key() []byte {
	switch i.current() {
	case cached, both:
		return i.items[i.pos].Key()
	case parent:
		return i.parent.Key()
	default:
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *cacheIterator) Value() []byte {
	switch i.current() {
	case cached, both:
		return i.items[i.pos].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *cacheIterator) Close() {
	i.parent.Close()
	i.items = nil
}

func (i *cacheIterator) advance(src source) error {
	switch src {
	case cached:
		i.pos++
	case both:
		i.pos++
		return i.parent.Next()
	case parent:
		return i.parent.Next()
	default:
		panic("Advanced past the end!")
	}
	return nil
}

// skipDeleted moves over all cached deletes, together with the backing
// entries they hide.
func (i *cacheIterator) skipDeleted() error {
	for {
		src := i.current()
		if src != cached && src != both {
			return nil
		}
		if _, ok := i.items[i.pos].(deletedItem); !ok {
			return nil
		}
		if err := i.advance(src); err != nil {
			return err
		}
	}
}

// current selects the iterator that holds the next key in iteration order.
func (i *cacheIterator) current() source {
	hasCached := i.pos < len(i.items)
	hasParent := i.parent != nil && i.parent.Valid()
	switch {
	case !hasCached && !hasParent:
		return none
	case !hasParent:
		return cached
	case !hasCached:
		return parent
	}

	cmp := bytes.Compare(i.items[i.pos].Key(), i.parent.Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return cached
	case cmp > 0:
		return parent
	default:
		return both
	}
}
