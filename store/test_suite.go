package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/schain/schain/schaintest/assert"
)

// TestSuite runs the same KVStore checks against any CacheableKVStore
// implementation. Both the btree and the iavl store use it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns an empty store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet follows the life of a few transactions: a written cache is visible
// in its parent, a discarded one leaves no trace and nested caches write one
// level at a time.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	group, members := []byte("group"), []byte("alice,bert")
	s.AssertGetHas(t, base, group, nil, false)
	assert.Nil(t, base.Set(group, members))
	s.AssertGetHas(t, base, group, members, true)

	delivered := base.CacheWrap()
	s.AssertGetHas(t, delivered, group, members, true)
	assert.Nil(t, delivered.Set(seqKey(1), []byte("pending")))
	s.AssertGetHas(t, delivered, seqKey(1), []byte("pending"), true)
	s.AssertGetHas(t, base, seqKey(1), nil, false)
	assert.Nil(t, delivered.Write())
	s.AssertGetHas(t, base, seqKey(1), []byte("pending"), true)

	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(seqKey(2), []byte("pending")))
	assert.Nil(t, failed.Delete(group))
	s.AssertGetHas(t, failed, group, nil, false)
	failed.Discard()
	s.AssertGetHas(t, base, group, members, true)
	s.AssertGetHas(t, base, seqKey(2), nil, false)

	outer := base.CacheWrap()
	inner := outer.CacheWrap()
	assert.Nil(t, inner.Delete(group))
	assert.Nil(t, inner.Set(seqKey(1), []byte("approved")))
	s.AssertGetHas(t, outer, group, members, true)
	assert.Nil(t, inner.Write())
	s.AssertGetHas(t, outer, group, nil, false)
	s.AssertGetHas(t, outer, seqKey(1), []byte("approved"), true)
	s.AssertGetHas(t, base, group, members, true)
	assert.Nil(t, outer.Write())
	s.AssertGetHas(t, base, group, nil, false)
	s.AssertGetHas(t, base, seqKey(1), []byte("approved"), true)
}

// CacheConflicts checks that a cache can overwrite and delete values of its
// parent without the parent seeing it before the write.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // a nil value means the key must be missing
		childQueries  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(seqKey(1), []byte("a")), SetOp(seqKey(2), []byte("b"))},
			childOps:      []Op{SetOp(seqKey(1), []byte("a2")), SetOp(seqKey(3), []byte("c")), DelOp(seqKey(2))},
			parentQueries: []Model{Pair(seqKey(1), []byte("a")), Pair(seqKey(2), []byte("b")), Pair(seqKey(3), nil)},
			childQueries:  []Model{Pair(seqKey(1), []byte("a2")), Pair(seqKey(2), nil), Pair(seqKey(3), []byte("c"))},
		},
		"delete then set again": {
			parentOps:     []Op{SetOp(seqKey(1), []byte("a"))},
			childOps:      []Op{DelOp(seqKey(1)), SetOp(seqKey(1), []byte("a2"))},
			parentQueries: []Model{Pair(seqKey(1), []byte("a"))},
			childQueries:  []Model{Pair(seqKey(1), []byte("a2"))},
		},
		"set then delete": {
			childOps:      []Op{SetOp(seqKey(4), []byte("d")), DelOp(seqKey(4))},
			parentQueries: []Model{Pair(seqKey(4), nil)},
			childQueries:  []Model{Pair(seqKey(4), nil)},
		},
		"deleting a missing key": {
			parentOps:     []Op{SetOp(seqKey(1), []byte("a"))},
			childOps:      []Op{DelOp(seqKey(9))},
			parentQueries: []Model{Pair(seqKey(1), []byte("a")), Pair(seqKey(9), nil)},
			childQueries:  []Model{Pair(seqKey(1), []byte("a")), Pair(seqKey(9), nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// Iterators checks forward and reverse range iteration over a cache and
// its parent, with overwrites and deletes on either layer.
func (s *TestSuite) Iterators(t *testing.T) {
	all := span(1, 40)
	odd, even := filter(all, 1), filter(all, 0)

	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []Model
	}{
		"child only": {
			child: setOps("v", all...),
			want:  models("v", all...),
		},
		"parent only": {
			parent: setOps("v", all...),
			want:   models("v", all...),
		},
		"parent and child are merged": {
			parent: setOps("v", odd...),
			child:  setOps("v", even...),
			want:   models("v", all...),
		},
		"child values win": {
			parent: setOps("old", all...),
			child:  setOps("new", even...),
			want:   merge(models("old", odd...), models("new", even...)),
		},
		"child deletes hide parent values": {
			parent: setOps("v", all...),
			child:  delOps(even...),
			want:   models("v", odd...),
		},
		"deletes of missing keys are ignored": {
			parent: setOps("v", span(1, 10)...),
			child:  delOps(span(11, 40)...),
			want:   models("v", span(1, 10)...),
		},
		"everything deleted": {
			parent: setOps("v", span(1, 5)...),
			child:  delOps(span(1, 5)...),
			want:   nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parent {
				assert.Nil(t, op.Apply(base))
			}
			child := base.CacheWrap()
			for _, op := range tc.child {
				assert.Nil(t, op.Apply(child))
			}

			assertRange(t, child, nil, nil, false, tc.want)
			assertRange(t, child, nil, nil, true, reverse(tc.want))
			if len(tc.want) < 4 {
				return
			}
			from, to := tc.want[1].Key, tc.want[len(tc.want)-2].Key
			bounded := tc.want[1 : len(tc.want)-2]
			assertRange(t, child, from, nil, false, tc.want[1:])
			assertRange(t, child, nil, to, false, tc.want[:len(tc.want)-2])
			assertRange(t, child, from, to, false, bounded)
			assertRange(t, child, from, to, true, reverse(bounded))
			assertRange(t, child, nil, tc.want[0].Key, false, nil)
		})
	}
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// assertRange iterates over [start, end) and compares with want.
func assertRange(t testing.TB, kv ReadOnlyKVStore, start, end []byte, desc bool, want []Model) {
	t.Helper()
	var (
		iter Iterator
		err  error
	)
	if desc {
		iter, err = kv.ReverseIterator(start, end)
	} else {
		iter, err = kv.Iterator(start, end)
	}
	assert.Nil(t, err)
	defer iter.Close()

	for i, m := range want {
		if !iter.Valid() {
			t.Fatalf("iterator ended after %d of %d items", i, len(want))
		}
		if !bytes.Equal(m.Key, iter.Key()) {
			t.Fatalf("item %d: want key %X, got %X", i, m.Key, iter.Key())
		}
		assert.Equal(t, m.Value, iter.Value())
		assert.Nil(t, iter.Next())
	}
	if iter.Valid() {
		t.Fatalf("iterator not done, got key %X", iter.Key())
	}
}

// seqKey encodes n the way sequence ids are stored.
func seqKey(n int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(n))
	return key
}

func span(from, to int) []int {
	res := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		res = append(res, n)
	}
	return res
}

// filter returns numbers with given remainder modulo 2.
func filter(ns []int, rem int) []int {
	var res []int
	for _, n := range ns {
		if n%2 == rem {
			res = append(res, n)
		}
	}
	return res
}

// models returns sequence keyed models valued prefix followed by the number.
func models(prefix string, ns ...int) []Model {
	res := make([]Model, len(ns))
	for i, n := range ns {
		res[i] = Pair(seqKey(n), []byte(fmt.Sprintf("%s%d", prefix, n)))
	}
	return res
}

// merge combines two key ordered lists into one.
func merge(a, b []Model) []Model {
	res := make([]Model, 0, len(a)+len(b))
	for len(a) > 0 && len(b) > 0 {
		if bytes.Compare(a[0].Key, b[0].Key) < 0 {
			res, a = append(res, a[0]), a[1:]
		} else {
			res, b = append(res, b[0]), b[1:]
		}
	}
	res = append(res, a...)
	return append(res, b...)
}

func reverse(ms []Model) []Model {
	if ms == nil {
		return nil
	}
	res := make([]Model, len(ms))
	for i, m := range ms {
		res[len(ms)-1-i] = m
	}
	return res
}

func setOps(prefix string, ns ...int) []Op {
	ms := models(prefix, ns...)
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func delOps(ns ...int) []Op {
	res := make([]Op, len(ns))
	for i, n := range ns {
		res[i] = DelOp(seqKey(n))
	}
	return res
}
