package orm

import (
	"testing"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/schaintest/assert"
	"github.com/schain/schain/store"
)

func TestBucketSaveGetDelete(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	obj := counterObj("alice", 5, "first")
	assert.Nil(t, b.Save(db, obj))

	got, err := b.Get(db, []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, obj, got)

	has, err := b.Has(db, []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)

	missing, err := b.Get(db, []byte("bob"))
	assert.Nil(t, err)
	assert.Nil(t, missing)

	assert.Nil(t, b.Delete(db, []byte("alice")))
	got, err = b.Get(db, []byte("alice"))
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestBucketSaveValidates(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	cases := map[string]struct {
		obj     Object
		wantErr *errors.Error
	}{
		"valid": {
			obj: counterObj("a", 1, ""),
		},
		"missing key": {
			obj:     NewSimpleObj(nil, &Counter{Count: 1}),
			wantErr: errors.ErrEmpty,
		},
		"invalid value": {
			obj:     counterObj("a", -1, ""),
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, b.Save(db, tc.obj))
		})
	}
}

func TestBucketKeysDoNotOverlap(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	assert.Nil(t, b.Save(db, counterObj("ABC", 1, "")))
	assert.Nil(t, b.Save(db, counterObj("LED", 2, "")))

	got, err := b.Get(db, []byte("ABC"))
	assert.Nil(t, err)
	assert.Equal(t, int64(1), got.Value().(*Counter).Count)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	other := NewBucket("others", NewSimpleObj(nil, &Counter{}))

	assert.Nil(t, b.Save(db, counterObj("ab", 1, "")))
	assert.Nil(t, b.Save(db, counterObj("ac", 2, "")))
	assert.Nil(t, b.Save(db, counterObj("b", 3, "")))
	assert.Nil(t, other.Save(db, counterObj("aa", 4, "")))

	qr := schain.NewQueryRouter()
	b.Register("", qr)
	h := qr.Handler("/counters")
	if h == nil {
		t.Fatal("bucket not registered")
	}

	res, err := h.Query(db, schain.KeyQueryMod, []byte("ab"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, b.DBKey([]byte("ab")), res[0].Key)

	res, err = h.Query(db, schain.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, schain.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, b.DBKey([]byte("ab")), res[0].Key)
	assert.Equal(t, b.DBKey([]byte("ac")), res[1].Key)

	res, err = h.Query(db, schain.PrefixQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))

	_, err = h.Query(db, "unknown", nil)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestIllegalBucketName(t *testing.T) {
	assert.Panics(t, func() { NewBucket("X", NewSimpleObj(nil, &Counter{})) })
	assert.Panics(t, func() { NewBucket("this_name_is_too_long", NewSimpleObj(nil, &Counter{})) })
}

func TestObjectClone(t *testing.T) {
	obj := counterObj("key", 3, "label")
	cpy := obj.Clone()
	assert.Equal(t, obj, cpy)

	cpy.Value().(*Counter).Count = 4
	cpy.Key()[0] = 'x'
	assert.Equal(t, int64(3), obj.Value().(*Counter).Count)
	assert.Equal(t, []byte("key"), obj.Key())
}
