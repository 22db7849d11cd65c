package orm

import (
	"testing"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/schaintest"
	"github.com/schain/schain/schaintest/assert"
	"github.com/schain/schain/store"
)

func TestIDGenBucket(t *testing.T) {
	specs := map[string]struct {
		bucket IDGenBucket
		expID  []byte
		expErr *errors.Error
	}{
		"sequence generator": {
			bucket: WithSeqIDGenerator(newCounterBucket(), "id"),
			expID:  schaintest.SequenceID(1),
		},
		"custom generator": {
			bucket: WithIDGenerator(newCounterBucket(), IDGeneratorFunc(func(schain.KVStore, CloneableData) ([]byte, error) {
				return []byte("custom"), nil
			})),
			expID: []byte("custom"),
		},
		"generator failure": {
			bucket: WithIDGenerator(newCounterBucket(), IDGeneratorFunc(func(schain.KVStore, CloneableData) ([]byte, error) {
				return nil, errors.ErrHuman
			})),
			expErr: errors.ErrHuman,
		},
	}
	for msg, spec := range specs {
		t.Run(msg, func(t *testing.T) {
			db := store.MemStore()

			obj, err := spec.bucket.Create(db, &Counter{Count: 7})
			assert.IsErr(t, spec.expErr, err)
			if spec.expErr != nil {
				return
			}
			assert.Equal(t, spec.expID, obj.Key())

			loaded, err := spec.bucket.Get(db, spec.expID)
			assert.Nil(t, err)
			assert.Equal(t, obj, loaded)
		})
	}
}

func TestSeqIDGeneratorIncrements(t *testing.T) {
	db := store.MemStore()
	b := WithSeqIDGenerator(newCounterBucket(), "id")

	for i := int64(1); i <= 3; i++ {
		obj, err := b.Create(db, &Counter{Count: i})
		assert.Nil(t, err)
		assert.Equal(t, schaintest.SequenceID(uint64(i)), obj.Key())
	}
}
