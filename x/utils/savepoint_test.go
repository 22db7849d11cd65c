package utils

import (
	"context"
	"testing"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/schaintest"
	"github.com/schain/schain/store"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    schain.Decorator
		handler schain.Handler
		check   bool
		wantErr *errors.Error
		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled keeps writes of a failed check": {
			save:    NewSavepoint(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			check:   true,
			wantErr: errors.ErrHuman,
			written: [][]byte{ok, nk},
		},
		"check savepoint drops writes of a failed check": {
			save:    NewSavepoint().OnCheck(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			check:   true,
			wantErr: errors.ErrHuman,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint drops writes of a failed deliver": {
			save:    NewSavepoint().OnDeliver(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			written: [][]byte{ok},
			wantErr: errors.ErrHuman,
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: [][]byte{ok, nk},
		},
		"both phases enabled": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"successful deliver writes": {
			save:    NewSavepoint().OnDeliver(),
			handler: writeHandler{key: nk, value: nv},
			written: [][]byte{ok, nk},
		},
		"panic is not caught by the savepoint": {
			save:    NewSavepoint().OnDeliver(),
			handler: panicHandler{},
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			h := schaintest.Decorate(tc.handler, tc.save)
			var err error
			switch _, isPanic := tc.handler.(panicHandler); {
			case isPanic:
				require.Panics(t, func() { _, _ = h.Deliver(ctx, kv, nil) })
			case tc.check:
				_, err = h.Check(ctx, kv, nil)
			default:
				_, err = h.Deliver(ctx, kv, nil)
			}
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)
			} else {
				require.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				require.True(t, has, "missing key %X", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				require.False(t, has, "unexpected key %X", k)
			}
		})
	}
}

// writeHandler writes the key, value pair and returns the error (may be nil)
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ schain.Handler = writeHandler{}

func (h writeHandler) Check(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &schain.CheckResult{}, h.err
}

func (h writeHandler) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &schain.DeliverResult{}, h.err
}
