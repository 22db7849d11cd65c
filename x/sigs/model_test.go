package sigs

import (
	"testing"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/schaintest"
	"github.com/schain/schain/schaintest/assert"
	"github.com/schain/schain/store"
	"golang.org/x/crypto/ed25519"
)

func TestUserDataValidate(t *testing.T) {
	pub := pubkeyOf(schaintest.NewKey())

	cases := map[string]struct {
		user    *UserData
		wantErr map[string]*errors.Error
	}{
		"valid": {
			user: &UserData{Pubkey: pub, Sequence: 4},
			wantErr: map[string]*errors.Error{
				"Pubkey":   nil,
				"Sequence": nil,
			},
		},
		"missing pubkey": {
			user: &UserData{Sequence: 1},
			wantErr: map[string]*errors.Error{
				"Pubkey":   errors.ErrEmpty,
				"Sequence": nil,
			},
		},
		"negative sequence": {
			user: &UserData{Pubkey: pub, Sequence: -1},
			wantErr: map[string]*errors.Error{
				"Pubkey":   nil,
				"Sequence": ErrInvalidSequence,
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.user.Validate()
			for field, want := range tc.wantErr {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := &UserData{Sequence: 5}
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(4))
	assert.Nil(t, u.CheckAndIncrementSequence(5))
	assert.Equal(t, int64(6), u.Sequence)

	u = &UserData{Sequence: maxSequenceValue}
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence(maxSequenceValue))
}

func TestGetOrCreate(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	pub := pubkeyOf(schaintest.NewKey())

	obj, err := b.GetOrCreate(db, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), AsUser(obj).Sequence)
	assert.Nil(t, AsUser(obj).CheckAndIncrementSequence(0))
	assert.Nil(t, b.Save(db, obj))

	obj, err = b.GetOrCreate(db, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), AsUser(obj).Sequence)
	assert.Equal(t, PubkeyCondition(pub).Address(), schain.Address(obj.Key()))
}

func pubkeyOf(priv ed25519.PrivateKey) []byte {
	return priv.Public().(ed25519.PublicKey)
}
