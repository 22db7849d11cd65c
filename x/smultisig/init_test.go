package smultisig

import (
	"encoding/json"
	"testing"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/schaintest"
	"github.com/schain/schain/schaintest/assert"
	"github.com/schain/schain/store"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenesis(t *testing.T) {
	Convey("Test initializer", t, func() {
		genesis := `
		{
			"conf": {
				"smultisig": {
					"max_members": 7,
					"min_members": 3,
					"proposal_ceiling": 7,
					"default_policy": "MoreThanTwoThirds",
					"voting_period": 3600
				}
			},
			"smultisig": {
				"members": [
					"0000000000000000000000000000000000000003",
					"0000000000000000000000000000000000000001",
					"0000000000000000000000000000000000000002"
				]
			}
		}`
		var opts schain.Options
		err := json.Unmarshal([]byte(genesis), &opts)
		So(err, ShouldBeNil)

		db := store.MemStore()
		var init Initializer
		err = init.FromGenesis(opts, db)
		So(err, ShouldBeNil)

		Convey("the group is created in canonical order", func() {
			members, err := NewEngine().Members(db)
			So(err, ShouldBeNil)
			So(members, ShouldResemble, addrs(1, 2, 3))
		})

		Convey("the configuration is stored", func() {
			conf, err := loadConf(db)
			So(err, ShouldBeNil)
			So(conf.MaxMembers, ShouldEqual, 7)
			So(conf.MinMembers, ShouldEqual, 3)
			So(conf.DefaultPolicy, ShouldEqual, PolicyMoreThanTwoThirds)
			So(conf.VotingPeriod, ShouldEqual, 3600)
		})
	})
}

func TestGenesisIsOptional(t *testing.T) {
	db := store.MemStore()
	var init Initializer
	assert.Nil(t, init.FromGenesis(schain.Options{}, db))

	conf, err := loadConf(db)
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfiguration(), conf)

	size, err := NewMembershipRegistry().Size(db)
	assert.Nil(t, err)
	assert.Equal(t, 0, size)
}

func TestGenesisPartialConfiguration(t *testing.T) {
	opts := schain.Options{
		"conf": json.RawMessage(`{"smultisig": {"max_members": 9, "proposal_ceiling": 9}}`),
	}
	db := store.MemStore()
	var init Initializer
	assert.Nil(t, init.FromGenesis(opts, db))

	conf, err := loadConf(db)
	assert.Nil(t, err)
	assert.Equal(t, uint32(9), conf.MaxMembers)
	assert.Equal(t, uint32(2), conf.MinMembers)
	assert.Equal(t, PolicyAll, conf.DefaultPolicy)
}

func TestGenesisErrors(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"invalid configuration": {
			genesis: `{"conf": {"smultisig": {"min_members": 4, "max_members": 3}}}`,
			wantErr: errors.ErrInput,
		},
		"unknown policy": {
			genesis: `{"conf": {"smultisig": {"default_policy": "Most"}}}`,
			wantErr: errors.ErrInput,
		},
		"group too small": {
			genesis: `{"smultisig": {"members": ["0000000000000000000000000000000000000001"]}}`,
			wantErr: ErrGroupTooSmall,
		},
		"invalid member": {
			genesis: `{"smultisig": {"members": ["0001"]}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts schain.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))
			var init Initializer
			err := init.FromGenesis(opts, store.MemStore())
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestGenesisBypassesCaller(t *testing.T) {
	// Nobody signs genesis, the first member does not need to be a caller.
	db := store.MemStore()
	opts := schain.Options{
		"smultisig": json.RawMessage(`{"members": ["` + schaintest.SequenceAddress(8).String() + `", "` + schaintest.SequenceAddress(9).String() + `"]}`),
	}
	var init Initializer
	assert.Nil(t, init.FromGenesis(opts, db))

	members, err := NewEngine().Members(db)
	assert.Nil(t, err)
	assert.Equal(t, addrs(8, 9), members)
}
