package smultisig

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/gconf"
)

// Initializer loads the configuration and the initial group from genesis.
//
//	"conf": {"smultisig": {"max_members": 5, "min_members": 2, ...}},
//	"smultisig": {"members": ["hex address", ...]}
//
// Both are optional. The initial group is created without a caller.
type Initializer struct{}

var _ schain.Initializer = (*Initializer)(nil)

func (*Initializer) FromGenesis(opts schain.Options, db schain.KVStore) error {
	conf := DefaultConfiguration()
	switch err := gconf.InitConfig(db, opts, packageName, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return errors.Wrap(err, "configuration")
	}

	var genesis struct {
		Members []schain.Address `json:"members"`
	}
	if err := opts.ReadOptions(packageName, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "read smultisig: %s", err)
	}
	if len(genesis.Members) == 0 {
		return nil
	}
	for i, m := range genesis.Members {
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "member #%d", i)
		}
	}
	if _, err := NewMembershipRegistry().initialize(db, genesis.Members); err != nil {
		return errors.Wrap(err, "initial group")
	}
	return nil
}
