package app

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/x/sigs"
	"github.com/schain/schain/x/smultisig"
	"golang.org/x/crypto/ed25519"
)

// GenesisKey is a freshly generated signing key of an initial member.
type GenesisKey struct {
	Address schain.Address `json:"address"`
	Pubkey  string         `json:"pub_key"`
	Secret  string         `json:"secret"`
}

// GenInitOptions produces the app_state for a new chain. Every argument is
// an initial member address. When fewer members than the configured
// minimum are given, keys are generated for the missing ones and returned
// so that they can be handed out.
func GenInitOptions(args []string) (json.RawMessage, []GenesisKey, error) {
	conf := smultisig.DefaultConfiguration()

	members := make([]schain.Address, 0, len(args))
	for _, a := range args {
		addr, err := schain.ParseAddress(a)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "member %q", a)
		}
		members = append(members, addr)
	}

	var keys []GenesisKey
	for len(members) < int(conf.MinMembers) {
		k, err := GenerateKey()
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, k)
		members = append(members, k.Address)
	}

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"smultisig": conf,
		},
		"smultisig": map[string]interface{}{
			"members": members,
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal app state")
	}
	return raw, keys, nil
}

// GenerateKey creates an ed25519 key and returns it together with the
// address of its signature condition.
func GenerateKey() (GenesisKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return GenesisKey{}, errors.Wrap(err, "generate key")
	}
	return GenesisKey{
		Address: sigs.PubkeyCondition(pub).Address(),
		Pubkey:  hex.EncodeToString(pub),
		Secret:  hex.EncodeToString(priv),
	}, nil
}
