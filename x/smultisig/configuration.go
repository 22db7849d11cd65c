package smultisig

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/gconf"
)

const packageName = "smultisig"

// Configuration holds the limits of the governed group. It is stored with
// gconf and can be provided in genesis under conf.smultisig.
type Configuration struct {
	// MaxMembers and MinMembers bound the group size after every change.
	MaxMembers uint32 `json:"max_members"`
	MinMembers uint32 `json:"min_members"`
	// ProposalCeiling is the largest group that can still create proposals.
	ProposalCeiling uint32 `json:"proposal_ceiling"`
	// DefaultPolicy is used by add_member and remove_member.
	DefaultPolicy Policy `json:"default_policy"`
	// VotingPeriod in seconds. Zero disables expiry.
	VotingPeriod int64 `json:"voting_period"`
}

// DefaultConfiguration is used when no configuration was saved.
func DefaultConfiguration() Configuration {
	return Configuration{
		MaxMembers:      5,
		MinMembers:      2,
		ProposalCeiling: 10,
		DefaultPolicy:   PolicyAll,
	}
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

func (c *Configuration) Validate() error {
	var errs error
	if c.MinMembers == 0 {
		errs = errors.AppendField(errs, "MinMembers", errors.ErrEmpty)
	}
	if c.MaxMembers < c.MinMembers {
		errs = errors.AppendField(errs, "MaxMembers",
			errors.Wrapf(errors.ErrInput, "must not be less than %d", c.MinMembers))
	}
	if c.ProposalCeiling == 0 {
		errs = errors.AppendField(errs, "ProposalCeiling", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "DefaultPolicy", c.DefaultPolicy.Validate())
	if c.VotingPeriod < 0 {
		errs = errors.AppendField(errs, "VotingPeriod", errors.Wrap(errors.ErrInput, "negative"))
	}
	return errs
}

// loadConf returns the saved configuration or the defaults if none was saved.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, packageName, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}

// SaveConfiguration validates and stores the configuration.
func SaveConfiguration(db schain.KVStore, conf Configuration) error {
	return gconf.Save(db, packageName, &conf)
}
