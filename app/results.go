package app

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// ResultSet holds 0 to N serialized values. Query responses carry one
// ResultSet for the keys and one for the values, both of the same length.
type ResultSet struct {
	Results [][]byte `json:"results"`
}

var _ schain.Persistent = (*ResultSet)(nil)

// Marshal serializes the set.
func (r *ResultSet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(r)
}

// Unmarshal loads the set from its serialized form.
func (r *ResultSet) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		r.Results = nil
		return nil
	}
	return cdc.UnmarshalBinaryBare(raw, r)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []schain.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []schain.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]schain.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys for %d values", len(kref), len(vref))
	}
	mods := make([]schain.Model, len(kref))
	for i := range mods {
		mods[i] = schain.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o schain.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(err, "result set")
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return o.Unmarshal(res.Results[0])
}
