package orm

import (
	"github.com/schain/schain/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Counter is a minimal model used to exercise buckets in tests.
type Counter struct {
	Count int64
	Label string
}

func (c *Counter) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Counter) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, c)
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInput, "negative count")
	}
	return nil
}

func (c *Counter) Copy() CloneableData {
	cpy := *c
	return &cpy
}

func newCounterBucket() Bucket {
	return NewBucket("counters", NewSimpleObj(nil, &Counter{}))
}

func counterObj(key string, count int64, label string) Object {
	return NewSimpleObj([]byte(key), &Counter{Count: count, Label: label})
}
