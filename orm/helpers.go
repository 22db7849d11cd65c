package orm

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// ValidateSequence returns an error if this is not an 8-byte
// as expected for orm.IDGenBucket
func ValidateSequence(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	}
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInput, "sequence is invalid length (expect 8 bytes)")
	}
	return nil
}

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr schain.Iterator) ([]schain.Model, error) {
	defer itr.Close()

	var res []schain.Model
	for itr.Valid() {
		res = append(res, schain.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, errors.Wrap(err, "iterator")
		}
	}
	return res, nil
}

// prefixRange returns the iteration boundaries covering all keys that start
// with the given prefix.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return start, end[:i+1]
		}
	}
	// all bytes are 0xFF, no upper limit
	return start, nil
}

func queryPrefix(db schain.ReadOnlyKVStore, prefix []byte) ([]schain.Model, error) {
	start, end := prefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}
