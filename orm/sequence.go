package orm

import (
	"encoding/binary"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s *Sequence) NextVal(db schain.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db, 1)
	return bz, err
}

// NextInt increments the sequence and returns its state as int.
func (s *Sequence) NextInt(db schain.KVStore) (int64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the recently returned value of the sequence. This method does
// not modify the sequence state. Use NextVal or NextInt to acquire a sequence
// value that was not given to anyone else.
func (s *Sequence) Latest(db schain.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "sequence")
	}
	return DecodeSequence(raw), nil
}

func (s *Sequence) increment(db schain.KVStore, inc int64) (int64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	val += inc
	raw := EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, errors.Wrap(err, "sequence")
	}
	return val, raw, nil
}

// DecodeSequence reads back a value produced by EncodeSequence. A nil value
// is decoded as zero.
func DecodeSequence(bz []byte) int64 {
	if bz == nil {
		return 0
	}
	val := binary.BigEndian.Uint64(bz)
	return int64(val)
}

// EncodeSequence returns the 8 byte, big endian representation of the value
// so that the byte order of encoded values follows their numeric order.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
