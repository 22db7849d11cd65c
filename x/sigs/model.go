package sigs

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/orm"
	amino "github.com/tendermint/go-amino"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest sequence a client can safely represent,
// Number.MAX_SAFE_INTEGER = 2^53 - 1.
const maxSequenceValue = (1 << 53) - 1

var cdc = amino.NewCodec()

// UserData holds the replay protection state of a single public key.
type UserData struct {
	Pubkey   []byte
	Sequence int64
}

var _ orm.CloneableData = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, u)
}

func (u *UserData) Validate() error {
	var errs error
	if len(u.Pubkey) == 0 {
		errs = errors.AppendField(errs, "Pubkey", errors.ErrEmpty)
	}
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

// Copy makes a new UserData with the same content
func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Pubkey:   append([]byte(nil), u.Pubkey...),
		Sequence: u.Sequence,
	}
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// AsUser will safely type-cast any value from Bucket to a UserData
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser constructs an object from a public key. The key of the object is
// the address of the condition fulfilled by that public key.
func NewUser(pubkey []byte) orm.Object {
	var key schain.Address
	if pubkey != nil {
		key = PubkeyCondition(pubkey).Address()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket extends orm.Bucket with GetOrCreate
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(nil)),
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db schain.KVStore, pubkey []byte) (orm.Object, error) {
	obj, err := b.Get(db, PubkeyCondition(pubkey).Address())
	if err == nil && obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, err
}
