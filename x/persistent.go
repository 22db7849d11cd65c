package x

import "github.com/schain/schain"

// Validater is any struct that can be validated.
// Not the same as a Validator, which votes on the blocks.
type Validater interface {
	Validate() error
}

// MarshalValidater is something that can be validated and
// serialized
type MarshalValidater interface {
	schain.Marshaller
	Validater
}

// MarshalValid validates the object before serializing it.
func MarshalValid(obj MarshalValidater) ([]byte, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}
	return obj.Marshal()
}
