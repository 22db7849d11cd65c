package app

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/x/sigs"
	"github.com/schain/schain/x/smultisig"
	amino "github.com/tendermint/go-amino"
)

var cdc = MakeCodec()

// MakeCodec returns a codec that knows every message the node accepts.
func MakeCodec() *amino.Codec {
	c := amino.NewCodec()
	c.RegisterInterface((*schain.Msg)(nil), nil)
	smultisig.RegisterCodec(c)
	return c
}

// Tx carries a single message along with the signatures authorizing it.
type Tx struct {
	Msg        schain.Msg            `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

// make sure tx fulfills all interfaces
var _ schain.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (schain.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the carried message.
func (tx *Tx) GetMsg() (schain.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction carries no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes only come from the data itself, not from the
	// signatures
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Marshal serializes the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

// Unmarshal deserializes the transaction.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
