package sigs

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"golang.org/x/crypto/ed25519"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the tx.
	GetSignatures() []*StdSignature
}

// StdSignature is a single ed25519 signature of a transaction together with
// the public key that created it and the sequence used.
type StdSignature struct {
	Pubkey    []byte
	Signature []byte
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrInvalidPubkey, "length %d", len(s.Pubkey))
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

// Condition returns the condition fulfilled by this signature.
func (s *StdSignature) Condition() schain.Condition {
	return PubkeyCondition(s.Pubkey)
}

// PubkeyCondition returns the condition that is fulfilled by a valid
// signature of the owner of given public key.
func PubkeyCondition(pubkey []byte) schain.Condition {
	return schain.NewCondition("sigs", "ed25519", pubkey)
}
