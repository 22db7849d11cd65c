package schaintest

import (
	"crypto/rand"

	"github.com/schain/schain"
	"golang.org/x/crypto/ed25519"
)

// NewKey returns a freshly generated ed25519 private key.
func NewKey() ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return priv
}

// KeyCondition returns the condition that a signature made with the given
// key fulfills.
func KeyCondition(priv ed25519.PrivateKey) schain.Condition {
	pub := priv.Public().(ed25519.PublicKey)
	return schain.NewCondition("sigs", "ed25519", pub)
}

// NewCondition returns a condition that was never returned before by this
// function.
func NewCondition() schain.Condition {
	return KeyCondition(NewKey())
}
