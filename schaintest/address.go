package schaintest

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/schain/schain"
)

// ParseAddress takes an address in a human readable format and returns its
// binary representation. This function is a test helper that is using
// schain.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) schain.Address {
	t.Helper()

	addr, err := schain.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// SequenceAddress returns a deterministic, valid address for the given
// number. Different numbers always produce different addresses and the
// addresses sort in the same order as the numbers.
func SequenceAddress(n uint64) schain.Address {
	a := make(schain.Address, schain.AddressLength)
	binary.BigEndian.PutUint64(a[len(a)-8:], n)
	return a
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) schain.Address {
	raw := make([]byte, schain.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := schain.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not valid: %s", err)
	}
	return a
}

// DecodeAddr takes a hex encoded address string and returns it's raw
// representation. This function ensures that returned value is a valid
// address.
func DecodeAddr(t testing.TB, encoded string) schain.Address {
	t.Helper()
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		t.Fatalf("cannot decode hex string: %s", err)
	}
	a := schain.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("decoded string is not a valid address: %s", err)
	}
	return a
}
