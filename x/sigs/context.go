package sigs

import (
	"context"

	"github.com/schain/schain"
	"github.com/schain/schain/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx schain.Context, signers []schain.Condition) schain.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gives access to the conditions fulfilled by the verified
// signatures of the current transaction.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx schain.Context) []schain.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]schain.Condition)
	return val
}

// HasAddress returns true if the given address signed the current Context.
func (a Authenticate) HasAddress(ctx schain.Context, addr schain.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
