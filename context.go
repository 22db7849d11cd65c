/*
Package schain defines all common interfaces to tie together the various
subpackages, as well as implementations of some of the simpler components
(when interfaces would be too much overhead).

We pass context through context.Context between app, middleware, and
handlers. To do so, schain defines some common keys to store info, such as
block height and chain id. Each extension, such as sigs or smultisig, may add
its own keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. height, chain id).
*/
package schain

import (
	"context"
	"regexp"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain
type Context = context.Context

type contextKey int // local to the schain module

const (
	contextKeyHeight contextKey = iota
	contextKeyBlockTime
	contextKeyChainID
	contextKeyLogger
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// WithHeight sets the block height for the context.
// It panics if height is already set.
func WithHeight(ctx Context, height int64) Context {
	if ctx.Value(contextKeyHeight) != nil {
		panic("Height already set")
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height
// If none was set, returns (0, false)
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithBlockTime sets the block time for the context. Block time is always
// represented in UTC.
// It panics if the block time is already set.
func WithBlockTime(ctx Context, t time.Time) Context {
	if ctx.Value(contextKeyBlockTime) != nil {
		panic("block time already set")
	}
	return context.WithValue(ctx, contextKeyBlockTime, t.UTC())
}

// BlockTime returns current block wall clock time as declared in the context.
// An error is returned if a block time is not present in the context or if the
// zero time value is found.
func BlockTime(ctx Context) (time.Time, bool) {
	val, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	if !ok || val.IsZero() {
		return time.Time{}, false
	}
	return val, true
}

// IsExpired returns true if given time is in the past as compared to the
// "now" as declared for the block. Expiration is inclusive, meaning that if
// current time is equal to the expiration time than this function returns
// true.
//
// Contexts without a block time never expire anything.
func IsExpired(ctx Context, t UnixTime) bool {
	now, ok := BlockTime(ctx)
	if !ok {
		return false
	}
	return t <= AsUnixTime(now)
}

// WithChainID sets the chain id for the Context.
// It panics if the chain id is already set, or if it is invalid.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Chain ID already set")
	}
	if !IsValidChainID(chainID) {
		panic("Invalid chain ID: " + chainID)
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the current chain id
// panics if chain id not already set (should never happen)
func GetChainID(ctx Context) string {
	if x := ctx.Value(contextKeyChainID); x == nil {
		panic("Chain id is not in context")
	}
	return ctx.Value(contextKeyChainID).(string)
}

// WithLogger sets the logger for this Context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
