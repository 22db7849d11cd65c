package schaintest

import (
	"context"
	"time"

	"github.com/schain/schain"
)

// Ctx builds a context with block information set. Zero values are not set.
type Ctx struct {
	ChainID string
	Height  int64
	Time    time.Time
}

// Context returns a new context.Context with all configured values set.
func (c Ctx) Context() schain.Context {
	ctx := context.Background()
	if c.ChainID != "" {
		ctx = schain.WithChainID(ctx, c.ChainID)
	}
	if c.Height != 0 {
		ctx = schain.WithHeight(ctx, c.Height)
	}
	if !c.Time.IsZero() {
		ctx = schain.WithBlockTime(ctx, c.Time)
	}
	return ctx
}
