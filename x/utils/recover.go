package utils

import (
	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ schain.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Checker) (_ *schain.CheckResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Deliverer) (_ *schain.DeliverResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}

func logPanic(ctx schain.Context, err *error) {
	if errors.ErrPanic.Is(*err) {
		schain.GetLogger(ctx).Error("recovered from panic", "err", *err)
	}
}
