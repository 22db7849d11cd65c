package utils

import (
	"time"

	"github.com/schain/schain"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ schain.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (r Logging) Check(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Checker) (*schain.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Deliverer) (*schain.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx schain.Context, tx schain.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := schain.GetLogger(ctx).With(
		"path", schain.GetPath(tx),
		"duration", delta/time.Microsecond,
	)

	// An empty message is still logged, the key values carry the
	// relevant information.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
