package utils

import (
	"strconv"
	"time"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/uber-go/tally/v4"
)

// Metrics is a decorator that counts processed transactions and measures
// the time spent handling them. Every metric is tagged with the message
// path and the execution phase.
type Metrics struct {
	scope tally.Scope
}

var _ schain.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator reporting to given scope.
func NewMetrics(scope tally.Scope) Metrics {
	return Metrics{scope: scope}
}

// Check records metrics of the check phase.
func (m Metrics) Check(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Checker) (*schain.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.record("check", tx, start, err)
	return res, err
}

// Deliver records metrics of the deliver phase.
func (m Metrics) Deliver(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Deliverer) (*schain.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.record("deliver", tx, start, err)
	return res, err
}

func (m Metrics) record(phase string, tx schain.Tx, start time.Time, err error) {
	scope := m.scope.Tagged(map[string]string{
		"phase": phase,
		"path":  schain.GetPath(tx),
	})
	scope.Timer("tx_duration").Record(time.Since(start))
	if err == nil {
		scope.Counter("tx_success").Inc(1)
		return
	}
	code, _ := errors.ABCIInfo(err, false)
	scope.Tagged(map[string]string{"code": codeTag(code)}).Counter("tx_failure").Inc(1)
}

func codeTag(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}
