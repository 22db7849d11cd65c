package smultisig

import (
	"context"

	"github.com/schain/schain"
	"github.com/uber-go/tally/v4"
)

// Notifier receives events of successfully delivered transactions.
type Notifier interface {
	Notify(ctx schain.Context, e Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(schain.Context, Event)

func (fn NotifierFunc) Notify(ctx schain.Context, e Event) {
	fn(ctx, e)
}

// LogNotifier writes every event to the context logger.
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func (LogNotifier) Notify(ctx schain.Context, e Event) {
	schain.GetLogger(ctx).With("module", packageName).Info("governance event", e.keyvals()...)
}

// MetricsNotifier counts events and proposal outcomes.
type MetricsNotifier struct {
	scope tally.Scope
}

var _ Notifier = MetricsNotifier{}

// NewMetricsNotifier reports to a sub scope named smultisig.
func NewMetricsNotifier(scope tally.Scope) MetricsNotifier {
	return MetricsNotifier{scope: scope.SubScope(packageName)}
}

func (m MetricsNotifier) Notify(ctx schain.Context, e Event) {
	m.scope.Tagged(map[string]string{"event": string(e.Type)}).Counter("events").Inc(1)
	switch e.Type {
	case EventMembershipChanged, EventGroupCreated:
		m.scope.Gauge("members").Update(float64(e.Size))
	case EventProposalRejected:
		var reason string
		switch e.Reason {
		case expiredReason:
			reason = "expired"
		case rejectedReason, unreachableReason:
			reason = "votes"
		default:
			reason = "execution"
		}
		m.scope.Tagged(map[string]string{"reason": reason}).Counter("rejected").Inc(1)
	}
}

// MultiNotifier forwards each event to all notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx schain.Context, e Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, e)
		}
	}
}

// notifyAll forwards all events of the log.
func notifyAll(ctx schain.Context, n Notifier, log *EventLog) {
	if n == nil {
		return
	}
	for _, e := range log.Events() {
		n.Notify(ctx, e)
	}
}

type contextKey int // local to the smultisig module

const (
	contextKeyPending contextKey = iota
)

// NotifyDecorator forwards events of a delivered transaction to the notifier
// once everything it wraps returned without an error. It must be placed
// outside of the savepoint that writes the transaction state.
type NotifyDecorator struct {
	notifier Notifier
}

var _ schain.Decorator = NotifyDecorator{}

// NewNotifyDecorator returns a decorator forwarding to n, which can be nil.
func NewNotifyDecorator(n Notifier) NotifyDecorator {
	return NotifyDecorator{notifier: n}
}

// Check never notifies.
func (d NotifyDecorator) Check(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Checker) (*schain.CheckResult, error) {
	return next.Check(ctx, store, tx)
}

func (d NotifyDecorator) Deliver(ctx schain.Context, store schain.KVStore, tx schain.Tx, next schain.Deliverer) (*schain.DeliverResult, error) {
	pending := &EventLog{}
	res, err := next.Deliver(context.WithValue(ctx, contextKeyPending, pending), store, tx)
	if err != nil {
		return nil, err
	}
	notifyAll(ctx, d.notifier, pending)
	return res, nil
}

// collect hands events of a successful handler run to the enclosing
// NotifyDecorator. Without one the events are only returned as tags.
func collect(ctx schain.Context, events *EventLog) {
	pending, ok := ctx.Value(contextKeyPending).(*EventLog)
	if !ok {
		return
	}
	for _, e := range events.Events() {
		pending.Emit(e)
	}
}
