package schaintest

import "github.com/schain/schain"

// Decorator is a mock implementation of the schain.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ schain.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx schain.Context, db schain.KVStore, tx schain.Tx, next schain.Checker) (*schain.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return &schain.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx, next schain.Deliverer) (*schain.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return &schain.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

func Decorate(h schain.Handler, d schain.Decorator) schain.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn schain.Handler
	dc schain.Decorator
}

var _ schain.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
