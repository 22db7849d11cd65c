package schaintest

import "github.com/schain/schain"

// Handler is a mock implementation of the schain.Handler interface. It
// returns the configured results and counts each call.
type Handler struct {
	checkCall   int
	CheckResult schain.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult schain.DeliverResult
	DeliverErr    error
}

var _ schain.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.CheckResult, error) {
	h.checkCall++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx schain.Context, db schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	h.deliverCall++
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
