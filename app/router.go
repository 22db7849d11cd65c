package app

import (
	"fmt"
	"regexp"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
//
// TODO: look for better trie routers that handle patterns...
// maybe take code from julienschmidt/httprouter
// but we need to think about how to handle errors there
type Router struct {
	routes map[string]schain.Handler
}

var _ schain.Registry = (*Router)(nil)
var _ schain.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]schain.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. This function panics if
// another Handler was already registered for the same path.
func (r *Router) Handle(path string, h schain.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is
// found, returns a noSuchPath Handler. This function always returns a non
// nil Handler.
func (r *Router) Handler(path string) schain.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the handler registered for the message path.
func (r *Router) Check(ctx schain.Context, store schain.KVStore, tx schain.Tx) (*schain.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h := r.Handler(msg.Path())
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the handler registered for the message path.
func (r *Router) Deliver(ctx schain.Context, store schain.KVStore, tx schain.Tx) (*schain.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h := r.Handler(msg.Path())
	return h.Deliver(ctx, store, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments.
type notFoundHandler string

func (path notFoundHandler) Check(schain.Context, schain.KVStore, schain.Tx) (*schain.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(schain.Context, schain.KVStore, schain.Tx) (*schain.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
