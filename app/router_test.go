package app

import (
	"context"
	"testing"

	"github.com/schain/schain/errors"
	"github.com/schain/schain/schaintest"
	"github.com/schain/schain/schaintest/assert"
)

func TestRouterSuccess(t *testing.T) {
	const path = "smultisig/vote"

	var (
		r       = NewRouter()
		msg     = &schaintest.Msg{RoutePath: path}
		handler = &schaintest.Handler{}
	)

	r.Handle(path, handler)

	if _, err := r.Check(context.TODO(), nil, &schaintest.Tx{Msg: msg}); err != nil {
		t.Fatalf("check failed: %s", err)
	}
	if _, err := r.Deliver(context.TODO(), nil, &schaintest.Tx{Msg: msg}); err != nil {
		t.Fatalf("deliver failed: %s", err)
	}
	if want, got := 2, handler.CallCount(); want != got {
		t.Fatalf("want %d calls, got %d", want, got)
	}
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()

	tx := &schaintest.Tx{Msg: &schaintest.Msg{RoutePath: "smultisig/unknown"}}

	_, err := r.Check(context.TODO(), nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(context.TODO(), nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestRouterBrokenMessage(t *testing.T) {
	r := NewRouter()
	r.Handle("smultisig/vote", &schaintest.Handler{})

	tx := &schaintest.Tx{Err: errors.ErrMsg}
	_, err := r.Deliver(context.TODO(), nil, tx)
	assert.IsErr(t, errors.ErrMsg, err)
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle("smultisig/vote", &schaintest.Handler{})

	assert.Panics(t, func() { r.Handle("smultisig/vote", &schaintest.Handler{}) })
	assert.Panics(t, func() { r.Handle("smultisig:vote", &schaintest.Handler{}) })
	assert.Panics(t, func() { r.Handle("", &schaintest.Handler{}) })
}
