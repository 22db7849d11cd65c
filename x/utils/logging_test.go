package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/schaintest"
	"github.com/schain/schain/store"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := schain.WithLogger(context.Background(), log.NewTMLogger(&buf))
	db := store.MemStore()
	tx := &schaintest.Tx{Msg: &schaintest.Msg{RoutePath: "smultisig/vote"}}

	l := NewLogging()
	_, err := l.Deliver(ctx, db, tx, &schaintest.Handler{
		DeliverResult: schain.DeliverResult{Log: "vote recorded"},
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "vote recorded")
	require.Contains(t, buf.String(), "path=smultisig/vote")

	buf.Reset()
	_, err = l.Check(ctx, db, tx, &schaintest.Handler{CheckErr: errors.ErrUnauthorized})
	require.Error(t, err)
	require.True(t, strings.Contains(buf.String(), "unauthorized"), buf.String())
}
