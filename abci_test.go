package schain_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/common"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err  error
		log  string
		code uint32
	}{
		"stdlib error is redacted": {
			err:  fmt.Errorf("base"),
			log:  "internal error",
			code: 1,
		},
		"registered error": {
			err:  errors.ErrUnauthorized,
			log:  "unauthorized",
			code: errors.ErrUnauthorized.ABCICode(),
		},
		"wrapped registered error": {
			err:  errors.Wrap(errors.ErrNotFound, "proposal"),
			log:  "proposal: not found",
			code: errors.ErrNotFound.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := schain.DeliverTxError(tc.err, false)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasSuffix(dres.Log, tc.log), dres.Log)
			assert.Equal(t, tc.code, dres.Code)

			cres := schain.CheckTxError(tc.err, false)
			assert.True(t, cres.IsErr())
			assert.True(t, strings.HasSuffix(cres.Log, tc.log), cres.Log)
			assert.Equal(t, tc.code, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	tags := []common.KVPair{{Key: []byte("action"), Value: []byte("vote")}}
	dres := schain.DeliverResult{Data: d, Log: msg, Tags: tags}
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Equal(t, tags, ad.Tags)

	c, gas := "aok", int64(12345)
	cres := schain.NewCheck(gas, c)
	ac := cres.ToABCI()
	assert.Equal(t, c, ac.Log)
	assert.Equal(t, gas, ac.GasWanted)
	assert.Empty(t, ac.Data)
}

func TestParseDeliverOrError(t *testing.T) {
	res := schain.DeliverOrError(nil, errors.Wrap(errors.ErrEmpty, "members"), false)
	_, err := schain.ParseDeliverOrError(res)
	assert.True(t, errors.ErrEmpty.Is(err))

	res = schain.DeliverOrError(&schain.DeliverResult{Data: []byte("ok")}, nil, false)
	got, err := schain.ParseDeliverOrError(res)
	assert.NoError(t, err)
	assert.Equal(t, []byte("ok"), got.Data)
}
