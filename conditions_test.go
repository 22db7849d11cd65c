package schain_test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexademical address printing", t, func() {
		b := []byte("ABCD123456LHB")
		addr := schain.Address(b)

		So(addr.String(), ShouldEqual, strings.ToUpper(hex.EncodeToString(b)))
		So(schain.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("test hexademical condition printing", t, func() {
		cond := schain.NewCondition("sigs", "ed25519", []byte("ABCD123456LHB"))

		So(cond.String(), ShouldNotEqual, fmt.Sprintf("%X", cond))
		So(cond.String(), ShouldStartWith, "sigs/ed25519/")
	})
}

func TestConditionParse(t *testing.T) {
	Convey("a well formed condition can be parsed", t, func() {
		cond := schain.NewCondition("smultisig", "group", []byte{0, 1, 2})
		ext, typ, data, err := cond.Parse()
		So(err, ShouldBeNil)
		So(ext, ShouldEqual, "smultisig")
		So(typ, ShouldEqual, "group")
		So(data, ShouldResemble, []byte{0, 1, 2})
		So(cond.Validate(), ShouldBeNil)
	})

	Convey("a condition without data is rejected", t, func() {
		cond := schain.Condition("smultisig/group/")
		So(cond.Validate(), ShouldNotBeNil)
		_, _, _, err := cond.Parse()
		So(errors.ErrInput.Is(err), ShouldBeTrue)
	})

	Convey("the same condition always results in the same address", t, func() {
		a := schain.NewCondition("sigs", "ed25519", []byte("key")).Address()
		b := schain.NewCondition("sigs", "ed25519", []byte("key")).Address()
		c := schain.NewCondition("sigs", "ed25519", []byte("other")).Address()
		So(a.Equals(b), ShouldBeTrue)
		So(a.Equals(c), ShouldBeFalse)
		So(a.Validate(), ShouldBeNil)
	})
}

func TestAddressCompare(t *testing.T) {
	low := schain.Address(strings.Repeat("a", 20))
	high := schain.Address(strings.Repeat("b", 20))

	assert.Equal(t, -1, low.Compare(high))
	assert.Equal(t, 1, high.Compare(low))
	assert.Equal(t, 0, low.Compare(low.Clone()))
	assert.Nil(t, schain.Address(nil).Clone())
}

func TestAddressUnmarshalJSON(t *testing.T) {
	raw := []byte("01234567890123456789")
	hexAddr := hex.EncodeToString(raw)

	bech, err := schain.Address(raw).Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr schain.Address
	}{
		"default decoding": {
			json:     `"` + hexAddr + `"`,
			wantAddr: schain.Address(raw),
		},
		"hex decoding": {
			json:     `"hex:` + hexAddr + `"`,
			wantAddr: schain.Address(raw),
		},
		"bech32 decoding": {
			json:     `"bech32:` + bech + `"`,
			wantAddr: schain.Address(raw),
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: schain.NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"short hex address": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"invalid bech32": {
			json:    `"bech32:sch1qqqq"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a schain.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressBech32(t *testing.T) {
	addr := schain.NewAddress([]byte("some data"))
	enc, err := addr.Bech32()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enc, schain.AddressHRP+"1"))

	got, err := schain.ParseAddress("bech32:" + enc)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition schain.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: schain.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got schain.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("expected %q but got condition: %q", tc.wantCondition, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		source   schain.Condition
		wantJson string
	}{
		"cond encoding": {
			source:   schain.NewCondition("foo", "bar", []byte("conditiondata")),
			wantJson: `"foo/bar/636F6E646974696F6E64617461"`,
		},
		"nil encoding": {
			source:   nil,
			wantJson: `""`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := json.Marshal(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJson, string(got))
		})
	}
}
