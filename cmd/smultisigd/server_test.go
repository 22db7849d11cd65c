package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/schain/schain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestInitCmd(t *testing.T) {
	home, err := ioutil.TempDir("", "smultisigd")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	// tendermint must create the genesis first
	var out bytes.Buffer
	err = InitCmd(log.NewNopLogger(), home, &out, nil)
	require.True(t, errors.ErrNotFound.Is(err), "%+v", err)

	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0700))
	genFile := filepath.Join(home, "config", "genesis.json")
	require.NoError(t, ioutil.WriteFile(genFile, []byte(`{"chain_id": "test-chain-1", "validators": []}`), 0600))

	require.NoError(t, InitCmd(log.NewNopLogger(), home, &out, nil))

	var keys []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &keys))
	assert.Len(t, keys, 2)

	raw, err := ioutil.ReadFile(genFile)
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.JSONEq(t, `"test-chain-1"`, string(doc["chain_id"]))

	var state struct {
		Smultisig struct {
			Members []string `json:"members"`
		} `json:"smultisig"`
	}
	require.NoError(t, json.Unmarshal(doc["app_state"], &state))
	assert.Len(t, state.Smultisig.Members, 2)
}

func TestParseStartFlags(t *testing.T) {
	cfg, err := parseStartFlags(DefaultConfig(), []string{"-bind", "tcp://0.0.0.0:1234", "-debug", "-metrics", ":9100"})
	require.NoError(t, err)
	assert.Equal(t, "tcp://0.0.0.0:1234", cfg.Bind)
	assert.True(t, cfg.Debug)
	assert.Equal(t, ":9100", cfg.MetricsAddress)
	assert.Equal(t, DefaultConfig().LogLevel, cfg.LogLevel)

	_, err = parseStartFlags(DefaultConfig(), []string{"-log_level", "verbose"})
	assert.True(t, errors.ErrInput.Is(err))

	_, err = parseStartFlags(DefaultConfig(), []string{"-unknown"})
	assert.True(t, errors.ErrInput.Is(err))
}
