package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/schain/schain/errors"
	"github.com/schain/schain/schaintest/assert"
)

func writeConfig(t *testing.T, content string) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "smultisigd")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	path := filepath.Join(dir, "config.toml")
	if err := ioutil.WriteFile(path, []byte(content), 0600); err != nil {
		os.RemoveAll(dir)
		t.Fatalf("cannot write config: %s", err)
	}
	return path, func() { os.RemoveAll(dir) }
}

func TestLoadConfig(t *testing.T) {
	cases := map[string]struct {
		content string
		want    func(Config) Config
		wantErr *errors.Error
	}{
		"empty file keeps defaults": {
			content: ``,
			want:    func(c Config) Config { return c },
		},
		"partial overrides": {
			content: `
bind = "tcp://0.0.0.0:26658"
debug = true
`,
			want: func(c Config) Config {
				c.Bind = "tcp://0.0.0.0:26658"
				c.Debug = true
				return c
			},
		},
		"all values": {
			content: `
home = "/var/lib/smultisig"
bind = "unix:///tmp/abci.sock"
log_level = "debug"
debug = false
metrics_address = ":9100"
metrics_prefix = "gov"
`,
			want: func(c Config) Config {
				return Config{
					Home:           "/var/lib/smultisig",
					Bind:           "unix:///tmp/abci.sock",
					LogLevel:       "debug",
					MetricsAddress: ":9100",
					MetricsPrefix:  "gov",
				}
			},
		},
		"unknown key": {
			content: `listen = ":1"`,
			wantErr: errors.ErrInput,
		},
		"broken toml": {
			content: `bind = `,
			wantErr: errors.ErrInput,
		},
		"invalid log level": {
			content: `log_level = "loud"`,
			wantErr: errors.ErrInput,
		},
		"empty bind": {
			content: `bind = ""`,
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path, cleanup := writeConfig(t, tc.content)
			defer cleanup()

			cfg, err := loadConfig(path)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.want(DefaultConfig()), cfg)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(os.TempDir(), "does-not-exist", "config.toml"))
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
