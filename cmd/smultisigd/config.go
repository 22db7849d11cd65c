package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/schain/schain/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Config holds the node settings. Values are read from a TOML file and
// command line flags take precedence.
type Config struct {
	// Home is the directory holding the state database.
	Home string
	// Bind is the address the ABCI server listens on.
	Bind string
	// LogLevel is one of debug, info, error or none.
	LogLevel string
	// Debug returns full error information to the client.
	Debug bool
	// MetricsAddress serves the prometheus endpoint. Empty disables it.
	MetricsAddress string
	// MetricsPrefix is prepended to every metric name.
	MetricsPrefix string
}

type fileConfig struct {
	Home           string `toml:"home"`
	Bind           string `toml:"bind"`
	LogLevel       string `toml:"log_level"`
	Debug          bool   `toml:"debug"`
	MetricsAddress string `toml:"metrics_address"`
	MetricsPrefix  string `toml:"metrics_prefix"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Home:           filepath.Join(os.ExpandEnv("$HOME"), ".smultisig"),
		Bind:           "tcp://localhost:26658",
		LogLevel:       "info",
		MetricsAddress: "",
		MetricsPrefix:  "smultisigd",
	}
}

// loadConfig overlays the values defined in the TOML file at path on top
// of the defaults. A missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrInput, "load config %q: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return Config{}, errors.Wrapf(errors.ErrInput, "unknown config keys: %v", undecoded)
	}

	if meta.IsDefined("home") {
		cfg.Home = os.ExpandEnv(strings.TrimSpace(raw.Home))
	}
	if meta.IsDefined("bind") {
		cfg.Bind = strings.TrimSpace(raw.Bind)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}
	if meta.IsDefined("metrics_address") {
		cfg.MetricsAddress = strings.TrimSpace(raw.MetricsAddress)
	}
	if meta.IsDefined("metrics_prefix") {
		cfg.MetricsPrefix = strings.TrimSpace(raw.MetricsPrefix)
	}
	return cfg, cfg.Validate()
}

// Validate returns an error if the settings cannot be used to run a node.
func (c Config) Validate() error {
	var errs error
	if c.Bind == "" {
		errs = errors.AppendField(errs, "Bind", errors.ErrEmpty)
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		errs = errors.AppendField(errs, "LogLevel", errors.Wrap(errors.ErrInput, err.Error()))
	}
	return errs
}

// Logger returns a logger writing to w, filtered by the configured level.
func (c Config) Logger(w log.Logger) (log.Logger, error) {
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(w, opt), nil
}
