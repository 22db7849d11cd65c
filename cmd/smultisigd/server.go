package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	smultisigd "github.com/schain/schain/cmd/smultisigd/app"
	"github.com/schain/schain/errors"
	"github.com/tendermint/tendermint/abci/server"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/uber-go/tally/v4"
	promreporter "github.com/uber-go/tally/v4/prometheus"
)

// InitCmd adds the app_state built from the given member addresses to the
// genesis file that tendermint created under home. Generated keys are
// written to out.
func InitCmd(logger log.Logger, home string, out io.Writer, args []string) error {
	state, keys, err := smultisigd.GenInitOptions(args)
	if err != nil {
		return err
	}
	genFile := filepath.Join(home, "config", "genesis.json")
	if err := addGenesisOptions(genFile, state); err != nil {
		return err
	}
	logger.Info("Added app_state to genesis file", "path", genFile)

	if len(keys) == 0 {
		return nil
	}
	raw, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal keys")
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file, run tendermint init first: %s", err)
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}

// parseStartFlags applies the start command flags on top of cfg.
func parseStartFlags(cfg Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&cfg.Bind, "bind", cfg.Bind, "address server listens on")
	startFlags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "call stack returned on error")
	startFlags.StringVar(&cfg.LogLevel, "log_level", cfg.LogLevel, "debug, info, error or none")
	startFlags.StringVar(&cfg.MetricsAddress, "metrics", cfg.MetricsAddress, "address of the prometheus endpoint, empty to disable")
	if err := startFlags.Parse(args); err != nil {
		return cfg, errors.Wrap(errors.ErrInput, err.Error())
	}
	return cfg, cfg.Validate()
}

// StartCmd runs the ABCI server until the process is interrupted.
func StartCmd(cfg Config, logger log.Logger, args []string) error {
	cfg, err := parseStartFlags(cfg, args)
	if err != nil {
		return err
	}
	logger, err = cfg.Logger(logger)
	if err != nil {
		return err
	}

	reporter := promreporter.NewReporter(promreporter.Options{})
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         cfg.MetricsPrefix,
		Tags:           map[string]string{},
		CachedReporter: reporter,
		Separator:      promreporter.DefaultSeparator,
	}, time.Second)
	defer closer.Close()

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reporter.HTTPHandler())
		go func() {
			logger.Info("Serving metrics", "address", cfg.MetricsAddress)
			if err := http.ListenAndServe(cfg.MetricsAddress, mux); err != nil {
				logger.Error("Metrics server stopped", "err", err)
			}
		}()
	}

	app, err := smultisigd.GenerateApp(cfg.Home, logger, scope, cfg.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", cfg.Bind)
	svr, err := server.NewServer(cfg.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "creating listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start server")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down")
	return svr.Stop()
}
