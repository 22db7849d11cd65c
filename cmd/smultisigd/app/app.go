/*
Package app links together all the various components
to construct the smultisigd application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/schain/schain"
	"github.com/schain/schain/app"
	"github.com/schain/schain/errors"
	"github.com/schain/schain/store/iavl"
	"github.com/schain/schain/x"
	"github.com/schain/schain/x/sigs"
	"github.com/schain/schain/x/smultisig"
	"github.com/schain/schain/x/utils"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/uber-go/tally/v4"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(scope tally.Scope) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(scope),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// governance events are reported only once the
		// savepoint below has written the state
		smultisig.NewNotifyDecorator(Notifier(scope)),
		// on DeliverTx, bad tx will increment nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Notifier logs and counts governance events.
func Notifier(scope tally.Scope) smultisig.Notifier {
	return smultisig.MultiNotifier{
		smultisig.LogNotifier{},
		smultisig.NewMetricsNotifier(scope),
	}
}

// Router returns a router dispatching all governance messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	smultisig.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth" and all "/smultisig" paths.
func QueryRouter() schain.QueryRouter {
	r := schain.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		smultisig.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(scope tally.Scope) schain.Handler {
	authFn := Authenticator()
	return Chain(scope).WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h schain.Handler,
	tx schain.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	store.WithInit(schain.ChainInitializers(&smultisig.Initializer{}))
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path keeps everything in memory.
func CommitKVStore(dbPath string) (schain.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}

// GenerateApp creates the node application, storing its database under
// home. An empty home keeps the state in memory.
func GenerateApp(home string, logger log.Logger, scope tally.Scope, debug bool) (app.BaseApp, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "smultisig.db")
	}
	application, err := Application("smultisigd", Stack(scope), TxDecoder, dbPath, debug)
	if err != nil {
		return app.BaseApp{}, err
	}
	application.WithLogger(logger)
	return application, nil
}
