package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schain/schain"
	"github.com/schain/schain/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed
// to perform queries and handshakes.
//
// It should be embedded in another struct for CheckTx,
// DeliverTx and initializing state from the genesis.
//
// Errors on ABCI steps that do not take user input (Info, InitChain,
// BeginBlock, EndBlock and Commit) cannot be handled gracefully and
// are turned into panics.
type StoreApp struct {
	logger log.Logger

	// name is what is returned from abci.Info
	name string

	// Database state (committed, check, deliver....)
	store *CommitStore

	// Code to initialize from a genesis file
	initializer schain.Initializer

	// How to handle queries
	queryRouter schain.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in parseAppState
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext schain.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, block time), reset on BeginBlock
	blockContext schain.Context
}

// NewStoreApp initializes this app into a ready state with some defaults.
// The chain id is loaded from the store when the chain was already
// initialized.
func NewStoreApp(name string, store schain.CommitKVStore,
	queryRouter schain.QueryRouter, baseContext schain.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, errors.Wrap(err, "load store")
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	s.chainID, err = loadChainID(s.DeliverStore())
	if err != nil {
		return nil, err
	}
	if s.chainID != "" {
		s.baseContext = schain.WithChainID(s.baseContext, s.chainID)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	s.blockContext = schain.WithHeight(s.baseContext, info.Version)
	return s, nil
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init schain.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// parseAppState is called from InitChain, the first time the chain
// starts, and not on restarts.
func (s *StoreApp) parseAppState(data []byte, chainID string, init schain.Initializer) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain %q", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrState, "app_state not set in genesis.json, please initialize application before launching the blockchain")
	}

	var appState schain.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := s.storeChainID(chainID); err != nil {
		return err
	}
	if init == nil {
		return nil
	}
	return init.FromGenesis(appState, s.DeliverStore())
}

// store chainID and update context
func (s *StoreApp) storeChainID(chainID string) error {
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = schain.WithChainID(s.baseContext, s.chainID)
	return nil
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = schain.WithLogger(s.baseContext, logger)
	if s.blockContext != nil {
		s.blockContext = schain.WithLogger(s.blockContext, logger)
	}
	s.logger = logger
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the block context for public use
func (s *StoreApp) BlockContext() schain.Context {
	return s.blockContext
}

// DeliverStore returns the current DeliverTx cache for methods
func (s *StoreApp) DeliverStore() schain.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the current CheckTx cache for methods
func (s *StoreApp) CheckStore() schain.CacheableKVStore {
	return s.store.CheckStore()
}

//----------------------- ABCI ---------------------

// Info implements abci.Application. It returns the height and hash,
// as well as the abci name and version.
//
// The height is the block that holds the transactions, not the apphash itself.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}

	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

/*
Query gets data from the app store.
A query request has the following elements:
* Path - the type of query
* Data - what to query, interpreted based on Path

Path may be "/<bucket>" or "/<bucket>/<index>" or any other registered
path, for example "/smultisig/members". It may be followed by "?prefix"
to make a prefix query.

Key and Value in Results are always serialized ResultSet
objects, able to support 0 to N values. They must be the
same size.
*/
func (s *StoreApp) Query(reqQuery abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(reqQuery.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", reqQuery.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	// Queries always read the last committed state.
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := qh.Query(db, mod, reqQuery.Data)
	if err != nil {
		return queryError(err)
	}

	var res abci.ResponseQuery
	res.Height = info.Version
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{
		Log:  log,
		Code: code,
	}
}

// Commit implements abci.Application
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}

	s.logger.Debug("Commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash),
	)

	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain implements ABCI. The app_state of the genesis file is passed
// to the initializer.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId, s.initializer); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock implements ABCI. It sets up the block context with the
// height and the wall clock time declared by the block header.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := schain.WithHeight(s.baseContext, req.Header.Height)
	ctx = schain.WithBlockTime(ctx, req.Header.Time)
	s.blockContext = ctx
	return abci.ResponseBeginBlock{}
}

// EndBlock implements ABCI. Validator set changes are not supported.
func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
