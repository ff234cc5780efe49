package app

import (
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	"github.com/oyster-market/oyster/x/market"
	marketkeeper "github.com/oyster-market/oyster/x/market/keeper"
	markettypes "github.com/oyster-market/oyster/x/market/types"
	"github.com/oyster-market/oyster/x/timelock"
	timelockkeeper "github.com/oyster-market/oyster/x/timelock/keeper"
	timelocktypes "github.com/oyster-market/oyster/x/timelock/types"
)

// module account permissions
var maccPerms = map[string][]string{
	markettypes.ModuleName: nil,
	FaucetModuleName:       {authtypes.Minter, authtypes.Burner},
}

// GetMaccPerms returns a copy of the module account permissions
func GetMaccPerms() map[string][]string {
	dupMaccPerms := make(map[string][]string, len(maccPerms))
	for k, v := range maccPerms {
		dupMaccPerms[k] = v
	}
	return dupMaccPerms
}

// BlockedModuleAccountAddrs returns the module accounts that may not receive
// plain transfers.
func BlockedModuleAccountAddrs() map[string]bool {
	modAccAddrs := make(map[string]bool)
	for acc := range GetMaccPerms() {
		modAccAddrs[authtypes.NewModuleAddress(acc).String()] = true
	}
	return modAccAddrs
}

// Ledger is a single-process host for the market and timelock modules. It
// owns an IAVL-backed multistore with real auth and bank keepers and a block
// clock that only moves when told to.
type Ledger struct {
	logger log.Logger
	cms    storetypes.CommitMultiStore
	ctx    sdk.Context

	AccountKeeper  authkeeper.AccountKeeper
	BankKeeper     bankkeeper.BaseKeeper
	TimelockKeeper timelockkeeper.Keeper
	MarketKeeper   *marketkeeper.Keeper

	MarketMsgServer   markettypes.MsgServer
	MarketQueryServer markettypes.QueryServer
	TimelockMsgServer timelocktypes.MsgServer

	invariants *invariantRegistry
}

// NewLedger mounts the module stores, wires the keepers and applies genesis.
// A nil genesis uses the module defaults.
func NewLedger(logger log.Logger, startTime time.Time, genesis GenesisState) (*Ledger, error) {
	if genesis == nil {
		genesis = NewDefaultGenesisState()
	}
	if err := genesis.Validate(); err != nil {
		return nil, err
	}

	keys := storetypes.NewKVStoreKeys(
		authtypes.StoreKey,
		banktypes.StoreKey,
		timelocktypes.StoreKey,
		markettypes.StoreKey,
	)

	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}

	registry := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)

	authority := authtypes.NewModuleAddress(govtypes.ModuleName).String()
	addrPrefix := sdk.GetConfig().GetBech32AccountAddrPrefix()

	l := &Ledger{
		logger:     logger,
		cms:        cms,
		invariants: &invariantRegistry{},
	}

	l.AccountKeeper = authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(addrPrefix),
		addrPrefix,
		authority,
	)

	l.BankKeeper = bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		l.AccountKeeper,
		BlockedModuleAccountAddrs(),
		authority,
		logger,
	)

	l.TimelockKeeper = timelockkeeper.NewKeeper(keys[timelocktypes.StoreKey], authority)
	l.MarketKeeper = marketkeeper.NewKeeper(
		keys[markettypes.StoreKey],
		l.BankKeeper,
		l.AccountKeeper,
		l.TimelockKeeper,
	)

	l.MarketMsgServer = marketkeeper.NewMsgServerImpl(*l.MarketKeeper)
	l.MarketQueryServer = marketkeeper.NewQueryServerImpl(*l.MarketKeeper)
	l.TimelockMsgServer = timelockkeeper.NewMsgServerImpl(l.TimelockKeeper)

	l.ctx = sdk.NewContext(cms, cmtproto.Header{
		ChainID: "oyster-local",
		Height:  1,
		Time:    startTime.UTC(),
	}, false, logger)

	if err := l.initGenesis(genesis); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Ledger) initGenesis(genesis GenesisState) (err error) {
	if err := l.AccountKeeper.Params.Set(l.ctx, authtypes.DefaultParams()); err != nil {
		return fmt.Errorf("failed to set auth params: %w", err)
	}
	if err := l.BankKeeper.SetParams(l.ctx, banktypes.DefaultParams()); err != nil {
		return fmt.Errorf("failed to set bank params: %w", err)
	}

	timelockModule := timelock.NewAppModule(l.TimelockKeeper)
	marketModule := market.NewAppModule(l.MarketKeeper)
	marketModule.RegisterInvariants(l.invariants)

	// module InitGenesis panics on bad input
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("genesis: %v", r)
		}
	}()

	timelockModule.InitGenesis(l.ctx, nil, genesisOrDefault(genesis, timelockModule.Name(), timelockModule.DefaultGenesis))
	marketModule.InitGenesis(l.ctx, nil, genesisOrDefault(genesis, marketModule.Name(), marketModule.DefaultGenesis))
	return nil
}

func genesisOrDefault(genesis GenesisState, name string, def func(codec.JSONCodec) json.RawMessage) json.RawMessage {
	if bz, ok := genesis[name]; ok {
		return bz
	}
	return def(nil)
}

// Context returns the context of the current block.
func (l *Ledger) Context() sdk.Context {
	return l.ctx
}

// Logger returns the ledger logger.
func (l *Ledger) Logger() log.Logger {
	return l.logger
}

// BlockTime returns the current block time.
func (l *Ledger) BlockTime() time.Time {
	return l.ctx.BlockTime()
}

// AdvanceTime moves the clock forward by d and starts a new block with a
// fresh event manager.
func (l *Ledger) AdvanceTime(d time.Duration) {
	l.ctx = l.ctx.
		WithBlockTime(l.ctx.BlockTime().Add(d)).
		WithBlockHeight(l.ctx.BlockHeight() + 1).
		WithEventManager(sdk.NewEventManager())
}

// Fund mints coins through the faucet module account and sends them to addr.
func (l *Ledger) Fund(addr sdk.AccAddress, coins sdk.Coins) error {
	if err := l.BankKeeper.MintCoins(l.ctx, FaucetModuleName, coins); err != nil {
		return fmt.Errorf("mint %s: %w", coins, err)
	}
	if err := l.BankKeeper.SendCoinsFromModuleToAccount(l.ctx, FaucetModuleName, addr, coins); err != nil {
		return fmt.Errorf("fund %s with %s: %w", addr, coins, err)
	}
	return nil
}

// Balance returns the balance of addr in denom.
func (l *Ledger) Balance(addr sdk.AccAddress, denom string) sdk.Coin {
	return l.BankKeeper.GetBalance(l.ctx, addr, denom)
}

// ExportGenesis exports the state of every ledger module.
func (l *Ledger) ExportGenesis() GenesisState {
	return GenesisState{
		timelocktypes.ModuleName: timelock.NewAppModule(l.TimelockKeeper).ExportGenesis(l.ctx, nil),
		markettypes.ModuleName:   market.NewAppModule(l.MarketKeeper).ExportGenesis(l.ctx, nil),
	}
}

// AssertInvariants runs every registered invariant and reports the first
// broken one.
func (l *Ledger) AssertInvariants() error {
	for _, route := range l.invariants.routes {
		if msg, broken := route.invariant(l.ctx); broken {
			return fmt.Errorf("invariant %s/%s broken: %s", route.module, route.route, msg)
		}
	}
	return nil
}

type invariantRoute struct {
	module    string
	route     string
	invariant sdk.Invariant
}

// invariantRegistry collects module invariants without a crisis module.
type invariantRegistry struct {
	routes []invariantRoute
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, route: route, invariant: invar})
}
