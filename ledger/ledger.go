package ledger

import (
	"fmt"
	"math/big"
	"sync"

	"tokend/config"
	"tokend/db"
	"tokend/errors"
	"tokend/events"
	"tokend/logx"
	"tokend/monitoring"
	"tokend/store"
	"tokend/types"
	"tokend/utils"
)

// Ledger is the assembled token contract: AccountLedger, Authorization-
// Policy, TransferEngine and SupplyController composed behind mutex-
// serialized entry points. Every mutating entry point runs the same
// sequence: authorize, stage account copies, apply the engine, commit the
// staged state in one batch. A failure at any step discards the staged
// copies, so callers only ever observe the pre- or post-state.
type Ledger struct {
	mu sync.RWMutex

	accounts  *AccountLedger
	policy    *AuthorizationPolicy
	transfers *TransferEngine
	supply    *SupplyController

	accountStore store.AccountStore
	stateMeta    store.StateMetaStore
	metadata     store.MetadataStore
	txManager    *db.DBTxManager
	eventBus     *events.EventBus

	// Aggregate state, authoritative at runtime, mirrored to stateMeta
	// inside the same batch as the account writes it belongs to.
	totalSupply   *big.Int
	administrator string
	paused        bool

	// Deployment configuration, re-read from genesis each start.
	mintRequiresAdmin  bool
	metadataUpgradable bool
}

func NewLedger(provider db.DatabaseProvider, accountStore store.AccountStore, stateMeta store.StateMetaStore, metadata store.MetadataStore, eventBus *events.EventBus) (*Ledger, error) {
	l := &Ledger{
		accounts:          NewAccountLedger(accountStore),
		accountStore:      accountStore,
		stateMeta:         stateMeta,
		metadata:          metadata,
		txManager:         db.NewDBTxManager(provider),
		eventBus:          eventBus,
		totalSupply:       new(big.Int),
		mintRequiresAdmin: true,
	}
	l.policy = NewAuthorizationPolicy(
		func() string { return l.administrator },
		func() bool { return l.paused },
	)
	l.transfers = NewTransferEngine(l.policy)
	l.supply = NewSupplyController(l.policy)

	if err := l.loadState(); err != nil {
		return nil, err
	}
	return l, nil
}

// loadState restores the aggregate record from the meta store.
func (l *Ledger) loadState() error {
	supply, ok, err := l.stateMeta.GetTotalSupply()
	if err != nil {
		return err
	}
	if ok {
		l.totalSupply = supply
	}

	admin, ok, err := l.stateMeta.GetAdministrator()
	if err != nil {
		return err
	}
	if ok {
		l.administrator = admin
	}

	paused, ok, err := l.stateMeta.GetPaused()
	if err != nil {
		return err
	}
	if ok {
		l.paused = paused
	}

	monitoring.SetTotalSupply(l.totalSupply)
	monitoring.SetPaused(l.paused)
	return nil
}

// InitFromGenesis applies the genesis configuration. On a fresh store it
// seeds the administrator, pause flag, metadata and initial allocations;
// on a restart it only re-reads the deployment flags and verifies the
// supply invariant against the persisted accounts.
func (l *Ledger) InitFromGenesis(gen *config.GenesisConfig) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.mintRequiresAdmin = gen.MintAdminOnly()
	l.metadataUpgradable = gen.MetadataUpgradable

	initialized, err := l.stateMeta.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		if err := l.verifySupplyInvariantLocked(); err != nil {
			return err
		}
		logx.Info("LEDGER", fmt.Sprintf("State restored: supply=%s administrator=%s paused=%t", utils.AmountToString(l.totalSupply), utils.ShortenLog(l.administrator), l.paused))
		return nil
	}

	staged := make(map[string]*types.Account)
	stagedOrder := []string{}
	ensureStaged := func(addr string) *types.Account {
		if acc, ok := staged[addr]; ok {
			return acc
		}
		acc := types.NewAccount(addr)
		staged[addr] = acc
		stagedOrder = append(stagedOrder, addr)
		return acc
	}

	supply := new(big.Int)
	ensureStaged(gen.Administrator)
	for _, alloc := range gen.Allocations {
		amount, err := utils.AmountFromString(alloc.Amount)
		if err != nil {
			return fmt.Errorf("invalid genesis allocation for %s: %w", alloc.Address, err)
		}
		supply = l.supply.Mint(ensureStaged(alloc.Address), supply, amount)
	}

	err = l.txManager.WithBatch(func(batch db.DatabaseBatch) error {
		accounts := make([]*types.Account, 0, len(stagedOrder))
		for _, addr := range stagedOrder {
			accounts = append(accounts, staged[addr])
		}
		if err := l.accountStore.StoreInBatch(batch, accounts...); err != nil {
			return err
		}
		l.stateMeta.SetTotalSupplyInBatch(batch, supply)
		l.stateMeta.SetAdministratorInBatch(batch, gen.Administrator)
		l.stateMeta.SetPausedInBatch(batch, gen.Paused)
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not write genesis state: %w", err)
	}

	if err := l.metadata.SetTokenMetadata(&gen.Token); err != nil {
		return err
	}
	if gen.ContractMetadata != nil {
		if err := l.metadata.SetContractMetadata(gen.ContractMetadata); err != nil {
			return err
		}
	}
	if err := l.stateMeta.MarkInitialized(); err != nil {
		return err
	}

	l.totalSupply = supply
	l.administrator = gen.Administrator
	l.paused = gen.Paused
	monitoring.SetTotalSupply(l.totalSupply)
	monitoring.SetPaused(l.paused)
	if count, err := l.accountStore.Count(); err == nil {
		monitoring.SetAccountCount(count)
	}

	logx.Info("LEDGER", fmt.Sprintf("Genesis applied: supply=%s administrator=%s allocations=%d", utils.AmountToString(supply), utils.ShortenLog(gen.Administrator), len(gen.Allocations)))
	return nil
}

// --- Mutating entry points ---

// Transfer moves amount from `from` to `to` on behalf of caller.
func (l *Ledger) Transfer(caller, from, to string, amount *big.Int) error {
	if err := validateAddresses(caller, from, to); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	staged, err := l.stage(from, to)
	if err != nil {
		return internalError(err)
	}

	if err := l.transfers.Transfer(caller, staged[from], staged[to], amount); err != nil {
		l.reject(monitoring.OpTransfer, err)
		return err
	}

	if err := l.commitAccounts(staged); err != nil {
		return internalError(err)
	}

	monitoring.RecordAppliedOp(monitoring.OpTransfer)
	l.publish(events.NewTransferApplied(caller, from, to, amount))
	logx.Debug("LEDGER", fmt.Sprintf("Transfer applied: %s -> %s amount=%s caller=%s", utils.ShortenLog(from), utils.ShortenLog(to), utils.AmountToString(amount), utils.ShortenLog(caller)))
	return nil
}

// Approve sets caller's allowance for spender.
func (l *Ledger) Approve(caller, spender string, amount *big.Int) error {
	if err := validateAddresses(caller, spender); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	staged, err := l.stage(caller)
	if err != nil {
		return internalError(err)
	}

	if err := l.transfers.Approve(staged[caller], spender, amount); err != nil {
		l.reject(monitoring.OpApprove, err)
		return err
	}

	if err := l.commitAccounts(staged); err != nil {
		return internalError(err)
	}

	monitoring.RecordAppliedOp(monitoring.OpApprove)
	l.publish(events.NewAllowanceSet(caller, spender, amount))
	return nil
}

// Mint credits amount to address and grows the total supply. Whether the
// caller must be the administrator is a deployment decision (genesis
// mint_requires_admin, on by default).
func (l *Ledger) Mint(caller, address string, amount *big.Int) error {
	if err := validateAddresses(caller, address); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.mintRequiresAdmin && !l.policy.IsAdministrator(caller) {
		err := errors.NewNotAdminError()
		l.reject(monitoring.OpMint, err)
		return err
	}

	staged, err := l.stage(address)
	if err != nil {
		return internalError(err)
	}

	newSupply := l.supply.Mint(staged[address], l.totalSupply, amount)

	if err := l.commitAccountsAndSupply(staged, newSupply); err != nil {
		return internalError(err)
	}

	l.totalSupply = newSupply
	monitoring.SetTotalSupply(newSupply)
	monitoring.RecordAppliedOp(monitoring.OpMint)
	l.publish(events.NewSupplyMinted(address, amount, newSupply))
	logx.Info("LEDGER", fmt.Sprintf("Minted %s to %s, supply=%s", utils.AmountToString(amount), utils.ShortenLog(address), utils.AmountToString(newSupply)))
	return nil
}

// Burn debits amount from address and shrinks the total supply.
// Administrator only.
func (l *Ledger) Burn(caller, address string, amount *big.Int) error {
	if err := validateAddresses(caller, address); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	staged, err := l.stage(address)
	if err != nil {
		return internalError(err)
	}

	newSupply, err := l.supply.Burn(caller, staged[address], l.totalSupply, amount)
	if err != nil {
		l.reject(monitoring.OpBurn, err)
		return err
	}

	if err := l.commitAccountsAndSupply(staged, newSupply); err != nil {
		return internalError(err)
	}

	l.totalSupply = newSupply
	monitoring.SetTotalSupply(newSupply)
	monitoring.RecordAppliedOp(monitoring.OpBurn)
	l.publish(events.NewSupplyBurned(address, amount, newSupply))
	logx.Info("LEDGER", fmt.Sprintf("Burned %s from %s, supply=%s", utils.AmountToString(amount), utils.ShortenLog(address), utils.AmountToString(newSupply)))
	return nil
}

// SetAdministrator replaces the administrator. Administrator only; the
// new identity needs no prior status, not even an account record.
func (l *Ledger) SetAdministrator(caller, newAdmin string) error {
	if err := validateAddresses(caller, newAdmin); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.policy.IsAdministrator(caller) {
		err := errors.NewNotAdminError()
		l.reject(monitoring.OpSetAdministrator, err)
		return err
	}

	err := l.txManager.WithBatch(func(batch db.DatabaseBatch) error {
		l.stateMeta.SetAdministratorInBatch(batch, newAdmin)
		return nil
	})
	if err != nil {
		return internalError(err)
	}

	previous := l.administrator
	l.administrator = newAdmin
	monitoring.RecordAppliedOp(monitoring.OpSetAdministrator)
	l.publish(events.NewAdministratorChanged(previous, newAdmin))
	logx.Info("LEDGER", fmt.Sprintf("Administrator changed: %s -> %s", utils.ShortenLog(previous), utils.ShortenLog(newAdmin)))
	return nil
}

// SetPause sets the paused flag. Administrator only; idempotent when the
// flag already has the requested value.
func (l *Ledger) SetPause(caller string, paused bool) error {
	if err := validateAddresses(caller); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.policy.IsAdministrator(caller) {
		err := errors.NewNotAdminError()
		l.reject(monitoring.OpSetPause, err)
		return err
	}

	err := l.txManager.WithBatch(func(batch db.DatabaseBatch) error {
		l.stateMeta.SetPausedInBatch(batch, paused)
		return nil
	})
	if err != nil {
		return internalError(err)
	}

	l.paused = paused
	monitoring.SetPaused(paused)
	monitoring.RecordAppliedOp(monitoring.OpSetPause)
	l.publish(events.NewPauseChanged(caller, paused))
	logx.Info("LEDGER", fmt.Sprintf("Paused flag set to %t", paused))
	return nil
}

// UpdateMetadata updates one contract-metadata entry. Available only when
// the deployment enabled upgradable metadata, and then administrator only.
func (l *Ledger) UpdateMetadata(caller, key, value string) error {
	if err := validateAddresses(caller); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.metadataUpgradable {
		err := errors.NewNotAllowedError()
		l.reject(monitoring.OpUpdateMetadata, err)
		return err
	}
	if !l.policy.IsAdministrator(caller) {
		err := errors.NewNotAdminError()
		l.reject(monitoring.OpUpdateMetadata, err)
		return err
	}

	md, ok, err := l.metadata.GetContractMetadata()
	if err != nil {
		return internalError(err)
	}
	if !ok {
		md = make(types.ContractMetadata)
	}
	md[key] = value

	err = l.txManager.WithBatch(func(batch db.DatabaseBatch) error {
		return l.metadata.SetContractMetadataInBatch(batch, md)
	})
	if err != nil {
		return internalError(err)
	}

	monitoring.RecordAppliedOp(monitoring.OpUpdateMetadata)
	return nil
}

// --- Query entry points ---
// All reads are side-effect-free; an absent account yields zero values,
// never an error.

func (l *Ledger) Balance(addr string) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.accounts.GetBalance(addr)
}

func (l *Ledger) Allowance(owner, spender string) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.accounts.GetAllowance(owner, spender)
}

func (l *Ledger) TotalSupply() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return utils.CloneAmount(l.totalSupply)
}

func (l *Ledger) Administrator() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.administrator
}

func (l *Ledger) Paused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.paused
}

func (l *Ledger) TokenMetadata() (*types.TokenMetadata, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	md, ok, err := l.metadata.GetTokenMetadata()
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.TokenMetadata{}, nil
	}
	return md, nil
}

func (l *Ledger) ContractMetadata() (types.ContractMetadata, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	md, ok, err := l.metadata.GetContractMetadata()
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.ContractMetadata{}, nil
	}
	return md, nil
}

// VerifySupplyInvariant checks that the total-supply counter equals the
// sum of all stored balances.
func (l *Ledger) VerifySupplyInvariant() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verifySupplyInvariantLocked()
}

func (l *Ledger) verifySupplyInvariantLocked() error {
	sum := new(big.Int)
	err := l.accountStore.IterateAll(func(acc *types.Account) bool {
		sum.Add(sum, acc.Balance)
		return true
	})
	if err != nil {
		return err
	}
	if sum.Cmp(l.totalSupply) != 0 {
		return fmt.Errorf("supply invariant violated: counter=%s sum=%s", utils.AmountToString(l.totalSupply), utils.AmountToString(sum))
	}
	return nil
}

// --- Internal helpers ---

// stage loads mutable copies for the given addresses, deduplicating so a
// self-transfer mutates a single record.
func (l *Ledger) stage(addrs ...string) (map[string]*types.Account, error) {
	staged := make(map[string]*types.Account, len(addrs))
	for _, addr := range addrs {
		if _, ok := staged[addr]; ok {
			continue
		}
		acc, err := l.accounts.loadOrNew(addr)
		if err != nil {
			return nil, err
		}
		staged[addr] = acc
	}
	return staged, nil
}

// commitAccounts writes all staged records in one batch.
func (l *Ledger) commitAccounts(staged map[string]*types.Account) error {
	return l.txManager.WithBatch(func(batch db.DatabaseBatch) error {
		for _, acc := range staged {
			if err := l.accountStore.StoreInBatch(batch, acc); err != nil {
				return err
			}
		}
		return nil
	})
}

// commitAccountsAndSupply writes staged records and the supply counter in
// the same batch, so a burn or mint can never be half-applied.
func (l *Ledger) commitAccountsAndSupply(staged map[string]*types.Account, newSupply *big.Int) error {
	return l.txManager.WithBatch(func(batch db.DatabaseBatch) error {
		for _, acc := range staged {
			if err := l.accountStore.StoreInBatch(batch, acc); err != nil {
				return err
			}
		}
		l.stateMeta.SetTotalSupplyInBatch(batch, newSupply)
		return nil
	})
}

func (l *Ledger) publish(event events.LedgerEvent) {
	if l.eventBus != nil {
		l.eventBus.Publish(event)
	}
}

func (l *Ledger) reject(op monitoring.OpKind, err error) {
	monitoring.RecordRejectedOp(op, string(errors.CodeOf(err)))
	logx.Debug("LEDGER", fmt.Sprintf("Rejected %s: %v", op, err))
}

func validateAddresses(addrs ...string) error {
	for _, addr := range addrs {
		if addr == "" {
			return errors.NewLedgerError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress)
		}
	}
	return nil
}

func validateAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.NewLedgerError(errors.ErrCodeInvalidAmount, errors.ErrMsgInvalidAmount)
	}
	return nil
}

func internalError(err error) error {
	logx.Error("LEDGER", err.Error())
	return errors.NewLedgerError(errors.ErrCodeInternal, errors.ErrMsgInternal)
}
