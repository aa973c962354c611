package store

import (
	"fmt"
	"sync"

	"tokend/db"
	"tokend/jsonx"
	"tokend/logx"
	"tokend/types"
	"tokend/utils"
)

type AccountStore interface {
	Store(account *types.Account) error
	StoreBatch(accounts []*types.Account) error
	StoreInBatch(batch db.DatabaseBatch, accounts ...*types.Account) error
	GetByAddr(addr string) (*types.Account, error)
	GetBatch(addrs []string) (map[string]*types.Account, error)
	ExistsByAddr(addr string) (bool, error)
	IterateAll(fn func(account *types.Account) bool) error
	Count() (int, error)
	MustClose()
}

// storedAccount is the on-disk shape. Amounts travel as base-10 strings
// so arbitrary-precision values round-trip exactly.
type storedAccount struct {
	Address   string            `json:"address"`
	Balance   string            `json:"balance"`
	Approvals map[string]string `json:"approvals,omitempty"`
}

func encodeAccount(account *types.Account) ([]byte, error) {
	stored := storedAccount{
		Address: account.Address,
		Balance: utils.AmountToString(account.Balance),
	}
	if len(account.Approvals) > 0 {
		stored.Approvals = make(map[string]string, len(account.Approvals))
		for spender, amount := range account.Approvals {
			stored.Approvals[spender] = utils.AmountToString(amount)
		}
	}
	data, err := jsonx.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account %s: %w", account.Address, err)
	}
	return data, nil
}

func decodeAccount(data []byte) (*types.Account, error) {
	var stored storedAccount
	if err := jsonx.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	account := types.NewAccount(stored.Address)
	balance, err := utils.AmountFromString(stored.Balance)
	if err != nil {
		return nil, fmt.Errorf("corrupt balance for account %s: %w", stored.Address, err)
	}
	account.Balance = balance

	for spender, raw := range stored.Approvals {
		amount, err := utils.AmountFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt approval %s for account %s: %w", spender, stored.Address, err)
		}
		account.SetApproval(spender, amount)
	}
	return account, nil
}

type GenericAccountStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericAccountStore(dbProvider db.DatabaseProvider) (*GenericAccountStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericAccountStore{
		dbProvider: dbProvider,
	}, nil
}

func (as *GenericAccountStore) Store(account *types.Account) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	data, err := encodeAccount(account)
	if err != nil {
		return err
	}

	if err := as.dbProvider.Put(as.getDbKey(account.Address), data); err != nil {
		return fmt.Errorf("failed to write account to db: %w", err)
	}

	return nil
}

func (as *GenericAccountStore) StoreBatch(accounts []*types.Account) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	batch := as.dbProvider.Batch()
	defer batch.Close()
	for _, account := range accounts {
		data, err := encodeAccount(account)
		if err != nil {
			return err
		}
		batch.Put(as.getDbKey(account.Address), data)
	}

	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write batch of accounts to database: %w", err)
	}

	return nil
}

// StoreInBatch stages account writes into a caller-owned batch so they
// can be committed atomically alongside state-meta updates.
func (as *GenericAccountStore) StoreInBatch(batch db.DatabaseBatch, accounts ...*types.Account) error {
	for _, account := range accounts {
		data, err := encodeAccount(account)
		if err != nil {
			return err
		}
		batch.Put(as.getDbKey(account.Address), data)
	}
	return nil
}

// GetByAddr returns account instance from db, return both nil if not exist
func (as *GenericAccountStore) GetByAddr(addr string) (*types.Account, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	data, err := as.dbProvider.Get(as.getDbKey(addr))
	if err != nil {
		return nil, fmt.Errorf("could not get account %s from db: %w", addr, err)
	}

	// Account doesn't exist
	if data == nil {
		return nil, nil
	}

	return decodeAccount(data)
}

// GetBatch returns accounts for addrs; absent addresses are simply missing
// from the result map
func (as *GenericAccountStore) GetBatch(addrs []string) (map[string]*types.Account, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	keys := make([][]byte, len(addrs))
	for i, addr := range addrs {
		keys[i] = as.getDbKey(addr)
	}

	raw, err := as.dbProvider.GetBatch(keys)
	if err != nil {
		return nil, fmt.Errorf("could not get accounts from db: %w", err)
	}

	result := make(map[string]*types.Account, len(raw))
	for _, data := range raw {
		account, err := decodeAccount(data)
		if err != nil {
			return nil, err
		}
		result[account.Address] = account
	}
	return result, nil
}

func (as *GenericAccountStore) ExistsByAddr(addr string) (bool, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	return as.dbProvider.Has(as.getDbKey(addr))
}

// IterateAll walks every materialized account. The callback returns false
// to stop early.
func (as *GenericAccountStore) IterateAll(fn func(account *types.Account) bool) error {
	as.mu.RLock()
	defer as.mu.RUnlock()

	iterable, ok := as.dbProvider.(db.IterableProvider)
	if !ok {
		return fmt.Errorf("provider does not support iteration")
	}

	var decodeErr error
	err := iterable.IteratePrefix([]byte(PrefixAccount), func(key, value []byte) bool {
		account, err := decodeAccount(value)
		if err != nil {
			decodeErr = err
			return false
		}
		return fn(account)
	})
	if err != nil {
		return err
	}
	return decodeErr
}

// Count returns the number of materialized accounts
func (as *GenericAccountStore) Count() (int, error) {
	count := 0
	err := as.IterateAll(func(*types.Account) bool {
		count++
		return true
	})
	return count, err
}

func (as *GenericAccountStore) MustClose() {
	if err := as.dbProvider.Close(); err != nil {
		logx.Error("ACCOUNT STORE", "failed to close provider: ", err)
	}
}

func (as *GenericAccountStore) getDbKey(addr string) []byte {
	return []byte(PrefixAccount + addr)
}
