package ledger

import (
	"fmt"
	"math/big"

	"tokend/store"
	"tokend/types"
	"tokend/utils"
)

// AccountLedger owns the sparse account mapping. An unknown identity is
// an implicit zero-balance, zero-approval account: reads treat it as such
// without writing anything, mutating operations materialize it.
type AccountLedger struct {
	accountStore store.AccountStore
}

func NewAccountLedger(accountStore store.AccountStore) *AccountLedger {
	return &AccountLedger{accountStore: accountStore}
}

// Ensure idempotently materializes a zero account record for addr.
// Calling it twice leaves the same state as calling it once.
func (al *AccountLedger) Ensure(addr string) error {
	existed, err := al.accountStore.ExistsByAddr(addr)
	if err != nil {
		return fmt.Errorf("could not check existence of account: %w", err)
	}
	if existed {
		return nil
	}
	if err := al.accountStore.Store(types.NewAccount(addr)); err != nil {
		return fmt.Errorf("could not materialize account %s: %w", addr, err)
	}
	return nil
}

// loadOrNew returns a mutable deep copy of the account record, or a fresh
// zero record when addr has never been written. Nothing is persisted; the
// caller stages the copy and commits or discards it.
func (al *AccountLedger) loadOrNew(addr string) (*types.Account, error) {
	acc, err := al.accountStore.GetByAddr(addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return types.NewAccount(addr), nil
	}
	return acc.Clone(), nil
}

// GetBalance returns the stored balance, zero if the account was never
// materialized. Pure read, never mutates.
func (al *AccountLedger) GetBalance(addr string) (*big.Int, error) {
	acc, err := al.accountStore.GetByAddr(addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return new(big.Int), nil
	}
	return utils.CloneAmount(acc.Balance), nil
}

// GetAllowance returns the approved amount for (owner, spender), zero if
// the owner is absent or has no approval recorded. Pure read.
func (al *AccountLedger) GetAllowance(owner, spender string) (*big.Int, error) {
	acc, err := al.accountStore.GetByAddr(owner)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return new(big.Int), nil
	}
	return utils.CloneAmount(acc.ApprovalFor(spender)), nil
}
