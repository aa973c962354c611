package types

import (
	"math/big"
)

// Account is the per-identity ledger record. Balance and all approval
// amounts are non-negative; a missing approvals entry means zero.
type Account struct {
	Address   string              `json:"address"`
	Balance   *big.Int            `json:"balance"`
	Approvals map[string]*big.Int `json:"approvals,omitempty"`
}

// NewAccount returns a zero-balance account with no approvals.
func NewAccount(addr string) *Account {
	return &Account{
		Address:   addr,
		Balance:   new(big.Int),
		Approvals: make(map[string]*big.Int),
	}
}

// ApprovalFor returns the approved amount for spender, zero if absent.
// The returned value must not be mutated by the caller.
func (a *Account) ApprovalFor(spender string) *big.Int {
	if a.Approvals == nil {
		return new(big.Int)
	}
	if v, ok := a.Approvals[spender]; ok && v != nil {
		return v
	}
	return new(big.Int)
}

// SetApproval records the approved amount for spender. A zero amount
// removes the entry so absence and explicit zero stay query-equivalent.
func (a *Account) SetApproval(spender string, amount *big.Int) {
	if a.Approvals == nil {
		a.Approvals = make(map[string]*big.Int)
	}
	if amount.Sign() == 0 {
		delete(a.Approvals, spender)
		return
	}
	a.Approvals[spender] = new(big.Int).Set(amount)
}

// Clone returns a deep copy so callers can mutate freely and commit or
// discard without touching the stored record.
func (a *Account) Clone() *Account {
	cp := &Account{
		Address: a.Address,
		Balance: new(big.Int),
	}
	if a.Balance != nil {
		cp.Balance.Set(a.Balance)
	}
	if len(a.Approvals) > 0 {
		cp.Approvals = make(map[string]*big.Int, len(a.Approvals))
		for spender, v := range a.Approvals {
			cp.Approvals[spender] = new(big.Int).Set(v)
		}
	} else {
		cp.Approvals = make(map[string]*big.Int)
	}
	return cp
}
