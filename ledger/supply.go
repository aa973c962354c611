package ledger

import (
	"math/big"

	"tokend/errors"
	"tokend/types"
)

// SupplyController implements mint and burn over staged account copies,
// keeping the total-supply counter consistent with the sum of balances.
type SupplyController struct {
	policy *AuthorizationPolicy
}

func NewSupplyController(policy *AuthorizationPolicy) *SupplyController {
	return &SupplyController{policy: policy}
}

// Mint credits amount to the staged target record and returns the new
// total supply. The base engine carries no authorization of its own; the
// assembled ledger decides who may mint (admin-only in the standard
// configuration). A zero amount is a valid no-op mint.
func (sc *SupplyController) Mint(target *types.Account, supply, amount *big.Int) *big.Int {
	target.Balance.Add(target.Balance, amount)
	return new(big.Int).Add(supply, amount)
}

// Burn debits amount from the staged target record and returns the new
// total supply. Only the administrator may burn, and the target balance
// must cover the amount so neither the balance nor the supply counter can
// go negative.
func (sc *SupplyController) Burn(caller string, target *types.Account, supply, amount *big.Int) (*big.Int, error) {
	if !sc.policy.IsAdministrator(caller) {
		return nil, errors.NewNotAdminError()
	}
	if target.Balance.Cmp(amount) < 0 {
		return nil, errors.NewInsufficientBalanceError()
	}
	target.Balance.Sub(target.Balance, amount)
	return new(big.Int).Sub(supply, amount), nil
}
