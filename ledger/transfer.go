package ledger

import (
	"math/big"

	"tokend/errors"
	"tokend/types"
)

// TransferEngine implements the transfer and approve state transitions.
// It mutates staged account copies only; the dispatcher decides whether
// the staged state is committed or discarded, so a failure partway never
// leaks into the stored ledger.
type TransferEngine struct {
	policy *AuthorizationPolicy
}

func NewTransferEngine(policy *AuthorizationPolicy) *TransferEngine {
	return &TransferEngine{policy: policy}
}

// authorizeTransfer applies the ordered precondition list: the
// administrator bypass comes first so admin transfers keep working while
// paused, then the ordinary owner and approved-spender paths.
func (te *TransferEngine) authorizeTransfer(caller string, from *types.Account, amount *big.Int) error {
	if te.policy.IsAdministrator(caller) {
		return nil
	}
	if te.policy.IsPaused() {
		return errors.NewNotAllowedError()
	}
	if caller == from.Address {
		return nil
	}
	if from.ApprovalFor(caller).Cmp(amount) >= 0 {
		return nil
	}
	return errors.NewNotAllowedError()
}

// Transfer moves amount from the staged `from` record to the staged `to`
// record. For a self-transfer both parameters alias the same record and
// the net balance is unchanged, but authorization and the allowance
// decrement still apply.
func (te *TransferEngine) Transfer(caller string, from, to *types.Account, amount *big.Int) error {
	if err := te.authorizeTransfer(caller, from, amount); err != nil {
		return err
	}

	if from.Balance.Cmp(amount) < 0 {
		return errors.NewInsufficientBalanceError()
	}
	from.Balance.Sub(from.Balance, amount)
	to.Balance.Add(to.Balance, amount)

	// A third-party caller spends their allowance from the owner. The
	// authorization check already guarantees it is sufficient, but the
	// decrement must still never underflow.
	if caller != from.Address && !te.policy.IsAdministrator(caller) {
		current := from.ApprovalFor(caller)
		if current.Cmp(amount) < 0 {
			return errors.NewInsufficientBalanceError()
		}
		from.SetApproval(caller, new(big.Int).Sub(current, amount))
	}
	return nil
}

// Approve records a new allowance from the staged owner record to
// spender. Approvals are blocked entirely while paused; there is no
// administrator bypass here, unlike transfer.
//
// A non-zero allowance may not be changed directly to another non-zero
// value: a spender watching the mempool could otherwise spend the old
// allowance ahead of the update and the new one after it. Owners must
// zero the allowance first.
func (te *TransferEngine) Approve(owner *types.Account, spender string, amount *big.Int) error {
	if te.policy.IsPaused() {
		return errors.NewPausedError()
	}

	alreadyApproved := owner.ApprovalFor(spender)
	if alreadyApproved.Sign() != 0 && amount.Sign() != 0 {
		return errors.NewUnsafeAllowanceChangeError()
	}
	owner.SetApproval(spender, amount)
	return nil
}
