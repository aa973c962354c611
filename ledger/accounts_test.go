package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokend/db"
	"tokend/store"
	"tokend/types"
)

func newAccountLedger(t *testing.T) (*AccountLedger, store.AccountStore) {
	t.Helper()
	accountStore, err := store.NewGenericAccountStore(db.NewMemoryProvider())
	require.NoError(t, err)
	return NewAccountLedger(accountStore), accountStore
}

func TestEnsureIsIdempotent(t *testing.T) {
	al, accountStore := newAccountLedger(t)

	require.NoError(t, al.Ensure(alice))
	require.NoError(t, al.Ensure(alice))

	acc, err := accountStore.GetByAddr(alice)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, 0, acc.Balance.Sign())
	assert.Empty(t, acc.Approvals)
}

func TestEnsureKeepsExistingState(t *testing.T) {
	al, accountStore := newAccountLedger(t)

	acc := types.NewAccount(alice)
	acc.Balance = big.NewInt(25)
	acc.SetApproval(bob, big.NewInt(5))
	require.NoError(t, accountStore.Store(acc))

	// Ensure on a materialized account must not reset anything.
	require.NoError(t, al.Ensure(alice))
	balance, err := al.GetBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(big.NewInt(25)))
	allowance, err := al.GetAllowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, 0, allowance.Cmp(big.NewInt(5)))
}

func TestReadsReturnDetachedCopies(t *testing.T) {
	al, accountStore := newAccountLedger(t)

	acc := types.NewAccount(alice)
	acc.Balance = big.NewInt(10)
	require.NoError(t, accountStore.Store(acc))

	balance, err := al.GetBalance(alice)
	require.NoError(t, err)
	balance.SetInt64(999)

	reread, err := al.GetBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, 0, reread.Cmp(big.NewInt(10)))
}

func TestLoadOrNewDoesNotPersist(t *testing.T) {
	al, accountStore := newAccountLedger(t)

	staged, err := al.loadOrNew(alice)
	require.NoError(t, err)
	staged.Balance = big.NewInt(100)

	exists, err := accountStore.ExistsByAddr(alice)
	require.NoError(t, err)
	assert.False(t, exists)
}
