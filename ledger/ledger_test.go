package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokend/config"
	"tokend/db"
	"tokend/errors"
	"tokend/events"
	"tokend/store"
	"tokend/types"
)

const (
	admin = "admin-address"
	alice = "alice-address"
	bob   = "bob-address"
	carol = "carol-address"
)

type testEnv struct {
	ledger   *Ledger
	provider db.DatabaseProvider
	accounts store.AccountStore
	eventBus *events.EventBus
}

func newTestEnv(t *testing.T, gen *config.GenesisConfig) *testEnv {
	t.Helper()

	provider, accountStore, stateMeta, metadataStore, err := store.CreateStore(&store.StoreConfig{Type: store.MemoryStoreType})
	require.NoError(t, err)

	eventBus := events.NewEventBus()
	l, err := NewLedger(provider, accountStore, stateMeta, metadataStore, eventBus)
	require.NoError(t, err)
	require.NoError(t, l.InitFromGenesis(gen))

	return &testEnv{
		ledger:   l,
		provider: provider,
		accounts: accountStore,
		eventBus: eventBus,
	}
}

func defaultGenesis() *config.GenesisConfig {
	return &config.GenesisConfig{
		Token: types.TokenMetadata{
			Name:     "Test Token",
			Symbol:   "TST",
			Decimals: 6,
		},
		Administrator: admin,
	}
}

func requireBalance(t *testing.T, l *Ledger, addr string, want int64) {
	t.Helper()
	balance, err := l.Balance(addr)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(big.NewInt(want)), "balance of %s: got %s want %d", addr, balance, want)
}

func requireAllowance(t *testing.T, l *Ledger, owner, spender string, want int64) {
	t.Helper()
	allowance, err := l.Allowance(owner, spender)
	require.NoError(t, err)
	assert.Equal(t, 0, allowance.Cmp(big.NewInt(want)), "allowance(%s,%s): got %s want %d", owner, spender, allowance, want)
}

func TestMintTransferBurnScenario(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger

	assert.Equal(t, 0, l.TotalSupply().Sign())

	// Administrator mints the initial balance.
	require.NoError(t, l.Mint(admin, alice, big.NewInt(18)))
	requireBalance(t, l, alice, 18)
	assert.Equal(t, 0, l.TotalSupply().Cmp(big.NewInt(18)))

	// Owner spends their own balance.
	require.NoError(t, l.Transfer(alice, alice, bob, big.NewInt(4)))
	requireBalance(t, l, alice, 14)
	requireBalance(t, l, bob, 4)

	// Owner approves a spender, who then spends part of the allowance.
	require.NoError(t, l.Approve(alice, bob, big.NewInt(5)))
	require.NoError(t, l.Transfer(bob, alice, bob, big.NewInt(4)))
	requireBalance(t, l, alice, 10)
	requireBalance(t, l, bob, 8)
	requireAllowance(t, l, alice, bob, 1)

	// Remaining allowance is too small for another 4.
	err := l.Transfer(bob, alice, bob, big.NewInt(4))
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAllowed))

	// Administrator burns from bob.
	require.NoError(t, l.Burn(admin, bob, big.NewInt(1)))
	requireBalance(t, l, bob, 7)
	assert.Equal(t, 0, l.TotalSupply().Cmp(big.NewInt(17)))

	// Pause blocks ordinary transfers but not the administrator.
	require.NoError(t, l.SetPause(admin, true))
	err = l.Transfer(alice, alice, bob, big.NewInt(4))
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAllowed))
	require.NoError(t, l.Transfer(admin, alice, bob, big.NewInt(4)))
	requireBalance(t, l, alice, 6)
	requireBalance(t, l, bob, 11)
	// Admin transfers never consume allowances.
	requireAllowance(t, l, alice, bob, 1)

	require.NoError(t, l.VerifySupplyInvariant())
}

func TestTransferAuthorization(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger
	require.NoError(t, l.Mint(admin, alice, big.NewInt(100)))

	// A third party without an allowance is rejected.
	err := l.Transfer(carol, alice, bob, big.NewInt(1))
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAllowed))
	requireBalance(t, l, alice, 100)

	// With a sufficient allowance the transfer succeeds and decrements
	// exactly the transferred amount.
	require.NoError(t, l.Approve(alice, carol, big.NewInt(30)))
	require.NoError(t, l.Transfer(carol, alice, bob, big.NewInt(20)))
	requireBalance(t, l, alice, 80)
	requireBalance(t, l, bob, 20)
	requireAllowance(t, l, alice, carol, 10)

	require.NoError(t, l.VerifySupplyInvariant())
}

func TestSelfTransfer(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger
	require.NoError(t, l.Mint(admin, alice, big.NewInt(50)))

	// Self-transfer by the owner leaves the balance unchanged.
	require.NoError(t, l.Transfer(alice, alice, alice, big.NewInt(50)))
	requireBalance(t, l, alice, 50)

	// Self-transfer through a spender still consumes the allowance.
	require.NoError(t, l.Approve(alice, bob, big.NewInt(10)))
	require.NoError(t, l.Transfer(bob, alice, alice, big.NewInt(7)))
	requireBalance(t, l, alice, 50)
	requireAllowance(t, l, alice, bob, 3)

	require.NoError(t, l.VerifySupplyInvariant())
}

func TestTransferInsufficientBalance(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger
	require.NoError(t, l.Mint(admin, alice, big.NewInt(5)))

	err := l.Transfer(alice, alice, bob, big.NewInt(6))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInsufficientBalance))

	// Nothing was applied, and the failed transfer did not materialize
	// the recipient account.
	requireBalance(t, l, alice, 5)
	exists, storeErr := env.accounts.ExistsByAddr(bob)
	require.NoError(t, storeErr)
	assert.False(t, exists)

	require.NoError(t, l.VerifySupplyInvariant())
}

func TestApproveUnsafeAllowanceChange(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger

	require.NoError(t, l.Approve(alice, bob, big.NewInt(5)))

	// Non-zero to non-zero must be rejected.
	err := l.Approve(alice, bob, big.NewInt(3))
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsafeAllowanceChange))
	requireAllowance(t, l, alice, bob, 5)

	// Zeroing first, then setting a new value, is the supported path.
	require.NoError(t, l.Approve(alice, bob, big.NewInt(0)))
	requireAllowance(t, l, alice, bob, 0)
	require.NoError(t, l.Approve(alice, bob, big.NewInt(3)))
	requireAllowance(t, l, alice, bob, 3)
}

func TestApproveBlockedWhilePaused(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger

	require.NoError(t, l.SetPause(admin, true))

	err := l.Approve(alice, bob, big.NewInt(5))
	assert.True(t, errors.IsCode(err, errors.ErrCodePaused))

	// Unlike transfer there is no administrator bypass for approve.
	err = l.Approve(admin, bob, big.NewInt(5))
	assert.True(t, errors.IsCode(err, errors.ErrCodePaused))
}

func TestBurnAuthorizationAndUnderflow(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger
	require.NoError(t, l.Mint(admin, alice, big.NewInt(10)))

	err := l.Burn(alice, alice, big.NewInt(1))
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAdmin))

	// Burning more than the balance fails and leaves the supply counter
	// untouched.
	err = l.Burn(admin, alice, big.NewInt(11))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInsufficientBalance))
	assert.Equal(t, 0, l.TotalSupply().Cmp(big.NewInt(10)))
	requireBalance(t, l, alice, 10)

	require.NoError(t, l.Burn(admin, alice, big.NewInt(10)))
	assert.Equal(t, 0, l.TotalSupply().Sign())
	require.NoError(t, l.VerifySupplyInvariant())
}

func TestMintRequiresAdminByDefault(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger

	err := l.Mint(alice, alice, big.NewInt(10))
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAdmin))
	assert.Equal(t, 0, l.TotalSupply().Sign())
}

func TestMintGateConfigurable(t *testing.T) {
	gen := defaultGenesis()
	open := false
	gen.MintRequiresAdmin = &open
	env := newTestEnv(t, gen)
	l := env.ledger

	// With the gate open the base engine accepts mint from anyone.
	require.NoError(t, l.Mint(alice, alice, big.NewInt(10)))
	requireBalance(t, l, alice, 10)
	require.NoError(t, l.VerifySupplyInvariant())
}

func TestSetAdministrator(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger

	err := l.SetAdministrator(alice, alice)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAdmin))

	require.NoError(t, l.SetAdministrator(admin, alice))
	assert.Equal(t, alice, l.Administrator())

	// The old administrator has no residual privilege.
	err = l.SetPause(admin, true)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAdmin))
	require.NoError(t, l.SetPause(alice, true))
	assert.True(t, l.Paused())
}

func TestPauseToggling(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger
	require.NoError(t, l.Mint(admin, alice, big.NewInt(10)))

	require.NoError(t, l.SetPause(admin, true))
	err := l.Transfer(alice, alice, bob, big.NewInt(1))
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAllowed))

	// Unpausing restores the exact pre-pause behavior.
	require.NoError(t, l.SetPause(admin, false))
	require.NoError(t, l.Transfer(alice, alice, bob, big.NewInt(1)))
	requireBalance(t, l, bob, 1)

	// Setting the current value again is idempotent.
	require.NoError(t, l.SetPause(admin, false))
	assert.False(t, l.Paused())
}

func TestQueriesNeverFailForAbsentAccounts(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger

	balance, err := l.Balance("never-seen")
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())

	allowance, err := l.Allowance("never-seen", "also-never-seen")
	require.NoError(t, err)
	assert.Equal(t, 0, allowance.Sign())

	// Reads must not materialize accounts.
	exists, err := env.accounts.ExistsByAddr("never-seen")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGenesisAllocations(t *testing.T) {
	gen := defaultGenesis()
	gen.Allocations = []config.Allocation{
		{Address: alice, Amount: "1_000"},
		{Address: bob, Amount: "500"},
	}
	env := newTestEnv(t, gen)
	l := env.ledger

	requireBalance(t, l, alice, 1000)
	requireBalance(t, l, bob, 500)
	assert.Equal(t, 0, l.TotalSupply().Cmp(big.NewInt(1500)))
	require.NoError(t, l.VerifySupplyInvariant())
}

func TestRestartRestoresState(t *testing.T) {
	gen := defaultGenesis()
	env := newTestEnv(t, gen)
	l := env.ledger

	require.NoError(t, l.Mint(admin, alice, big.NewInt(42)))
	require.NoError(t, l.SetAdministrator(admin, bob))
	require.NoError(t, l.SetPause(bob, true))

	// A second ledger over the same provider sees the committed state.
	accountStore, err := store.NewGenericAccountStore(env.provider)
	require.NoError(t, err)
	stateMeta := store.NewGenericStateMetaStore(env.provider)
	metadataStore := store.NewGenericMetadataStore(env.provider)

	restarted, err := NewLedger(env.provider, accountStore, stateMeta, metadataStore, events.NewEventBus())
	require.NoError(t, err)
	require.NoError(t, restarted.InitFromGenesis(gen))

	assert.Equal(t, bob, restarted.Administrator())
	assert.True(t, restarted.Paused())
	assert.Equal(t, 0, restarted.TotalSupply().Cmp(big.NewInt(42)))
	requireBalance(t, restarted, alice, 42)
	require.NoError(t, restarted.VerifySupplyInvariant())
}

func TestUpdateMetadata(t *testing.T) {
	gen := defaultGenesis()
	gen.ContractMetadata = map[string]string{"homepage": "https://example.com"}
	env := newTestEnv(t, gen)
	l := env.ledger

	// Disabled by default.
	err := l.UpdateMetadata(admin, "homepage", "https://other.example.com")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAllowed))

	gen.MetadataUpgradable = true
	env = newTestEnv(t, gen)
	l = env.ledger

	err = l.UpdateMetadata(alice, "homepage", "https://other.example.com")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAdmin))

	require.NoError(t, l.UpdateMetadata(admin, "homepage", "https://other.example.com"))
	md, err := l.ContractMetadata()
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com", md["homepage"])

	tokenMD, err := l.TokenMetadata()
	require.NoError(t, err)
	assert.Equal(t, "TST", tokenMD.Symbol)
}

func TestTransferEventPublished(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger
	require.NoError(t, l.Mint(admin, alice, big.NewInt(10)))

	_, ch := env.eventBus.Subscribe()
	require.NoError(t, l.Transfer(alice, alice, bob, big.NewInt(3)))

	event := <-ch
	transfer, ok := event.(*events.TransferApplied)
	require.True(t, ok)
	assert.Equal(t, alice, transfer.From())
	assert.Equal(t, bob, transfer.To())
	assert.Equal(t, 0, transfer.Amount().Cmp(big.NewInt(3)))
}

func TestValidationErrors(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger

	err := l.Transfer("", alice, bob, big.NewInt(1))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidAddress))

	err = l.Transfer(alice, alice, bob, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidAmount))

	err = l.Mint(admin, alice, big.NewInt(-1))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidAmount))
}
