package store

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokend/db"
	"tokend/types"
)

func newTestAccountStore(t *testing.T) AccountStore {
	t.Helper()
	accountStore, err := NewGenericAccountStore(db.NewMemoryProvider())
	require.NoError(t, err)
	return accountStore
}

func TestAccountStoreRoundTrip(t *testing.T) {
	accountStore := newTestAccountStore(t)

	acc := types.NewAccount("alice")
	acc.Balance = big.NewInt(1234)
	acc.SetApproval("bob", big.NewInt(50))
	acc.SetApproval("carol", big.NewInt(7))
	require.NoError(t, accountStore.Store(acc))

	got, err := accountStore.GetByAddr("alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Address)
	assert.Equal(t, 0, got.Balance.Cmp(big.NewInt(1234)))
	assert.Equal(t, 0, got.ApprovalFor("bob").Cmp(big.NewInt(50)))
	assert.Equal(t, 0, got.ApprovalFor("carol").Cmp(big.NewInt(7)))
	assert.Equal(t, 0, got.ApprovalFor("nobody").Sign())
}

func TestAccountStoreMissingAccount(t *testing.T) {
	accountStore := newTestAccountStore(t)

	got, err := accountStore.GetByAddr("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := accountStore.ExistsByAddr("missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAccountStoreGetBatch(t *testing.T) {
	accountStore := newTestAccountStore(t)

	for _, addr := range []string{"alice", "bob"} {
		require.NoError(t, accountStore.Store(types.NewAccount(addr)))
	}

	got, err := accountStore.GetBatch([]string{"alice", "bob", "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NotNil(t, got["alice"])
	assert.NotNil(t, got["bob"])
}

func TestAccountStoreIterateAndCount(t *testing.T) {
	accountStore := newTestAccountStore(t)

	for _, addr := range []string{"a", "b", "c"} {
		acc := types.NewAccount(addr)
		acc.Balance = big.NewInt(1)
		require.NoError(t, accountStore.Store(acc))
	}

	count, err := accountStore.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	sum := new(big.Int)
	err = accountStore.IterateAll(func(acc *types.Account) bool {
		sum.Add(sum, acc.Balance)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Cmp(big.NewInt(3)))
}

func TestAccountStoreBatchCommit(t *testing.T) {
	provider := db.NewMemoryProvider()
	accountStore, err := NewGenericAccountStore(provider)
	require.NoError(t, err)

	batch := provider.Batch()
	acc := types.NewAccount("alice")
	acc.Balance = big.NewInt(9)
	require.NoError(t, accountStore.StoreInBatch(batch, acc))

	exists, err := accountStore.ExistsByAddr("alice")
	require.NoError(t, err)
	assert.False(t, exists, "staged account must not be visible before Write")

	require.NoError(t, batch.Write())
	got, err := accountStore.GetByAddr("alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Balance.Cmp(big.NewInt(9)))
}

func TestStateMetaStoreRoundTrip(t *testing.T) {
	stateMeta := NewGenericStateMetaStore(db.NewMemoryProvider())

	_, ok, err := stateMeta.GetTotalSupply()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, stateMeta.SetTotalSupply(big.NewInt(100)))
	supply, ok, err := stateMeta.GetTotalSupply()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, supply.Cmp(big.NewInt(100)))

	require.NoError(t, stateMeta.SetAdministrator("admin"))
	adminAddr, ok, err := stateMeta.GetAdministrator()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "admin", adminAddr)

	require.NoError(t, stateMeta.SetPaused(true))
	paused, ok, err := stateMeta.GetPaused()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, paused)

	initialized, err := stateMeta.IsInitialized()
	require.NoError(t, err)
	assert.False(t, initialized)
	require.NoError(t, stateMeta.MarkInitialized())
	initialized, err = stateMeta.IsInitialized()
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestMetadataStoreRoundTrip(t *testing.T) {
	metadataStore := NewGenericMetadataStore(db.NewMemoryProvider())

	_, ok, err := metadataStore.GetTokenMetadata()
	require.NoError(t, err)
	assert.False(t, ok)

	token := &types.TokenMetadata{Name: "Test Token", Symbol: "TST", Decimals: 8, URI: "ipfs://meta"}
	require.NoError(t, metadataStore.SetTokenMetadata(token))
	got, ok, err := metadataStore.GetTokenMetadata()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, token, got)

	contract := types.ContractMetadata{"homepage": "https://example.com"}
	require.NoError(t, metadataStore.SetContractMetadata(contract))
	gotContract, ok, err := metadataStore.GetContractMetadata()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, contract, gotContract)
}

func TestStoreConfigValidate(t *testing.T) {
	assert.NoError(t, (&StoreConfig{Type: MemoryStoreType}).Validate())
	assert.Error(t, (&StoreConfig{Type: LevelDBStoreType}).Validate(), "file-backed stores need a directory")
	assert.Error(t, (&StoreConfig{Type: "cassandra"}).Validate())
}

func TestCreateStoreLevelDB(t *testing.T) {
	provider, accountStore, stateMeta, metadataStore, err := CreateStore(&StoreConfig{
		Type:      LevelDBStoreType,
		Directory: t.TempDir(),
	})
	require.NoError(t, err)
	defer func() { _ = provider.Close() }()

	require.NoError(t, accountStore.Store(types.NewAccount("alice")))
	require.NoError(t, stateMeta.SetTotalSupply(big.NewInt(0)))
	require.NoError(t, metadataStore.SetTokenMetadata(&types.TokenMetadata{Symbol: "TST"}))

	exists, err := accountStore.ExistsByAddr("alice")
	require.NoError(t, err)
	assert.True(t, exists)
}
