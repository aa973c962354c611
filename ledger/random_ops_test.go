package ledger

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"tokend/errors"
)

// opSeed is what the fuzzer fills in for each randomized operation.
type opSeed struct {
	Kind   uint8
	Caller uint8
	From   uint8
	To     uint8
	Amount uint16
}

// TestRandomizedOperationsKeepInvariants drives the ledger with a long
// random sequence of transfers, approvals, mints, burns and pause flips
// and checks after every step that the supply counter still equals the
// sum of all balances and that no balance went negative. Failed
// operations must leave the state exactly as it was.
func TestRandomizedOperationsKeepInvariants(t *testing.T) {
	env := newTestEnv(t, defaultGenesis())
	l := env.ledger

	actors := []string{admin, alice, bob, carol}
	fuzzer := fuzz.NewWithSeed(1)

	for i := 0; i < 2000; i++ {
		var seed opSeed
		fuzzer.Fuzz(&seed)

		caller := actors[int(seed.Caller)%len(actors)]
		from := actors[int(seed.From)%len(actors)]
		to := actors[int(seed.To)%len(actors)]
		amount := big.NewInt(int64(seed.Amount % 1000))

		var err error
		switch seed.Kind % 6 {
		case 0:
			err = l.Transfer(caller, from, to, amount)
		case 1:
			err = l.Approve(caller, to, amount)
		case 2:
			err = l.Mint(caller, to, amount)
		case 3:
			err = l.Burn(caller, from, amount)
		case 4:
			err = l.SetPause(caller, seed.Amount%2 == 0)
		case 5:
			_, err = l.Balance(from)
		}
		if err != nil {
			code := errors.CodeOf(err)
			require.NotEqual(t, errors.ErrCodeInternal, code, "op %d: unexpected internal error: %v", i, err)
		}

		require.NoError(t, l.VerifySupplyInvariant(), "op %d", i)
	}

	// The final balances of every actor sum to the supply counter; no
	// other account can have been touched.
	total := new(big.Int)
	for _, addr := range actors {
		balance, err := l.Balance(addr)
		require.NoError(t, err)
		require.True(t, balance.Sign() >= 0, "negative balance for %s", addr)
		total.Add(total, balance)
	}
	require.Equal(t, 0, total.Cmp(l.TotalSupply()))
}
