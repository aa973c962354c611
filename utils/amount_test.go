package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountFromString(t *testing.T) {
	v, err := AmountFromString("1_000_000")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Cmp(big.NewInt(1000000)))

	v, err = AmountFromString(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Cmp(big.NewInt(42)))

	// Values beyond 64 bits parse fine.
	huge, err := AmountFromString("123456789012345678901234567890")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", huge.String())

	for _, bad := range []string{"", "abc", "-5", "1.5"} {
		_, err := AmountFromString(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestAmountToString(t *testing.T) {
	assert.Equal(t, "0", AmountToString(nil))
	assert.Equal(t, "0", AmountToString(new(big.Int)))
	assert.Equal(t, "17", AmountToString(big.NewInt(17)))
}

func TestCloneAmount(t *testing.T) {
	original := big.NewInt(10)
	clone := CloneAmount(original)
	clone.SetInt64(99)
	assert.Equal(t, 0, original.Cmp(big.NewInt(10)))

	assert.Equal(t, 0, CloneAmount(nil).Sign())
}
