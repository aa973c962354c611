package jsonrpc

import (
	"testing"

	"github.com/creachadair/jrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokend/errors"
)

func TestParseAmountParam(t *testing.T) {
	v, err := parseAmountParam("1000")
	require.NoError(t, err)
	assert.Equal(t, "1000", v.String())

	_, err = parseAmountParam("not-a-number")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidAmount))

	_, err = parseAmountParam("-1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidAmount))
}

func TestToJRPC2ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code jrpc2.Code
	}{
		{errors.NewNotAdminError(), -32001},
		{errors.NewInsufficientBalanceError(), -32002},
		{errors.NewUnsafeAllowanceChangeError(), -32003},
		{errors.NewPausedError(), -32004},
		{errors.NewNotAllowedError(), -32005},
		{assert.AnError, -32000},
	}

	for _, tc := range cases {
		mapped := toJRPC2Error(tc.err)
		rpcErr, ok := mapped.(*jrpc2.Error)
		require.True(t, ok, "expected *jrpc2.Error for %v", tc.err)
		assert.Equal(t, tc.code, rpcErr.Code)
	}

	assert.Nil(t, toJRPC2Error(nil))
}
