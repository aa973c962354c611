package jsonrpc

import (
	stderrors "errors"
	"math/big"

	"tokend/errors"
	"tokend/utils"
)

// parseAmountParam converts a wire amount string into the ledger's
// arbitrary-precision representation. Negative, malformed and empty
// values are rejected before the ledger ever sees them.
func parseAmountParam(raw string) (*big.Int, error) {
	amount, err := utils.AmountFromString(raw)
	if err != nil {
		return nil, errors.NewLedgerError(errors.ErrCodeInvalidAmount, errors.ErrMsgInvalidAmount)
	}
	return amount, nil
}

// messageOf extracts the human-readable message from a ledger error,
// falling back to the raw error text.
func messageOf(err error) string {
	var le *errors.LedgerError
	if stderrors.As(err, &le) {
		return le.Message
	}
	return err.Error()
}
