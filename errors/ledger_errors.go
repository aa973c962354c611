package errors

import (
	"errors"

	"tokend/jsonx"
)

// LedgerErrorCode represents standardized error codes for ledger operations
type LedgerErrorCode string

const (
	// General errors
	ErrCodeInternal LedgerErrorCode = "internal_error"

	// Validation errors
	ErrCodeInvalidRequest LedgerErrorCode = "invalid_request"
	ErrCodeInvalidAddress LedgerErrorCode = "invalid_address"
	ErrCodeInvalidAmount  LedgerErrorCode = "invalid_amount"

	// State transition errors. Every one of these is terminal for the
	// operation that raised it: state is left exactly as it was.
	ErrCodeNotAdmin              LedgerErrorCode = "not_admin"
	ErrCodeInsufficientBalance   LedgerErrorCode = "insufficient_balance"
	ErrCodeUnsafeAllowanceChange LedgerErrorCode = "unsafe_allowance_change"
	ErrCodePaused                LedgerErrorCode = "paused"
	ErrCodeNotAllowed            LedgerErrorCode = "not_allowed"
)

// LedgerError represents a standardized ledger error
type LedgerError struct {
	Code    LedgerErrorCode `json:"code"`
	Message string          `json:"message"`
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	err, _ := jsonx.Marshal(LedgerError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// Error message constants - user-friendly and concise
const (
	ErrMsgInternal              = "Internal node error"
	ErrMsgInvalidRequest        = "Request format is invalid"
	ErrMsgInvalidAddress        = "Account address is invalid"
	ErrMsgInvalidAmount         = "Amount is invalid"
	ErrMsgNotAdmin              = "Caller is not the administrator"
	ErrMsgInsufficientBalance   = "Not enough balance for the requested debit"
	ErrMsgUnsafeAllowanceChange = "Allowance must be zeroed before setting a new non-zero value"
	ErrMsgPaused                = "Ledger is paused"
	ErrMsgNotAllowed            = "Caller is not allowed to move these funds"
)

// NewLedgerError creates a new LedgerError with the given code and message
func NewLedgerError(code LedgerErrorCode, message string) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
	}
}

func NewNotAdminError() *LedgerError {
	return NewLedgerError(ErrCodeNotAdmin, ErrMsgNotAdmin)
}

func NewInsufficientBalanceError() *LedgerError {
	return NewLedgerError(ErrCodeInsufficientBalance, ErrMsgInsufficientBalance)
}

func NewUnsafeAllowanceChangeError() *LedgerError {
	return NewLedgerError(ErrCodeUnsafeAllowanceChange, ErrMsgUnsafeAllowanceChange)
}

func NewPausedError() *LedgerError {
	return NewLedgerError(ErrCodePaused, ErrMsgPaused)
}

func NewNotAllowedError() *LedgerError {
	return NewLedgerError(ErrCodeNotAllowed, ErrMsgNotAllowed)
}

// CodeOf extracts the ledger error code from err, ErrCodeInternal if err
// carries no code.
func CodeOf(err error) LedgerErrorCode {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err is a LedgerError with the given code.
func IsCode(err error, code LedgerErrorCode) bool {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}
