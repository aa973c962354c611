package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// AmountToString formats an amount for storage and wire use. Nil is
// treated as zero.
func AmountToString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// AmountFromString parses a base-10 amount. Underscore separators are
// accepted for readability ("1_000_000"). Negative and malformed values
// are rejected.
func AmountFromString(s string) (*big.Int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if cleaned == "" {
		return nil, fmt.Errorf("empty amount")
	}
	v, ok := new(big.Int).SetString(cleaned, 10)
	if !ok {
		return nil, fmt.Errorf("could not parse amount %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("amount %q is negative", s)
	}
	return v, nil
}

// CloneAmount copies v, mapping nil to zero.
func CloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
