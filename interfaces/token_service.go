package interfaces

import (
	"math/big"

	"tokend/types"
)

// TokenService is the surface the transport layer programs against; the
// ledger dispatcher implements it. Caller identities arrive as opaque
// strings — authenticating them is the hosting environment's job.
type TokenService interface {
	Transfer(caller, from, to string, amount *big.Int) error
	Approve(caller, spender string, amount *big.Int) error
	Mint(caller, address string, amount *big.Int) error
	Burn(caller, address string, amount *big.Int) error
	SetAdministrator(caller, newAdmin string) error
	SetPause(caller string, paused bool) error
	UpdateMetadata(caller, key, value string) error

	Balance(addr string) (*big.Int, error)
	Allowance(owner, spender string) (*big.Int, error)
	TotalSupply() *big.Int
	Administrator() string
	Paused() bool
	TokenMetadata() (*types.TokenMetadata, error)
	ContractMetadata() (types.ContractMetadata, error)
}
