package events

import (
	"math/big"
	"time"

	"tokend/utils"
)

// EventType is an enum-like string type for ledger events
type EventType string

const (
	EventTransferApplied      EventType = "TransferApplied"
	EventAllowanceSet         EventType = "AllowanceSet"
	EventSupplyMinted         EventType = "SupplyMinted"
	EventSupplyBurned         EventType = "SupplyBurned"
	EventPauseChanged         EventType = "PauseChanged"
	EventAdministratorChanged EventType = "AdministratorChanged"
)

// LedgerEvent represents any state change applied to the ledger
type LedgerEvent interface {
	Type() EventType
	Timestamp() time.Time
	// Address returns the account the event is primarily about, so
	// subscribers can filter on it
	Address() string
}

// TransferApplied event when a transfer has been committed
type TransferApplied struct {
	caller    string
	from      string
	to        string
	amount    *big.Int
	timestamp time.Time
}

func NewTransferApplied(caller, from, to string, amount *big.Int) *TransferApplied {
	return &TransferApplied{
		caller:    caller,
		from:      from,
		to:        to,
		amount:    utils.CloneAmount(amount),
		timestamp: time.Now(),
	}
}

func (e *TransferApplied) Type() EventType      { return EventTransferApplied }
func (e *TransferApplied) Timestamp() time.Time { return e.timestamp }
func (e *TransferApplied) Address() string      { return e.from }
func (e *TransferApplied) Caller() string       { return e.caller }
func (e *TransferApplied) From() string         { return e.from }
func (e *TransferApplied) To() string           { return e.to }
func (e *TransferApplied) Amount() *big.Int     { return e.amount }

// AllowanceSet event when an approval has been committed
type AllowanceSet struct {
	owner     string
	spender   string
	amount    *big.Int
	timestamp time.Time
}

func NewAllowanceSet(owner, spender string, amount *big.Int) *AllowanceSet {
	return &AllowanceSet{
		owner:     owner,
		spender:   spender,
		amount:    utils.CloneAmount(amount),
		timestamp: time.Now(),
	}
}

func (e *AllowanceSet) Type() EventType      { return EventAllowanceSet }
func (e *AllowanceSet) Timestamp() time.Time { return e.timestamp }
func (e *AllowanceSet) Address() string      { return e.owner }
func (e *AllowanceSet) Owner() string        { return e.owner }
func (e *AllowanceSet) Spender() string      { return e.spender }
func (e *AllowanceSet) Amount() *big.Int     { return e.amount }

// SupplyMinted event when new supply has been credited to an account
type SupplyMinted struct {
	address   string
	amount    *big.Int
	newSupply *big.Int
	timestamp time.Time
}

func NewSupplyMinted(address string, amount, newSupply *big.Int) *SupplyMinted {
	return &SupplyMinted{
		address:   address,
		amount:    utils.CloneAmount(amount),
		newSupply: utils.CloneAmount(newSupply),
		timestamp: time.Now(),
	}
}

func (e *SupplyMinted) Type() EventType      { return EventSupplyMinted }
func (e *SupplyMinted) Timestamp() time.Time { return e.timestamp }
func (e *SupplyMinted) Address() string      { return e.address }
func (e *SupplyMinted) Amount() *big.Int     { return e.amount }
func (e *SupplyMinted) NewSupply() *big.Int  { return e.newSupply }

// SupplyBurned event when supply has been debited from an account
type SupplyBurned struct {
	address   string
	amount    *big.Int
	newSupply *big.Int
	timestamp time.Time
}

func NewSupplyBurned(address string, amount, newSupply *big.Int) *SupplyBurned {
	return &SupplyBurned{
		address:   address,
		amount:    utils.CloneAmount(amount),
		newSupply: utils.CloneAmount(newSupply),
		timestamp: time.Now(),
	}
}

func (e *SupplyBurned) Type() EventType      { return EventSupplyBurned }
func (e *SupplyBurned) Timestamp() time.Time { return e.timestamp }
func (e *SupplyBurned) Address() string      { return e.address }
func (e *SupplyBurned) Amount() *big.Int     { return e.amount }
func (e *SupplyBurned) NewSupply() *big.Int  { return e.newSupply }

// PauseChanged event when the paused flag has been toggled
type PauseChanged struct {
	caller    string
	paused    bool
	timestamp time.Time
}

func NewPauseChanged(caller string, paused bool) *PauseChanged {
	return &PauseChanged{
		caller:    caller,
		paused:    paused,
		timestamp: time.Now(),
	}
}

func (e *PauseChanged) Type() EventType      { return EventPauseChanged }
func (e *PauseChanged) Timestamp() time.Time { return e.timestamp }
func (e *PauseChanged) Address() string      { return e.caller }
func (e *PauseChanged) Paused() bool         { return e.paused }

// AdministratorChanged event when the administrator has been replaced
type AdministratorChanged struct {
	previous  string
	current   string
	timestamp time.Time
}

func NewAdministratorChanged(previous, current string) *AdministratorChanged {
	return &AdministratorChanged{
		previous:  previous,
		current:   current,
		timestamp: time.Now(),
	}
}

func (e *AdministratorChanged) Type() EventType      { return EventAdministratorChanged }
func (e *AdministratorChanged) Timestamp() time.Time { return e.timestamp }
func (e *AdministratorChanged) Address() string      { return e.current }
func (e *AdministratorChanged) Previous() string     { return e.previous }
func (e *AdministratorChanged) Current() string      { return e.current }
