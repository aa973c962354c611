package store

import (
	"fmt"
	"math/big"

	"tokend/db"
	"tokend/utils"
)

// StateMetaStore persists the aggregate ledger record that sits next to
// the account mapping: the total-supply counter, the administrator
// identity and the paused flag.
//
// Keys:
// - PrefixStateMeta + "total_supply"  => base-10 amount string
// - PrefixStateMeta + "administrator" => address string
// - PrefixStateMeta + "paused"        => "1" / "0"
// - PrefixStateMeta + "initialized"   => "1" once genesis has been applied

type StateMetaStore interface {
	SetTotalSupply(supply *big.Int) error
	SetTotalSupplyInBatch(batch db.DatabaseBatch, supply *big.Int)
	GetTotalSupply() (*big.Int, bool, error)

	SetAdministrator(addr string) error
	SetAdministratorInBatch(batch db.DatabaseBatch, addr string)
	GetAdministrator() (string, bool, error)

	SetPaused(paused bool) error
	SetPausedInBatch(batch db.DatabaseBatch, paused bool)
	GetPaused() (bool, bool, error)

	MarkInitialized() error
	IsInitialized() (bool, error)
}

type GenericStateMetaStore struct {
	provider db.DatabaseProvider
}

func NewGenericStateMetaStore(provider db.DatabaseProvider) *GenericStateMetaStore {
	return &GenericStateMetaStore{provider: provider}
}

func (s *GenericStateMetaStore) metaKey(name string) []byte {
	return []byte(PrefixStateMeta + name)
}

func (s *GenericStateMetaStore) SetTotalSupply(supply *big.Int) error {
	if err := s.provider.Put(s.metaKey(StateMetaKeyTotalSupply), []byte(utils.AmountToString(supply))); err != nil {
		return fmt.Errorf("failed to store total supply: %w", err)
	}
	return nil
}

func (s *GenericStateMetaStore) SetTotalSupplyInBatch(batch db.DatabaseBatch, supply *big.Int) {
	batch.Put(s.metaKey(StateMetaKeyTotalSupply), []byte(utils.AmountToString(supply)))
}

func (s *GenericStateMetaStore) GetTotalSupply() (*big.Int, bool, error) {
	value, err := s.provider.Get(s.metaKey(StateMetaKeyTotalSupply))
	if err != nil {
		return nil, false, fmt.Errorf("failed to get total supply: %w", err)
	}
	if value == nil {
		return nil, false, nil
	}
	supply, err := utils.AmountFromString(string(value))
	if err != nil {
		return nil, false, fmt.Errorf("corrupt total supply: %w", err)
	}
	return supply, true, nil
}

func (s *GenericStateMetaStore) SetAdministrator(addr string) error {
	if err := s.provider.Put(s.metaKey(StateMetaKeyAdministrator), []byte(addr)); err != nil {
		return fmt.Errorf("failed to store administrator: %w", err)
	}
	return nil
}

func (s *GenericStateMetaStore) SetAdministratorInBatch(batch db.DatabaseBatch, addr string) {
	batch.Put(s.metaKey(StateMetaKeyAdministrator), []byte(addr))
}

func (s *GenericStateMetaStore) GetAdministrator() (string, bool, error) {
	value, err := s.provider.Get(s.metaKey(StateMetaKeyAdministrator))
	if err != nil {
		return "", false, fmt.Errorf("failed to get administrator: %w", err)
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

func encodeBool(v bool) []byte {
	if v {
		return []byte("1")
	}
	return []byte("0")
}

func (s *GenericStateMetaStore) SetPaused(paused bool) error {
	if err := s.provider.Put(s.metaKey(StateMetaKeyPaused), encodeBool(paused)); err != nil {
		return fmt.Errorf("failed to store paused flag: %w", err)
	}
	return nil
}

func (s *GenericStateMetaStore) SetPausedInBatch(batch db.DatabaseBatch, paused bool) {
	batch.Put(s.metaKey(StateMetaKeyPaused), encodeBool(paused))
}

func (s *GenericStateMetaStore) GetPaused() (bool, bool, error) {
	value, err := s.provider.Get(s.metaKey(StateMetaKeyPaused))
	if err != nil {
		return false, false, fmt.Errorf("failed to get paused flag: %w", err)
	}
	if value == nil {
		return false, false, nil
	}
	return string(value) == "1", true, nil
}

func (s *GenericStateMetaStore) MarkInitialized() error {
	if err := s.provider.Put(s.metaKey(StateMetaKeyInitialized), []byte("1")); err != nil {
		return fmt.Errorf("failed to mark state initialized: %w", err)
	}
	return nil
}

func (s *GenericStateMetaStore) IsInitialized() (bool, error) {
	value, err := s.provider.Get(s.metaKey(StateMetaKeyInitialized))
	if err != nil {
		return false, fmt.Errorf("failed to read initialized flag: %w", err)
	}
	return string(value) == "1", nil
}
