package config

import (
	"fmt"

	"tokend/types"
	"tokend/utils"
)

// GenesisConfig describes the deployed instance: the token's descriptive
// metadata, the initial administrator, the pause flag and the initial
// allocations minted at first start.
type GenesisConfig struct {
	Token            types.TokenMetadata `yaml:"token"`
	ContractMetadata map[string]string   `yaml:"contract_metadata"`

	Administrator string `yaml:"administrator"`
	Paused        bool   `yaml:"paused"`

	// MintRequiresAdmin gates the mint entry point. The base supply
	// engine carries no check of its own, so this is where the standard
	// admin-only configuration is chosen. Defaults to true when omitted.
	MintRequiresAdmin *bool `yaml:"mint_requires_admin"`

	// MetadataUpgradable enables the admin-only updatemetadata entry
	// point for the contract metadata map.
	MetadataUpgradable bool `yaml:"metadata_upgradable"`

	Allocations []Allocation `yaml:"allocations"`
}

// Allocation is an initial balance minted at genesis.
type Allocation struct {
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

// ConfigFile is the top-level shape of genesis.yml
type ConfigFile struct {
	Genesis GenesisConfig `yaml:"genesis"`
}

// MintAdminOnly resolves the mint gate, defaulting to admin-only.
func (g *GenesisConfig) MintAdminOnly() bool {
	if g.MintRequiresAdmin == nil {
		return true
	}
	return *g.MintRequiresAdmin
}

// Validate checks the genesis for obvious misconfiguration before any
// state is written.
func (g *GenesisConfig) Validate() error {
	if g.Administrator == "" {
		return fmt.Errorf("genesis administrator cannot be empty")
	}
	for i, alloc := range g.Allocations {
		if alloc.Address == "" {
			return fmt.Errorf("allocation %d: address cannot be empty", i)
		}
		if _, err := utils.AmountFromString(alloc.Amount); err != nil {
			return fmt.Errorf("allocation %d (%s): %w", i, alloc.Address, err)
		}
	}
	return nil
}

// NodeConfig is the per-node runtime configuration (node.ini).
type NodeConfig struct {
	Store      StoreSection      `ini:"store"`
	RPC        RPCSection        `ini:"rpc"`
	Monitoring MonitoringSection `ini:"monitoring"`
}

type StoreSection struct {
	Type      string `ini:"type"`
	Directory string `ini:"directory"`
}

type RPCSection struct {
	Listen string `ini:"listen"`
}

type MonitoringSection struct {
	Enabled bool   `ini:"enabled"`
	Listen  string `ini:"listen"`
}
