package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"tokend/logx"
)

// LoadGenesisConfig reads and parses the genesis.yml file
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open genesis file %s: %w", path, err)
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		return nil, fmt.Errorf("could not decode genesis file %s: %w", path, err)
	}

	if err := cfgFile.Genesis.Validate(); err != nil {
		return nil, err
	}

	logx.Info("CONFIG", fmt.Sprintf("Loaded genesis: token=%s administrator=%s allocations=%d", cfgFile.Genesis.Token.Symbol, cfgFile.Genesis.Administrator, len(cfgFile.Genesis.Allocations)))
	return &cfgFile.Genesis, nil
}

// LoadNodeConfig reads the per-node runtime config from an .ini file.
// Missing values fall back to the defaults in constants.go.
func LoadNodeConfig(path string) (*NodeConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("could not load node config %s: %w", path, err)
	}

	nodeCfg := &NodeConfig{
		Store: StoreSection{
			Type:      DefaultStoreType,
			Directory: DefaultStoreDirectory,
		},
		RPC: RPCSection{
			Listen: DefaultRPCListen,
		},
		Monitoring: MonitoringSection{
			Enabled: true,
			Listen:  DefaultMetricsListen,
		},
	}

	if err := cfg.Section("store").MapTo(&nodeCfg.Store); err != nil {
		return nil, fmt.Errorf("invalid [store] section: %w", err)
	}
	if err := cfg.Section("rpc").MapTo(&nodeCfg.RPC); err != nil {
		return nil, fmt.Errorf("invalid [rpc] section: %w", err)
	}
	if err := cfg.Section("monitoring").MapTo(&nodeCfg.Monitoring); err != nil {
		return nil, fmt.Errorf("invalid [monitoring] section: %w", err)
	}

	return nodeCfg, nil
}
