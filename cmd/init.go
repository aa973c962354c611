package cmd

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"tokend/config"
	"tokend/logx"
)

type InitFlags struct {
	Dir    string
	Name   string
	Symbol string
}

var initFlags InitFlags

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a node working directory",
	Long:  "Writes a default node.ini, a genesis.yml with a freshly generated administrator keypair, and the administrator's private key file.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initWorkingDir(initFlags); err != nil {
			logx.Error("INIT", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.PersistentFlags().StringVarP(&initFlags.Dir, "dir", "d", ".", "directory to initialize")
	initCmd.PersistentFlags().StringVar(&initFlags.Name, "name", "Tokend Token", "token display name")
	initCmd.PersistentFlags().StringVar(&initFlags.Symbol, "symbol", "TKD", "token symbol")
}

const nodeIniTemplate = `[store]
type = %s
directory = %s

[rpc]
listen = %s

[monitoring]
enabled = true
listen = %s
`

const genesisTemplate = `genesis:
  token:
    name: "%s"
    symbol: "%s"
    decimals: 6
  administrator: "%s"
  paused: false
  mint_requires_admin: true
  metadata_upgradable: false
  allocations: []
`

func initWorkingDir(flags InitFlags) error {
	if err := os.MkdirAll(flags.Dir, 0755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", flags.Dir, err)
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("could not generate administrator keypair: %w", err)
	}
	adminAddress := base58.Encode(pub)

	nodePath := filepath.Join(flags.Dir, config.DefaultNodePath)
	nodeIni := fmt.Sprintf(nodeIniTemplate, config.DefaultStoreType, config.DefaultStoreDirectory, config.DefaultRPCListen, config.DefaultMetricsListen)
	if err := writeIfAbsent(nodePath, []byte(nodeIni), 0644); err != nil {
		return err
	}

	genesisPath := filepath.Join(flags.Dir, config.DefaultGenesisPath)
	genesisYml := fmt.Sprintf(genesisTemplate, flags.Name, flags.Symbol, adminAddress)
	if err := writeIfAbsent(genesisPath, []byte(genesisYml), 0644); err != nil {
		return err
	}

	keyPath := filepath.Join(flags.Dir, "administrator.key")
	if err := writeIfAbsent(keyPath, []byte(hex.EncodeToString(priv)), 0600); err != nil {
		return err
	}

	fmt.Println("initialized node directory:", flags.Dir)
	fmt.Println("administrator address:", adminAddress)
	return nil
}

func writeIfAbsent(path string, data []byte, perm os.FileMode) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}
