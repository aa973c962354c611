package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tokend/config"
	"tokend/events"
	"tokend/exception"
	"tokend/jsonrpc"
	"tokend/ledger"
	"tokend/logx"
	"tokend/monitoring"
	"tokend/store"
)

type NodeFlags struct {
	ConfigPath  string
	GenesisPath string
}

var nodeFlags NodeFlags

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Run the token ledger node",
	Long:  "Loads the node and genesis configuration, opens the state store and serves the token ledger over JSON-RPC.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runNode(nodeFlags); err != nil {
			logx.Error("NODE", "node stopped with error: ", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(nodeCmd)

	nodeCmd.PersistentFlags().StringVarP(&nodeFlags.ConfigPath, "config", "c", config.DefaultNodePath, "node config file (ini)")
	nodeCmd.PersistentFlags().StringVarP(&nodeFlags.GenesisPath, "genesis", "g", config.DefaultGenesisPath, "genesis file (yaml)")
}

func runNode(flags NodeFlags) error {
	nodeCfg, err := config.LoadNodeConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	gen, err := config.LoadGenesisConfig(flags.GenesisPath)
	if err != nil {
		return err
	}

	provider, accountStore, stateMeta, metadataStore, err := store.CreateStore(&store.StoreConfig{
		Type:      store.StoreType(nodeCfg.Store.Type),
		Directory: nodeCfg.Store.Directory,
	})
	if err != nil {
		return err
	}
	defer accountStore.MustClose()

	eventBus := events.NewEventBus()
	l, err := ledger.NewLedger(provider, accountStore, stateMeta, metadataStore, eventBus)
	if err != nil {
		return err
	}
	if err := l.InitFromGenesis(gen); err != nil {
		return err
	}

	if nodeCfg.Monitoring.Enabled {
		exception.SafeGo("metrics-server", func() {
			monitoring.StartMetricsServer(nodeCfg.Monitoring.Listen)
		})
	}

	// Mirror committed ledger events into the node log.
	subID, eventCh := eventBus.Subscribe()
	defer eventBus.Unsubscribe(subID)
	exception.SafeGo("event-logger", func() {
		for event := range eventCh {
			logx.Info("EVENT", fmt.Sprintf("%s | address=%s", event.Type(), event.Address()))
		}
	})

	rpcServer := jsonrpc.NewServer(nodeCfg.RPC.Listen, l)
	rpcServer.Start()

	logx.Info("NODE", fmt.Sprintf("tokend node up | rpc=%s store=%s", nodeCfg.RPC.Listen, nodeCfg.Store.Type))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logx.Info("NODE", "Shutting down on signal: ", sig)
	return nil
}
