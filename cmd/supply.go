package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokend/logx"
)

type SupplyFlags struct {
	NodeURL string
}

var supplyFlags SupplyFlags

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Show total supply, administrator and token metadata",
	Run: func(cmd *cobra.Command, args []string) {
		if err := querySupply(supplyFlags); err != nil {
			logx.Error("SUPPLY CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(supplyCmd)

	supplyCmd.PersistentFlags().StringVarP(&supplyFlags.NodeURL, "node-url", "u", "localhost:9090", "ledger node URL")
}

func querySupply(flags SupplyFlags) error {
	client := newRPCClient(flags.NodeURL)

	var supply struct {
		TotalSupply string `json:"total_supply"`
	}
	if err := client.call("token.gettotalsupply", nil, &supply); err != nil {
		return err
	}

	var admin struct {
		Administrator string `json:"administrator"`
		Paused        bool   `json:"paused"`
	}
	if err := client.call("token.getadministrator", nil, &admin); err != nil {
		return err
	}

	var metadata struct {
		Token struct {
			Name     string `json:"name"`
			Symbol   string `json:"symbol"`
			Decimals uint8  `json:"decimals"`
		} `json:"token"`
	}
	if err := client.call("token.getmetadata", nil, &metadata); err != nil {
		return err
	}

	fmt.Printf("token:         %s (%s, %d decimals)\n", metadata.Token.Name, metadata.Token.Symbol, metadata.Token.Decimals)
	fmt.Printf("total supply:  %s\n", supply.TotalSupply)
	fmt.Printf("administrator: %s\n", admin.Administrator)
	fmt.Printf("paused:        %t\n", admin.Paused)
	return nil
}
